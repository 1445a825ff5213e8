package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded, when present, before the environment is parsed.
// Values already set in the process environment win.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config holds every setting of the console and the reference backend.
type Config struct {
	APIURL        string `env:"DRE_API_URL" envDefault:"http://localhost:8088"`
	APITimeoutMs  int    `env:"DRE_API_TIMEOUT_MS" envDefault:"5000"`
	APIMaxRetries int    `env:"DRE_API_MAX_RETRIES" envDefault:"1"`

	// DBPath is the backend SQLite file. Empty means ~/.dretree/dretree.db.
	DBPath      string   `env:"DRE_DB"`
	ListenAddr  string   `env:"DRE_LISTEN_ADDR" envDefault:"localhost:8088"`
	CORSOrigins []string `env:"DRE_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	MetricsPath string   `env:"DRE_METRICS_PATH" envDefault:"/metrics"`

	LogLevel string `env:"DRE_LOG_LEVEL" envDefault:"info"`
	// LogFile receives logs while the tree console owns the terminal.
	LogFile string `env:"DRE_LOG_FILE"`

	// RowLines is the terminal height of one tree row.
	RowLines int `env:"DRE_ROW_LINES" envDefault:"3"`
}

// DefaultConfig returns the configuration implied by the struct defaults,
// ignoring the process environment.
func DefaultConfig() Config {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return c
}

// LoadEnv loads the env files that exist and reports how many were read.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads env files, then the environment, and validates the result.
func Load(files ...string) (Config, error) {
	if files == nil {
		files = DefaultEnvFiles
	}
	if _, err := LoadEnv(files); err != nil {
		return Config{}, fmt.Errorf("loading env files: %w", err)
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the console cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("DRE_API_URL must not be empty"))
	}
	if c.APITimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("DRE_API_TIMEOUT_MS must be positive, got %d", c.APITimeoutMs))
	}
	if c.APIMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("DRE_API_MAX_RETRIES must be non-negative, got %d", c.APIMaxRetries))
	}
	if c.RowLines < 1 || c.RowLines > 8 {
		errs = append(errs, fmt.Errorf("DRE_ROW_LINES must be between 1 and 8, got %d", c.RowLines))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// APITimeout returns the per-call timeout of the backend client.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMs) * time.Millisecond
}

// ResolveDBPath returns DBPath, defaulting to ~/.dretree/dretree.db.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".dretree", "dretree.db"), nil
}
