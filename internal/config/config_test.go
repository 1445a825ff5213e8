package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("DRE_API_URL", "http://ignored:1")
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8088", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, 1, cfg.APIMaxRetries)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, 3, cfg.RowLines)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DRE_API_URL", "http://backend:9000")
	t.Setenv("DRE_API_TIMEOUT_MS", "750")
	t.Setenv("DRE_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DRE_ROW_LINES", "2")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", cfg.APIURL)
	assert.Equal(t, 750*time.Millisecond, cfg.APITimeout())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 2, cfg.RowLines)
}

func TestLoad_EnvFileDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("DRE_LISTEN_ADDR=0.0.0.0:7000\nDRE_METRICS_PATH=/debug/metrics\n"), 0o644))
	t.Setenv("DRE_METRICS_PATH", "/m")
	// Registered so t restores it after godotenv sets it.
	t.Setenv("DRE_LISTEN_ADDR", "")
	os.Unsetenv("DRE_LISTEN_ADDR")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.ListenAddr)
	assert.Equal(t, "/m", cfg.MetricsPath)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DRE_API_TIMEOUT_MS", "0")
	t.Setenv("DRE_ROW_LINES", "12")
	t.Setenv("DRE_LOG_LEVEL", "loud")

	_, err := Load(filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DRE_API_TIMEOUT_MS")
	assert.Contains(t, err.Error(), "DRE_ROW_LINES")
	assert.Contains(t, err.Error(), "DRE_LOG_LEVEL")
}

func TestLoad_MalformedNumber(t *testing.T) {
	t.Setenv("DRE_API_MAX_RETRIES", "many")
	_, err := Load(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestResolveDBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBPath = "/tmp/x.db"
	p, err := cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", p)

	cfg.DBPath = ""
	p, err = cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, "dretree.db", filepath.Base(p))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	log, closeFn, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	defer closeFn()

	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=1")
}

func TestNewLogger_File(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "dretree.log")
	log, closeFn, err := cfg.NewLogger(nil)
	require.NoError(t, err)
	log.Info("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLevel(t *testing.T) {
	silent, err := ParseLevel("silent")
	require.NoError(t, err)
	errLevel, err := ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Greater(t, silent, errLevel)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
