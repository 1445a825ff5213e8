package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alexanderramin/dretree/internal/api"
	"github.com/alexanderramin/dretree/internal/cli"
	"github.com/alexanderramin/dretree/internal/config"
	"github.com/alexanderramin/dretree/internal/db"
	"github.com/alexanderramin/dretree/internal/repository"
	"github.com/alexanderramin/dretree/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	// The console owns the terminal, so logs go to a file unless one is set.
	if interactive && cfg.LogFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.LogFile = filepath.Join(home, ".dretree", "dretree.log")
		}
	}
	logger, closeLog, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	app := &cli.App{
		Config:  cfg,
		Logger:  logger,
		Backend: api.NewClient(api.ConfigFrom(cfg), api.NewLogObserver(logger)),
		OpenService: func() (service.OrderService, func() error, error) {
			path, err := cfg.ResolveDBPath()
			if err != nil {
				return nil, nil, err
			}
			database, err := db.OpenDB(path)
			if err != nil {
				return nil, nil, fmt.Errorf("opening database: %w", err)
			}
			svc := service.NewOrderService(
				repository.NewSQLiteNodeRepo(database),
				repository.NewSQLiteOrderLogRepo(database),
				db.NewSQLiteUnitOfWork(database),
				service.NewLogUseCaseObserver(logger),
			)
			return svc, database.Close, nil
		},
		IsInteractive: func() bool { return interactive },
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
