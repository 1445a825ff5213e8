package cli

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/dretree/internal/config"
	"github.com/alexanderramin/dretree/internal/service"
	"github.com/spf13/cobra"
)

// App holds the dependencies shared by all commands.
type App struct {
	Config config.Config
	Logger *slog.Logger

	// Backend is the ordering backend the console talks to. The --local flag
	// replaces it with one backed by OpenService.
	Backend Backend

	// OpenService opens the local SQLite store for `serve` and --local.
	OpenService func() (service.OrderService, func() error, error)

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	// RunTUI runs a bubbletea model. Tests replace it.
	RunTUI func(m *treeModel) error

	closers []func() error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) useLocal() error {
	if a.OpenService == nil {
		return fmt.Errorf("local store is not available")
	}
	svc, closeFn, err := a.OpenService()
	if err != nil {
		return err
	}
	a.Backend = LocalBackend{Svc: svc}
	a.closers = append(a.closers, closeFn)
	return nil
}

func (a *App) close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// NewRootCmd creates the top-level "dretree" command and registers all
// subcommands against the provided App. Without a subcommand it opens the
// tree console.
func NewRootCmd(app *App) *cobra.Command {
	var local bool
	if app.Logger == nil {
		app.Logger = slog.New(slog.DiscardHandler)
	}

	root := &cobra.Command{
		Use:           "dretree",
		Short:         "Reorder the DRE account tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if local {
				return app.useLocal()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, app)
		},
	}
	root.PersistentFlags().BoolVar(&local, "local", false, "Use the local SQLite store instead of the API")

	root.AddCommand(
		newTreeCmd(app),
		newOrderCmd(app),
		newServeCmd(app),
		newRulesCmd(app),
	)

	return root
}
