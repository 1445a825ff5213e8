package cli

import (
	"fmt"
	"net"

	"github.com/alexanderramin/dretree/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr         string
		seed         bool
		seedUnranked bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ordering backend over the local store",
		Long: `Serve the ordering API from the local SQLite store until interrupted.
--seed loads a demo statement into an empty store; --seed-unranked loads it
without ranks so ordering starts inactive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.OpenService == nil {
				return fmt.Errorf("local store is not available")
			}
			svc, closeFn, err := app.OpenService()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := commandContext(cmd)
			if seed || seedUnranked {
				n, err := svc.Seed(ctx, !seedUnranked)
				if err != nil {
					return fmt.Errorf("seeding demo statement: %w", err)
				}
				if n > 0 {
					app.Logger.Info("seeded", "nodes", n, "ranked", !seedUnranked)
				}
			}

			srv := server.New(svc, server.Options{
				Logger:      app.Logger,
				CORSOrigins: app.Config.CORSOrigins,
				MetricsPath: app.Config.MetricsPath,
			})
			return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", a)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from DRE_LISTEN_ADDR)")
	cmd.Flags().BoolVar(&seed, "seed", false, "Load the demo statement into an empty store")
	cmd.Flags().BoolVar(&seedUnranked, "seed-unranked", false, "Load the demo statement without ranks")
	cmd.MarkFlagsMutuallyExclusive("seed", "seed-unranked")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if addr == "" {
			addr = app.Config.ListenAddr
		}
	}
	return cmd
}
