package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/dev"
)

func devCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Watch routes and serve the live manifest",
		Long: `Start the development server.

The dev server watches the routes and matcher directories,
recompiles on change, rewrites the manifest and notifies
WebSocket clients of what changed.

Endpoints:
  • /manifest.json   current route table
  • /routes          route summary
  • /match?path=     route lookup
  • /metrics         Prometheus metrics
  • /_routekit/ws    change notifications

Examples:
  routekit dev
  routekit dev --port=8080
  routekit dev --host=0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}

			logger := newLogger(flags, slog.LevelInfo)

			out := cmd.OutOrStdout()
			success(out, "Watching %s", cfg.RoutesPath())
			info(out, "Manifest  %s", cfg.ManifestPath())
			info(out, "Server    %s", cfg.DevURL())

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return dev.NewServer(dev.ServerOptions{
				Config: cfg,
				Logger: logger,
			}).Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from routekit.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from routekit.json)")

	return cmd
}
