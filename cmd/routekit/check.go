package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/build"
	"github.com/vango-dev/routekit/internal/errors"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the routes directory without writing anything",
		Long: `Validate the routes directory.

Exits non-zero on the first problem found. With --json the error
is printed as a JSON object on stdout for editor integrations.

Examples:
  routekit check
  routekit check --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			logger := newLogger(flags, slog.LevelWarn)
			table, err := build.New(cfg.RouterOptions(logger), "", build.WithLogger(logger)).
				Compile(context.Background())
			if err != nil {
				if asJSON {
					fmt.Fprintln(cmd.OutOrStdout(), errors.FromError(err, "E215").FormatJSON())
				} else {
					errorMsg(cmd.OutOrStdout(), "%s is invalid", cfg.RoutesPath())
				}
				return err
			}

			if asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "{\"ok\":true,\"routes\":%d}\n", len(table.Routes))
				return nil
			}
			success(cmd.OutOrStdout(), "%d routes OK", len(table.Routes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
