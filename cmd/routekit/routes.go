package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/build"
	"github.com/vango-dev/routekit/pkg/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled routes in match order",
		Long: `Print every route in the order a server should try them.

Examples:
  routekit routes
  routekit routes --json`,
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
				return err
			}

			if asJSON {
				data, err := build.Marshal(table)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			printRoutes(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full manifest")
	return cmd
}

func printRoutes(w io.Writer, table *router.RouteTable) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, bold("ROUTE")+"\t"+bold("KIND")+"\t"+bold("PATTERN")+"\t"+bold("LAYOUTS"))
	for _, r := range table.Routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, routeKind(r), r.Pattern.String(), layoutChain(table, r))
	}
	tw.Flush()
}

func routeKind(r router.CompiledRoute) string {
	switch {
	case r.Page != nil && r.Endpoint != nil:
		return "page+endpoint"
	case r.Page != nil:
		return "page"
	default:
		return "endpoint"
	}
}

func layoutChain(table *router.RouteTable, r router.CompiledRoute) string {
	if r.Page == nil {
		return "-"
	}
	var parts []string
	for _, i := range r.Page.Layouts {
		if i == router.NoNode {
			parts = append(parts, "·")
			continue
		}
		parts = append(parts, table.Nodes[i].Component)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " > ")
}
