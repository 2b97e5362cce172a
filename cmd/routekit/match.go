package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/build"
	"github.com/vango-dev/routekit/internal/errors"
)

func matchCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Show which route handles a URL path",
		Long: `Show the first route whose pattern matches the given path.

Parameter matchers are not executed, so a [id=int] segment
accepts any value here.

Examples:
  routekit match /blog/hello-world
  routekit match /docs/a/b/c`,
		Args: cobra.ExactArgs(1),
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

			res, ok := table.Match(args[0], nil)
			if !ok {
				return errors.New("E190").WithDetail("No route matches " + args[0])
			}

			out := cmd.OutOrStdout()
			success(out, "%s", res.Route.ID)
			info(out, "pattern  %s", res.Route.Pattern.String())

			names := make([]string, 0, len(res.Params))
			for name := range res.Params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				info(out, "%-8s %q", name, res.Params[name])
			}
			if res.Route.Page != nil {
				fmt.Fprintln(out)
				info(out, "page     %s", table.Nodes[res.Route.Page.Leaf].Component)
			}
			if res.Route.Endpoint != nil {
				info(out, "endpoint %s", res.Route.Endpoint.File)
			}
			return nil
		},
	}
	return cmd
}
