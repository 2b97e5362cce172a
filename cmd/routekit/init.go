package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/internal/errors"
)

func initCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a routekit.json with default settings",
		Long: `Create a routekit.json and an empty routes directory.

With --force an existing routekit.json is rewritten with every default
filled in. Values already set are kept, and any ROUTEKIT_* overrides
in effect are written to the file.

Examples:
  routekit init
  routekit init ./site
  routekit init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if path == "" {
				dir := "."
				if len(args) == 1 {
					dir = args[0]
				}
				path = filepath.Join(dir, config.ConfigFileName)
			}
			return runInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rewrite an existing routekit.json")

	return cmd
}

func runInit(cmd *cobra.Command, path string, force bool) error {
	out := cmd.OutOrStdout()

	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if !force {
			return errors.New("E140").
				WithLocation(path).
				WithSuggestion("Pass --force to rewrite it with defaults filled in")
		}

		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		success(out, "Updated %s", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New("E120").Wrap(err)
	}

	cfg := config.New()
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	for _, dir := range []string{cfg.RoutesPath(), cfg.MatchersPath()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.New("E215").WithLocation(dir).Wrap(err)
		}
	}

	success(out, "Created %s", path)
	fmt.Fprintln(out)
	info(out, "Add pages under %s, then run %s", cfg.Routes.Dir, bold("routekit build"))
	return nil
}
