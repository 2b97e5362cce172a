package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/errors"
)

func explainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Describe a routekit error code such as E218.

Without an argument every known code is listed.

Examples:
  routekit explain
  routekit explain E218`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listCodes(cmd)
				return nil
			}
			return explainCode(cmd, args[0])
		},
	}

	return cmd
}

func listCodes(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	codes := errors.AllCodes()
	sort.Strings(codes)
	for _, code := range codes {
		t, _ := errors.GetTemplate(code)
		fmt.Fprintf(out, "  %s  %-7s %s\n", bold(code), t.Category, t.Message)
	}
}

func explainCode(cmd *cobra.Command, code string) error {
	out := cmd.OutOrStdout()

	code = strings.ToUpper(code)
	t, ok := errors.GetTemplate(code)
	if !ok {
		return errors.Newf(errors.CategoryCLI, "unknown error code %q", code).
			WithSuggestion("Run 'routekit explain' to list known codes")
	}

	fmt.Fprintf(out, "%s %s\n", bold(code), t.Message)
	fmt.Fprintf(out, "  Category: %s\n", t.Category)
	if t.Detail != "" {
		fmt.Fprintln(out)
		info(out, "%s", t.Detail)
	}
	if t.DocURL != "" {
		fmt.Fprintln(out)
		info(out, "See %s", t.DocURL)
	}
	return nil
}
