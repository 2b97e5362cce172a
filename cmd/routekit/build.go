package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/build"
	"github.com/vango-dev/routekit/internal/publish"
)

type buildOptions struct {
	output  string
	publish bool
	bucket  string
	prefix  string
}

func buildCmd(flags *globalFlags) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile routes and write the manifest",
		Long: `Compile the routes directory and write manifest.json.

This command:
  • Scans the routes directory and validates every file name
  • Resolves layout and error inheritance
  • Rejects conflicting routes
  • Writes routes sorted by specificity
  • Optionally uploads the manifest to S3

Examples:
  routekit build
  routekit build --output=dist/routes.json
  routekit build --publish --bucket=my-manifests --prefix=staging/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Manifest path (default from routekit.json)")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Upload the manifest to S3")
	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "S3 bucket (default from routekit.json)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "S3 key prefix (default from routekit.json)")

	return cmd
}

func runBuild(cmd *cobra.Command, flags *globalFlags, opts *buildOptions) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	if opts.output != "" {
		cfg.Output.Manifest = opts.output
	}
	if opts.bucket != "" {
		cfg.Publish.Bucket = opts.bucket
	}
	if opts.prefix != "" {
		cfg.Publish.Prefix = opts.prefix
	}

	logger := newLogger(flags, slog.LevelWarn)
	options := []build.Option{build.WithLogger(logger)}
	if opts.publish {
		if err := cfg.ValidatePublish(); err != nil {
			return err
		}
		client := publish.NewS3Client(cfg.Publish.Region, cfg.Publish.Endpoint)
		options = append(options, build.WithPublisher(
			publish.NewS3Publisher(client, cfg.Publish.Bucket, cfg.Publish.Prefix)))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	res, err := build.New(cfg.RouterOptions(logger), cfg.ManifestPath(), options...).Build(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	success(out, "Compiled %d routes (%d nodes) in %s",
		len(res.Table.Routes), len(res.Table.Nodes), res.Duration.Round(time.Millisecond))
	info(out, "Wrote %s", res.Path)
	if res.Published != "" {
		info(out, "Published %s", res.Published)
	} else if cfg.Publish.Bucket != "" {
		warn(out, "publish.bucket is set; pass --publish to upload the manifest")
	}
	return nil
}
