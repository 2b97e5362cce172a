// Package build compiles a project's routes into manifest.json.
//
// A Builder wraps a reusable router.Compiler with tracing, metrics and
// optional publishing:
//
//	b := build.New(cfg.RouterOptions(logger), cfg.ManifestPath(),
//	    build.WithMetrics(metrics.New()),
//	)
//	res, err := b.Build(ctx)
package build
