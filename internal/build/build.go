package build

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/internal/metrics"
	"github.com/vango-dev/routekit/internal/publish"
	"github.com/vango-dev/routekit/pkg/router"
)

const tracerName = "routekit"

// Builder compiles a routes directory and writes the manifest.
type Builder struct {
	compiler  *router.Compiler
	output    string
	publisher publish.Publisher
	metrics   *metrics.Recorder
	tracer    trace.Tracer
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPublisher uploads the manifest after writing it.
func WithPublisher(p publish.Publisher) Option {
	return func(b *Builder) {
		b.publisher = p
	}
}

// WithMetrics records compile and publish metrics.
func WithMetrics(m *metrics.Recorder) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// WithTracer sets the tracer. Default: the global provider's "routekit" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(b *Builder) {
		b.tracer = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// Result describes a finished build.
type Result struct {
	Table     *router.RouteTable
	Manifest  []byte
	Path      string
	Published string
	Duration  time.Duration
}

// New creates a Builder. output is the manifest path; empty skips writing.
func New(opts router.Options, output string, options ...Option) *Builder {
	b := &Builder{output: output}
	for _, opt := range options {
		opt(b)
	}
	if b.tracer == nil {
		b.tracer = otel.Tracer(tracerName)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = b.logger
	}
	b.compiler = router.NewCompiler(opts)
	return b
}

// Compile compiles the route table without writing anything.
func (b *Builder) Compile(ctx context.Context) (*router.RouteTable, error) {
	ctx, span := b.tracer.Start(ctx, "routekit.compile")
	defer span.End()

	start := time.Now()
	table, err := b.compiler.Compile(ctx)
	b.metrics.ObserveCompile(time.Since(start), table, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("routekit.routes", len(table.Routes)),
		attribute.Int("routekit.nodes", len(table.Nodes)),
	)
	return table, nil
}

// Build compiles, writes the manifest and publishes it when a publisher is
// configured.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	ctx, span := b.tracer.Start(ctx, "routekit.build")
	defer span.End()

	start := time.Now()
	table, err := b.Compile(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "compile failed")
		return nil, err
	}

	data, err := Marshal(table)
	if err != nil {
		return nil, errors.New("E150").Wrap(err)
	}
	res := &Result{Table: table, Manifest: data}

	if b.output != "" {
		if err := WriteFile(b.output, data); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, errors.New("E150").WithLocation(b.output).Wrap(err)
		}
		res.Path = b.output
	}

	if b.publisher != nil {
		url, err := b.publish(ctx, data)
		if err != nil {
			return nil, err
		}
		res.Published = url
	}

	res.Duration = time.Since(start)
	b.logger.Info("build complete",
		"routes", len(table.Routes),
		"nodes", len(table.Nodes),
		"output", res.Path,
		"published", res.Published,
		"duration", res.Duration)
	return res, nil
}

func (b *Builder) publish(ctx context.Context, data []byte) (string, error) {
	ctx, span := b.tracer.Start(ctx, "routekit.publish")
	defer span.End()

	name := "manifest.json"
	if b.output != "" {
		name = filepath.Base(b.output)
	}
	url, err := b.publisher.Publish(ctx, name, data)
	b.metrics.ObservePublish(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", errors.New("E151").Wrap(err)
	}
	span.SetAttributes(attribute.String("routekit.published", url))
	return url, nil
}

// Marshal encodes a route table as an indented manifest.
func Marshal(table *router.RouteTable) ([]byte, error) {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteFile writes data to path atomically, creating parent directories.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
