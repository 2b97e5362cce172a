package metrics

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/routekit/pkg/router"
)

// Config configures the compile metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "routekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compile duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the compile metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "routekit",
		// Compiles of small trees finish well under a millisecond.
		Buckets:  []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Recorder records compile, publish and dev server metrics. A nil Recorder
// discards everything.
type Recorder struct {
	compilesTotal   *prometheus.CounterVec
	compileDuration prometheus.Histogram
	routes          prometheus.Gauge
	nodes           prometheus.Gauge
	publishesTotal  *prometheus.CounterVec
	devClients      prometheus.Gauge
}

// New creates a Recorder and registers its metrics.
//
// Metrics:
//   - routekit_compiles_total: compiles by result and error kind
//   - routekit_compile_duration_seconds: compile duration
//   - routekit_routes: routes in the last successful compile
//   - routekit_nodes: page nodes in the last successful compile
//   - routekit_publishes_total: manifest uploads by result
//   - routekit_dev_clients: connected dev websocket clients
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		compilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compiles_total",
			Help:        "Total number of route compiles",
			ConstLabels: config.ConstLabels,
		}, []string{"result", "kind"}),

		compileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compile_duration_seconds",
			Help:        "Route compile duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of routes in the last successful compile",
			ConstLabels: config.ConstLabels,
		}),

		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes",
			Help:        "Number of page nodes in the last successful compile",
			ConstLabels: config.ConstLabels,
		}),

		publishesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "publishes_total",
			Help:        "Total number of manifest uploads",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		devClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dev_clients",
			Help:        "Number of connected dev server websocket clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveCompile records one compile. table is ignored when err is set.
func (r *Recorder) ObserveCompile(d time.Duration, table *router.RouteTable, err error) {
	if r == nil {
		return
	}
	r.compileDuration.Observe(d.Seconds())
	if err != nil {
		r.compilesTotal.WithLabelValues("error", errorKind(err)).Inc()
		return
	}
	r.compilesTotal.WithLabelValues("success", "").Inc()
	if table != nil {
		r.routes.Set(float64(len(table.Routes)))
		r.nodes.Set(float64(len(table.Nodes)))
	}
}

// ObservePublish records one manifest upload.
func (r *Recorder) ObservePublish(err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.publishesTotal.WithLabelValues(result).Inc()
}

// ClientConnected records a dev websocket client joining.
func (r *Recorder) ClientConnected() {
	if r != nil {
		r.devClients.Inc()
	}
}

// ClientDisconnected records a dev websocket client leaving.
func (r *Recorder) ClientDisconnected() {
	if r != nil {
		r.devClients.Dec()
	}
}

// errorKind keeps the kind label bounded to the router's error kinds.
func errorKind(err error) string {
	var kind router.ErrorKind
	if stderrors.As(err, &kind) {
		return strings.ToLower(string(kind))
	}
	return "internal"
}
