package dev

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routekit/internal/build"
	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/internal/metrics"
	"github.com/vango-dev/routekit/pkg/router"
)

// WebSocketPath is where dev clients subscribe to changes.
const WebSocketPath = "/_routekit/ws"

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives rebuild and server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry backs /metrics. Defaults to a fresh registry with Go and
	// process collectors.
	Registry *prometheus.Registry

	// Tracer traces rebuilds. Defaults to the global provider.
	Tracer trace.Tracer

	// OnRebuild is called after every rebuild attempt.
	OnRebuild func(table *router.RouteTable, changes router.Changes, err error)
}

// Server watches the routes directory, recompiles on change and serves the
// current route table.
type Server struct {
	config     *config.Config
	options    ServerOptions
	builder    *build.Builder
	watcher    *Watcher
	hub        *Hub
	metrics    *metrics.Recorder
	registry   *prometheus.Registry
	tracer     trace.Tracer
	logger     *slog.Logger
	changeCh   chan []Change
	httpServer *http.Server

	mu      sync.Mutex
	running bool

	stateMu  sync.RWMutex
	table    *router.RouteTable
	manifest []byte
	lastErr  *errors.Error
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := options.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	tracer := options.Tracer
	if tracer == nil {
		tracer = otel.Tracer("routekit")
	}

	rec := metrics.New(metrics.WithRegistry(registry))

	builder := build.New(cfg.RouterOptions(logger), cfg.ManifestPath(),
		build.WithMetrics(rec),
		build.WithTracer(tracer),
		build.WithLogger(logger),
	)

	watcher := NewWatcher(WatcherConfig{
		Routes:   cfg.RoutesPath(),
		Matchers: cfg.MatchersPath(),
		Ignore:   cfg.Dev.Ignore,
	})

	return &Server{
		config:   cfg,
		options:  options,
		builder:  builder,
		watcher:  watcher,
		hub:      NewHub(rec),
		metrics:  rec,
		registry: registry,
		tracer:   tracer,
		logger:   logger,
		changeCh: make(chan []Change, 64),
	}
}

// Start runs the initial build, then watches and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	// Edits made while the first build runs show up in the watcher's
	// first poll.
	s.watcher.Prime()

	// A failed first build is reported but does not stop the server; the
	// next change retries.
	s.Rebuild(ctx)

	s.watcher.OnChange(func(changes []Change) {
		select {
		case s.changeCh <- changes:
		default:
		}
	})
	go s.processChanges(ctx)
	go s.watcher.Start(ctx)

	s.httpServer = &http.Server{
		Addr:              s.config.DevAddress(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("dev server listening", "url", s.config.DevURL())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return errors.New("E170").Wrap(err)
		}
		return nil
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.watcher.Stop()
	s.hub.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// processChanges serializes rebuilds and coalesces bursts of changes that
// arrive within the debounce window.
func (s *Server) processChanges(ctx context.Context) {
	debounce := s.config.DebounceDuration()
	for {
		select {
		case <-ctx.Done():
			return
		case changes := <-s.changeCh:
			timer := time.NewTimer(debounce)
			collecting := true
			for collecting {
				select {
				case more := <-s.changeCh:
					changes = append(changes, more...)
				case <-timer.C:
					collecting = false
				case <-ctx.Done():
					timer.Stop()
					return
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}
	for _, c := range changes {
		s.logger.Debug("changed", "path", c.Path, "type", c.Type.String())
	}

	ctx, span := s.tracer.Start(ctx, "routekit.dev.rebuild",
		trace.WithAttributes(attribute.Int("routekit.changes", len(changes))))
	defer span.End()

	s.Rebuild(ctx)
}

// Rebuild compiles the routes and publishes the result to clients. On
// failure the previous table keeps being served.
func (s *Server) Rebuild(ctx context.Context) error {
	res, err := s.builder.Build(ctx)
	if err != nil {
		e := errors.FromError(err, "E170")

		s.stateMu.Lock()
		s.lastErr = e
		table := s.table
		s.stateMu.Unlock()

		s.logger.Error("rebuild failed", "code", e.Code, "error", e.FormatCompact())
		s.hub.NotifyError(e)
		if s.options.OnRebuild != nil {
			s.options.OnRebuild(table, router.Changes{}, err)
		}
		return err
	}

	s.stateMu.Lock()
	prev := s.table
	hadErr := s.lastErr != nil
	s.table = res.Table
	s.manifest = res.Manifest
	s.lastErr = nil
	s.stateMu.Unlock()

	changes := router.Diff(prev, res.Table)
	if hadErr {
		s.hub.ClearError()
	}
	if !changes.Empty() {
		s.hub.NotifyManifest(changes)
		s.logger.Info("routes updated",
			"added", len(changes.Added),
			"removed", len(changes.Removed),
			"changed", len(changes.Changed),
			"clients", s.hub.ClientCount())
	}
	if s.options.OnRebuild != nil {
		s.options.OnRebuild(res.Table, changes, nil)
	}
	return nil
}

// Table returns the last successfully compiled table, or nil.
func (s *Server) Table() *router.RouteTable {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.table
}

// LastError returns the error of the last rebuild, or nil if it succeeded.
func (s *Server) LastError() *errors.Error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastErr
}

// Handler returns the HTTP routes of the dev server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/manifest.json", s.handleManifest)
	r.Get("/routes", s.handleRoutes)
	r.Get("/match", s.handleMatch)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get(WebSocketPath, s.handleWebSocket)

	return r
}

func (s *Server) snapshot() (*router.RouteTable, []byte, *errors.Error) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.table, s.manifest, s.lastErr
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	table, manifest, lastErr := s.snapshot()
	if table == nil {
		writeUnavailable(w, lastErr)
		return
	}
	if lastErr != nil {
		w.Header().Set("X-Routekit-Error", lastErr.Code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(manifest)
}

type routeInfo struct {
	ID       string   `json:"id"`
	Pattern  string   `json:"pattern"`
	Params   []string `json:"params"`
	Page     bool     `json:"page"`
	Endpoint bool     `json:"endpoint"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	table, _, lastErr := s.snapshot()
	if table == nil {
		writeUnavailable(w, lastErr)
		return
	}

	routes := make([]routeInfo, 0, len(table.Routes))
	for _, rt := range table.Routes {
		params := make([]string, 0, len(rt.Params))
		for _, p := range rt.Params {
			params = append(params, p.Name)
		}
		routes = append(routes, routeInfo{
			ID:       rt.ID,
			Pattern:  rt.Pattern.String(),
			Params:   params,
			Page:     rt.Page != nil,
			Endpoint: rt.Endpoint != nil,
		})
	}
	writeJSON(w, http.StatusOK, routes)
}

type matchResponse struct {
	Route   string            `json:"route"`
	Pattern string            `json:"pattern"`
	Params  map[string]string `json:"params"`
}

// handleMatch resolves ?path= against the current table. Matcher modules
// are not executed here, so every matcher accepts.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errors.Newf(errors.CategoryCLI, "missing path query parameter"))
		return
	}

	table, _, lastErr := s.snapshot()
	if table == nil {
		writeUnavailable(w, lastErr)
		return
	}

	res, ok := table.Match(path, nil)
	if !ok {
		writeJSON(w, http.StatusNotFound, errors.New("E190").WithDetail("No route matches "+path))
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{
		Route:   res.Route.ID,
		Pattern: res.Route.Pattern.String(),
		Params:  res.Params,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	table, _, lastErr := s.snapshot()

	var greeting *Message
	switch {
	case lastErr != nil:
		greeting = &Message{Type: MessageError, Error: lastErr}
	case table != nil:
		changes := router.Diff(nil, table)
		greeting = &Message{Type: MessageManifest, Changes: &changes}
	}
	s.hub.HandleWebSocket(w, r, greeting)
}

func writeUnavailable(w http.ResponseWriter, lastErr *errors.Error) {
	if lastErr == nil {
		lastErr = errors.Newf(errors.CategoryDev, "no successful build yet")
	}
	writeJSON(w, http.StatusServiceUnavailable, lastErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
