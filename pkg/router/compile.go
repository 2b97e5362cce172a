package router

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// Default component sources used when the routes root has no +layout or
// +error component.
const (
	DefaultLayoutComponent = "routekit:default/layout"
	DefaultErrorComponent  = "routekit:default/error"
)

// DefaultMaxDepth bounds directory nesting.
const DefaultMaxDepth = 64

// Options configures a compile.
type Options struct {
	// FS is the filesystem to read from. Defaults to os.DirFS(".").
	FS fs.FS

	// RoutesDir is the routes directory inside FS. Default: "routes"
	RoutesDir string

	// MatchersDir holds parameter matcher modules. Empty disables matchers.
	MatchersDir string

	// PageExtensions are component file extensions. Default: .templ, .html
	PageExtensions []string

	// ModuleExtensions are module file extensions. Default: .go
	ModuleExtensions []string

	// DefaultLayout is the root layout component used when none exists.
	DefaultLayout string

	// DefaultError is the root error component used when none exists.
	DefaultError string

	// StrictEndpointSlash makes endpoint-only routes reject a trailing slash.
	// Page routes always accept one.
	StrictEndpointSlash bool

	// SpecialNames are "__" entries that are skipped instead of rejected.
	// Default: __tests__, __snapshots__
	SpecialNames []string

	// MaxDepth bounds directory nesting. Default: 64
	MaxDepth int

	// CacheSize is the number of parsed segments kept between compiles.
	// Zero uses DefaultCacheSize; negative disables the cache.
	CacheSize int

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.FS == nil {
		o.FS = os.DirFS(".")
	}
	if o.RoutesDir == "" {
		o.RoutesDir = "routes"
	}
	if len(o.PageExtensions) == 0 {
		o.PageExtensions = []string{".templ", ".html"}
	}
	if len(o.ModuleExtensions) == 0 {
		o.ModuleExtensions = []string{".go"}
	}
	if o.DefaultLayout == "" {
		o.DefaultLayout = DefaultLayoutComponent
	}
	if o.DefaultError == "" {
		o.DefaultError = DefaultErrorComponent
	}
	if o.SpecialNames == nil {
		o.SpecialNames = []string{"__tests__", "__snapshots__"}
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.CacheSize == 0 {
		o.CacheSize = DefaultCacheSize
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Compiler turns a routes directory into a RouteTable. A Compiler may be
// reused for repeated compiles of the same project but must not be used
// from several goroutines at once.
type Compiler struct {
	opts  Options
	cache *segmentCache
}

// NewCompiler creates a compiler.
func NewCompiler(opts Options) *Compiler {
	opts = opts.withDefaults()
	return &Compiler{opts: opts, cache: newSegmentCache(opts.CacheSize)}
}

// Compile compiles the routes directory with the given options.
func Compile(ctx context.Context, opts Options) (*RouteTable, error) {
	return NewCompiler(opts).Compile(ctx)
}

// Compile scans the routes directory and builds the route table. Any error
// aborts the compile; no partial table is returned.
func (c *Compiler) Compile(ctx context.Context) (*RouteTable, error) {
	start := time.Now()
	log := c.opts.Logger

	matchers, err := LoadMatchers(c.opts.FS, c.opts.MatchersDir, c.opts.ModuleExtensions)
	if err != nil {
		return nil, err
	}

	scanner := NewScanner(c.opts.FS, c.opts)
	scanner.cache = c.cache
	tree, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	c.ensureRootUnits(tree)

	nodes, index := indexNodes(tree)

	pages := make(map[int]*PageRef)
	for i := range tree.Nodes {
		if tree.Nodes[i].Leaf == nil {
			continue
		}
		ref, err := resolvePage(tree, i, index)
		if err != nil {
			return nil, err
		}
		pages[i] = ref
	}

	if err := NewValidator(tree, matchers).Validate(); err != nil {
		return nil, err
	}

	var routes []CompiledRoute
	used := make(Matchers)
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if !n.IsRoute() {
			continue
		}
		endpointOnly := n.Leaf == nil
		pattern, params := CompilePattern(tree.Segments(i), endpointOnly && c.opts.StrictEndpointSlash)
		for _, p := range params {
			if p.Matcher != "" {
				used[p.Matcher] = matchers[p.Matcher]
			}
		}
		routes = append(routes, CompiledRoute{
			ID:       n.ID,
			Pattern:  pattern,
			Params:   params,
			Page:     pages[i],
			Endpoint: n.Endpoint,
		})
	}
	if len(routes) == 0 {
		return nil, newError(NoRoutes, "no routes found in %s", c.opts.RoutesDir).
			withFiles(c.opts.RoutesDir).
			withDetails("add a +page or +server file")
	}

	SortBySpecificity(routes)

	log.Debug("routes compiled",
		"dir", c.opts.RoutesDir,
		"routes", len(routes),
		"nodes", len(nodes),
		"matchers", len(used),
		"cached_segments", c.cache.len(),
		"duration", time.Since(start))

	return &RouteTable{Routes: routes, Nodes: nodes, Matchers: used}, nil
}

// ensureRootUnits gives the root a layout and error component, falling back
// to the configured defaults.
func (c *Compiler) ensureRootUnits(t *Tree) {
	root := t.Root()
	if root.Layout == nil {
		root.Layout = &PageNode{Kind: KindLayout}
	}
	if root.Layout.Component == "" {
		root.Layout.Component = c.opts.DefaultLayout
	}
	if root.Error == nil {
		root.Error = &PageNode{Kind: KindError}
	}
	if root.Error.Component == "" {
		root.Error.Component = c.opts.DefaultError
	}
}
