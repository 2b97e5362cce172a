// Package router compiles a directory of route files into a route table.
//
// The compiler provides:
//   - Route discovery from a routes directory (any fs.FS)
//   - Bracket parameters with optional, rest and matcher forms
//   - Layout and error inheritance with named-layout overrides
//   - Conflict detection across every path shape a route can match
//   - Anchored patterns and a specificity order where the first match wins
//
// # File Structure Convention
//
// Each directory is a route segment. Files starting with "+" declare what the
// route renders or handles; any other file is colocated code and ignored:
//
//	routes/
//	├── +layout.templ            → root layout
//	├── +error.templ             → root error page
//	├── +page.templ              → /
//	├── about/
//	│   └── +page.templ          → /about
//	├── blog/
//	│   ├── +page.templ          → /blog
//	│   ├── +page.server.go      → /blog (server module)
//	│   ├── [slug]/
//	│   │   └── +page.templ      → /blog/:slug
//	│   └── index.json/
//	│       └── +server.go       → /blog/index.json endpoint
//	└── (marketing)/
//	    └── pricing/
//	        └── +page@.templ     → /pricing, root layout only
//
// # Segments
//
//	[slug]         required parameter
//	[[lang]]       optional parameter
//	[...path]      rest parameter, the whole segment, matches zero or more segments
//	[id=int]       parameter checked by the "int" matcher
//	[x+23]         escaped character: "#"
//	[u+00e9]       escaped character: "é"
//	(group)        organizes files without adding a URL segment
//
// # Usage
//
//	table, err := router.Compile(ctx, router.Options{
//	    FS:          os.DirFS("."),
//	    RoutesDir:   "app/routes",
//	    MatchersDir: "app/params",
//	})
//	if err != nil {
//	    var rerr *router.Error
//	    if errors.As(err, &rerr) && errors.Is(err, router.ConflictingRoutes) {
//	        // rerr.RouteID and rerr.OtherRouteID name both routes
//	    }
//	}
//
//	result, ok := table.Match("/blog/hello-world", nil)
//	// result.Params["slug"] == "hello-world"
package router
