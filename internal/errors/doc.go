// Package errors provides structured, actionable error messages for the
// routekit CLI and dev server.
//
// Route compile failures come out of pkg/router as *router.Error values
// carrying a kind, the files involved and an optional suggestion. This
// package gives each kind a stable code and a longer explanation, and renders
// the result for terminals or JSON consumers.
//
// # Error Codes
//
//	E120-E149  configuration (routekit.json, environment overrides)
//	E150-E169  build output and publishing
//	E170-E189  dev server and watcher
//	E190-E199  CLI commands
//	E200-E219  route compilation
//
// # Usage
//
//	table, err := router.Compile(ctx, opts)
//	if err != nil {
//	    errors.PrintError(err)
//	    // ERROR E212: Duplicate route file
//	    //
//	    //   routes/blog/+page.templ
//	    //   routes/blog/+page.html
//	    //
//	    //   Learn more: https://routekit.dev/docs/errors/E212
//	}
package errors
