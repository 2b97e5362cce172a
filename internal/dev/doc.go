// Package dev provides the routekit development server.
//
// The server polls the routes and matcher directories, recompiles the route
// table when something changes, writes the manifest, and pushes a summary
// of what changed to connected WebSocket clients. A failed compile keeps
// the previous table live and reports the error instead.
//
// # Architecture
//
//   - Watcher: polls the file system for changes
//   - build.Builder: compiles routes and writes manifest.json
//   - Hub: notifies clients of changes via WebSocket
//   - Server: ties them together and serves HTTP
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{Config: cfg})
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # HTTP Endpoints
//
//	GET /manifest.json       current route table
//	GET /routes              route summary
//	GET /match?path=/blog/x  first matching route and its params
//	GET /metrics             Prometheus metrics
//	GET /_routekit/ws        change notifications
//
// # Change Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "manifest", "changes": {"added": ["/about"]}}
//	{"type": "error", "error": {"code": "E212", "message": "..."}}
//	{"type": "clear"}
//
// A new client first receives the current state: a manifest message listing
// every route as added, or the pending error.
package dev
