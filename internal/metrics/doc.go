// Package metrics exposes Prometheus metrics for route compiles, manifest
// publishing and the dev server.
package metrics
