package router

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// writeFiles creates empty files under a temp dir and returns the dir.
func writeFiles(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		full := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("package routes\n"), 0o644))
	}
	return dir
}

// compileRoutes writes files under routes/ and compiles them.
func compileRoutes(t *testing.T, files ...string) (*RouteTable, error) {
	t.Helper()
	return compileRoutesWith(t, Options{}, files...)
}

func compileRoutesWith(t *testing.T, opts Options, files ...string) (*RouteTable, error) {
	t.Helper()
	prefixed := make([]string, len(files))
	for i, f := range files {
		prefixed[i] = "routes/" + f
	}
	dir := writeFiles(t, prefixed...)
	opts.FS = os.DirFS(dir)
	opts.Logger = discardLogger
	return Compile(context.Background(), opts)
}

func routeIDs(table *RouteTable) []string {
	ids := make([]string, len(table.Routes))
	for i, r := range table.Routes {
		ids[i] = r.ID
	}
	return ids
}

func findRoute(t *testing.T, table *RouteTable, id string) *CompiledRoute {
	t.Helper()
	for i := range table.Routes {
		if table.Routes[i].ID == id {
			return &table.Routes[i]
		}
	}
	t.Fatalf("route %q not found in %v", id, routeIDs(table))
	return nil
}

func requireKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	return rerr
}
