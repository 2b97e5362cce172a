package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/router"
)

func TestMain(m *testing.M) {
	errors.DisableColors()
	os.Exit(m.Run())
}

// project writes a routekit.json and the given route files into a temp dir
// and returns the config path.
func project(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "routekit.json")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte(`{"routes": {"dir": "routes", "matchers": "-"}, "output": {"manifest": "out/manifest.json"}}`), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "routes"), 0755))
	for _, f := range files {
		p := filepath.Join(dir, "routes", filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	cfgPath := project(t, "+page.templ", "blog/[slug]/+page.templ", "api/+server.go")

	out, err := run(t, "build", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 3 routes")

	data, err := os.ReadFile(filepath.Join(filepath.Dir(cfgPath), "out", "manifest.json"))
	require.NoError(t, err)

	var table router.RouteTable
	require.NoError(t, json.Unmarshal(data, &table))
	assert.Len(t, table.Routes, 3)
}

func TestBuildCommand_OutputFlag(t *testing.T) {
	cfgPath := project(t, "+page.templ")

	_, err := run(t, "build", "--config", cfgPath, "--output", "dist/routes.json")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(filepath.Dir(cfgPath), "dist", "routes.json"))
}

func TestBuildCommand_PublishNeedsBucket(t *testing.T) {
	cfgPath := project(t, "+page.templ")

	_, err := run(t, "build", "--config", cfgPath, "--publish")
	require.Error(t, err)
	assert.Equal(t, "E123", errors.Code(err))
}

func TestCheckCommand(t *testing.T) {
	cfgPath := project(t, "+page.templ", "about/+page.templ")

	out, err := run(t, "check", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 routes OK")
}

func TestCheckCommand_JSONError(t *testing.T) {
	cfgPath := project(t, "+page.templ", "+page.html")

	out, err := run(t, "check", "--config", cfgPath, "--json")
	require.Error(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "E212", payload["code"])
}

func TestRoutesCommand(t *testing.T) {
	cfgPath := project(t, "+layout.templ", "+page.templ", "blog/[slug]/+page.templ", "blog/new/+page.templ")

	out, err := run(t, "routes", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "/blog/[slug]")
	assert.Contains(t, out, "page")
	assert.Less(t, bytes.Index([]byte(out), []byte("/blog/new")), bytes.Index([]byte(out), []byte("/blog/[slug]")),
		"static route should be listed before the parameter route")
}

func TestMatchCommand(t *testing.T) {
	cfgPath := project(t, "+page.templ", "blog/[slug]/+page.templ")

	out, err := run(t, "match", "--config", cfgPath, "/blog/hello")
	require.NoError(t, err)
	assert.Contains(t, out, "/blog/[slug]")
	assert.Contains(t, out, `"hello"`)
}

func TestMatchCommand_NoMatch(t *testing.T) {
	cfgPath := project(t, "+page.templ")

	_, err := run(t, "match", "--config", cfgPath, "/missing/path")
	require.Error(t, err)
	assert.Equal(t, "E190", errors.Code(err))
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "check", "--config", filepath.Join(t.TempDir(), "routekit.json"))
	require.Error(t, err)
	assert.Equal(t, "E141", errors.Code(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	cfgPath := filepath.Join(dir, config.ConfigFileName)
	cfg, err := config.LoadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRoutesDir, cfg.Routes.Dir)
	assert.DirExists(t, cfg.RoutesPath())
	assert.DirExists(t, cfg.MatchersPath())

	_, err = run(t, "init", dir)
	require.Error(t, err)
	assert.Equal(t, "E140", errors.Code(err))
}

func TestInitCommand_ForceFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"dev": {"port": 4100}}`), 0644))

	out, err := run(t, "init", "--config", cfgPath, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated")

	var saved map[string]map[string]any
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, float64(4100), saved["dev"]["port"])
	assert.Equal(t, config.DefaultRoutesDir, saved["routes"]["dir"])
}

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "init", dir)
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, config.ConfigFileName)
	page := filepath.Join(dir, filepath.FromSlash(config.DefaultRoutesDir), "+page.templ")
	require.NoError(t, os.WriteFile(page, nil, 0644))

	out, err := run(t, "build", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 1 route")
}

func TestExplainCommand(t *testing.T) {
	out, err := run(t, "explain", "e218")
	require.NoError(t, err)
	assert.Contains(t, out, "E218")
	assert.Contains(t, out, "Conflicting routes")
	assert.Contains(t, out, "https://routekit.dev/docs/errors/E218")

	out, err = run(t, "explain")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "E120"), strings.Index(out, "E218"))
	assert.Contains(t, out, "E140")

	_, err = run(t, "explain", "E999")
	require.Error(t, err)
}
