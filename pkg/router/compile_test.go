package router

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var basicSite = []string{
	"+layout.templ",
	"+error.templ",
	"+page.templ",
	"about/+page.templ",
	"blog/+page.templ",
	"blog/[slug]/+page.templ",
	"blog/index.json/+server.go",
}

func TestCompileBasicSite(t *testing.T) {
	table, err := compileRoutes(t, basicSite...)
	require.NoError(t, err)

	assert.Equal(t, []string{"/about", "/blog/index.json", "/blog/[slug]", "/blog", "/"}, routeIDs(table))

	require.Len(t, table.Nodes, 6)
	assert.Equal(t, PageNode{Kind: KindLayout, Component: "routes/+layout.templ"}, table.Nodes[0])
	assert.Equal(t, PageNode{Kind: KindError, Component: "routes/+error.templ"}, table.Nodes[1])
	for _, n := range table.Nodes[2:] {
		assert.Equal(t, KindLeaf, n.Kind)
	}

	slug := findRoute(t, table, "/blog/[slug]")
	assert.Equal(t, `^/blog/([^/]+?)/?$`, slug.Pattern.String())
	assert.Equal(t, []Part{{Name: "slug"}}, slug.Params)
	require.NotNil(t, slug.Page)
	assert.Equal(t, []int{0}, slug.Page.Layouts)
	assert.Equal(t, []int{1}, slug.Page.Errors)
	assert.Equal(t, "routes/blog/[slug]/+page.templ", table.Nodes[slug.Page.Leaf].Component)

	m := slug.Pattern.Regexp().FindStringSubmatch("/blog/hello-world")
	require.NotNil(t, m)
	assert.Equal(t, "hello-world", m[1])
	assert.False(t, slug.Pattern.Regexp().MatchString("/blog/"))

	endpoint := findRoute(t, table, "/blog/index.json")
	assert.Nil(t, endpoint.Page)
	require.NotNil(t, endpoint.Endpoint)
	assert.Equal(t, "routes/blog/index.json/+server.go", endpoint.Endpoint.File)
	assert.Equal(t, `^/blog/index\.json/?$`, endpoint.Pattern.String())

	root := findRoute(t, table, "/")
	assert.Equal(t, `^/$`, root.Pattern.String())
	assert.Empty(t, root.Params)
}

func TestCompileRestRoute(t *testing.T) {
	table, err := compileRoutes(t, "[...rest]/+page.templ")
	require.NoError(t, err)
	require.Len(t, table.Routes, 1)

	r := table.Routes[0]
	assert.Equal(t, "/[...rest]", r.ID)
	assert.Equal(t, `^(?:/(.*))?/?$`, r.Pattern.String())
	assert.Equal(t, []Part{{Name: "rest", Rest: true}}, r.Params)

	re := r.Pattern.Regexp()
	m := re.FindStringSubmatch("")
	require.NotNil(t, m)
	assert.Equal(t, "", m[1])

	m = re.FindStringSubmatch("/docs/guide/intro")
	require.NotNil(t, m)
	assert.Equal(t, "docs/guide/intro", m[1])
}

func TestCompileDefaultRootUnits(t *testing.T) {
	table, err := compileRoutes(t, "+page.templ", "a/+layout.templ", "a/+error.templ", "a/+page.templ")
	require.NoError(t, err)

	assert.Equal(t, DefaultLayoutComponent, table.Nodes[0].Component)
	assert.Equal(t, KindLayout, table.Nodes[0].Kind)
	assert.Equal(t, DefaultErrorComponent, table.Nodes[1].Component)
	assert.Equal(t, KindError, table.Nodes[1].Kind)
	assert.Equal(t, "routes/a/+layout.templ", table.Nodes[2].Component)
	assert.Equal(t, "routes/a/+error.templ", table.Nodes[3].Component)
}

func TestCompileCustomDefaults(t *testing.T) {
	table, err := compileRoutesWith(t, Options{DefaultLayout: "lib/shell.templ", DefaultError: "lib/oops.templ"}, "+page.templ")
	require.NoError(t, err)
	assert.Equal(t, "lib/shell.templ", table.Nodes[0].Component)
	assert.Equal(t, "lib/oops.templ", table.Nodes[1].Component)
}

func TestCompileRootLayoutWithoutComponent(t *testing.T) {
	table, err := compileRoutes(t, "+layout.server.go", "+page.templ")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayoutComponent, table.Nodes[0].Component)
	assert.Equal(t, "routes/+layout.server.go", table.Nodes[0].Server)
}

func TestCompileDeterministic(t *testing.T) {
	files := append([]string{
		"(marketing)/pricing/+page.templ",
		"[[lang]]/contact/+page.templ",
		"docs/[...path]/+page.templ",
		"api/[id=int]/+server.go",
		"api/[slug]/+server.go",
	}, basicSite...)

	reversed := make([]string, len(files))
	for i, f := range files {
		reversed[len(files)-1-i] = f
	}

	opts := Options{MatchersDir: "params"}
	first, err := compileRoutesWith(t, opts, append(files, "../params/int.go")...)
	require.NoError(t, err)
	second, err := compileRoutesWith(t, opts, append(reversed, "../params/int.go")...)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCompileReusesCompiler(t *testing.T) {
	dir := writeFiles(t, "routes/+page.templ", "routes/blog/[slug]/+page.templ")
	c := NewCompiler(Options{FS: os.DirFS(dir), Logger: discardLogger})

	first, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.Positive(t, c.cache.len())

	second, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.True(t, Diff(first, second).Empty())
}

func TestCompileNoRoutes(t *testing.T) {
	_, err := compileRoutes(t, "+layout.templ", "blog/+layout.templ", "blog/utils.go")
	requireKind(t, err, NoRoutes)
}

func TestCompileReferencedMatchers(t *testing.T) {
	table, err := compileRoutesWith(t, Options{MatchersDir: "params"},
		"[id=int]/+page.templ",
		"../params/int.go",
		"../params/uuid.go",
	)
	require.NoError(t, err)
	assert.Equal(t, Matchers{"int": "params/int.go"}, table.Matchers)
	assert.Equal(t, []Part{{Name: "id", Matcher: "int"}}, table.Routes[0].Params)
}

func TestCompileDollarMatcher(t *testing.T) {
	table, err := compileRoutesWith(t, Options{MatchersDir: "params"},
		"[id=is_$]/+page.templ",
		"../params/is_$.go",
	)
	require.NoError(t, err)
	assert.Equal(t, Matchers{"is_$": "params/is_$.go"}, table.Matchers)
	assert.Equal(t, []Part{{Name: "id", Matcher: "is_$"}}, table.Routes[0].Params)
}

func TestCompileStrictEndpointSlash(t *testing.T) {
	files := []string{"api/items/+server.go", "items/+page.templ", "items/+server.go"}

	table, err := compileRoutesWith(t, Options{StrictEndpointSlash: true}, files...)
	require.NoError(t, err)
	assert.Equal(t, `^/api/items$`, findRoute(t, table, "/api/items").Pattern.String())
	// A route with a page follows the page policy.
	assert.Equal(t, `^/items/?$`, findRoute(t, table, "/items").Pattern.String())

	table, err = compileRoutes(t, files...)
	require.NoError(t, err)
	assert.Equal(t, `^/api/items/?$`, findRoute(t, table, "/api/items").Pattern.String())
}

func TestCompileErrorsAbort(t *testing.T) {
	tests := map[string]struct {
		files []string
		kind  ErrorKind
	}{
		"grammar":    {[]string{"[a][b]/+page.templ"}, UnseparatedParams},
		"reserved":   {[]string{"+pgae.templ"}, ReservedFile},
		"conflict":   {[]string{"foo/[bar]/+page.templ", "foo/[[baz]]/+page.templ"}, ConflictingRoutes},
		"matcher":    {[]string{"[id=int]/+page.templ"}, UnknownMatcher},
		"layout ref": {[]string{"a/+page@nope.templ"}, UnresolvedLayoutReference},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			table, err := compileRoutes(t, tt.files...)
			requireKind(t, err, tt.kind)
			assert.Nil(t, table)
		})
	}
}

func TestRouteTableJSON(t *testing.T) {
	table, err := compileRoutes(t, basicSite...)
	require.NoError(t, err)

	data, err := json.Marshal(table)
	require.NoError(t, err)

	var decoded RouteTable
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, Diff(table, &decoded).Empty())

	res, ok := decoded.Match("/blog/hello", nil)
	require.True(t, ok)
	assert.Equal(t, "/blog/[slug]", res.Route.ID)
}
