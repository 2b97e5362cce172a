package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInheritance(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		route   string
		layouts []int
		errors  []int
	}{
		{
			name:    "skips levels without units",
			files:   []string{"+layout.templ", "a/b/+layout.templ", "a/b/+page.templ"},
			route:   "/a/b",
			layouts: []int{0, 2},
			errors:  []int{1},
		},
		{
			name:    "keeps interior gaps",
			files:   []string{"+layout.templ", "+error.templ", "a/+error.templ", "a/b/+layout.templ", "a/b/+page.templ"},
			route:   "/a/b",
			layouts: []int{0, NoNode, 3},
			errors:  []int{1, 2},
		},
		{
			name:    "page resets to root",
			files:   []string{"a/+layout.templ", "a/b/+layout.templ", "a/b/+page@.templ"},
			route:   "/a/b",
			layouts: []int{0},
			errors:  []int{1},
		},
		{
			name:    "page resets to named ancestor",
			files:   []string{"a/+layout.templ", "a/b/+layout.templ", "a/b/c/+page@a.templ"},
			route:   "/a/b/c",
			layouts: []int{0, 2},
			errors:  []int{1},
		},
		{
			name:    "layout resets to root",
			files:   []string{"a/+layout.templ", "a/b/+layout@.templ", "a/b/+page.templ"},
			route:   "/a/b",
			layouts: []int{0, 3},
			errors:  []int{1},
		},
		{
			name:    "reset to group",
			files:   []string{"(app)/+layout.templ", "(app)/dash/+layout.templ", "(app)/dash/settings/+page@(app).templ"},
			route:   "/(app)/dash/settings",
			layouts: []int{0, 2},
			errors:  []int{1},
		},
		{
			name:    "error-only level ends the override",
			files:   []string{"a/+error.templ", "a/+layout.templ", "a/b/+error.templ", "a/b/+page@b.templ"},
			route:   "/a/b",
			layouts: []int{0, 2},
			errors:  []int{1, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := compileRoutes(t, tt.files...)
			require.NoError(t, err)
			r := findRoute(t, table, tt.route)
			require.NotNil(t, r.Page)
			assert.Equal(t, tt.layouts, r.Page.Layouts, "layouts")
			assert.Equal(t, tt.errors, r.Page.Errors, "errors")
			assert.Equal(t, KindLeaf, table.Nodes[r.Page.Leaf].Kind)
		})
	}
}

func TestInheritanceUnresolved(t *testing.T) {
	tests := map[string][]string{
		"page":             {"a/+page@missing.templ"},
		"layout":           {"a/+layout@missing.templ", "a/+page.templ"},
		"descendant named": {"a/b/+layout.templ", "a/+page@b.templ"},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := compileRoutes(t, files...)
			rerr := requireKind(t, err, UnresolvedLayoutReference)
			assert.NotEmpty(t, rerr.Files)
			assert.Equal(t, "/a", rerr.RouteID)
		})
	}
}

func TestNodeIndexOrder(t *testing.T) {
	table, err := compileRoutes(t,
		"+page.templ",
		"a/+page.templ",
		"a/+layout.templ",
		"b/+error.templ",
		"b/+page.templ",
	)
	require.NoError(t, err)

	kinds := make([]UnitKind, len(table.Nodes))
	for i, n := range table.Nodes {
		kinds[i] = n.Kind
	}
	assert.Equal(t, []UnitKind{KindLayout, KindError, KindLayout, KindError, KindLeaf, KindLeaf, KindLeaf}, kinds)
	assert.Equal(t, "routes/+page.templ", table.Nodes[4].Component)
	assert.Equal(t, "routes/a/+page.templ", table.Nodes[5].Component)
	assert.Equal(t, "routes/b/+page.templ", table.Nodes[6].Component)

	b := findRoute(t, table, "/b")
	assert.Equal(t, []int{0}, b.Page.Layouts)
	assert.Equal(t, []int{1, 3}, b.Page.Errors)
}

func TestTrimTrailing(t *testing.T) {
	assert.Equal(t, []int{0, NoNode, 2}, trimTrailing([]int{0, NoNode, 2, NoNode, NoNode}))
	assert.Equal(t, []int{}, trimTrailing([]int{NoNode}))
	assert.Equal(t, []int{}, trimTrailing(nil))
}
