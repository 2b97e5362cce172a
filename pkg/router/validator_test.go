package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictKeys(t *testing.T) {
	tests := map[string][]string{
		"/":                        {""},
		"/about":                   {"about"},
		"/blog/[slug]":             {"blog/<*>"},
		"/[id=int]":                {"<=int>"},
		"/docs/[...path]":          {"docs/<...>"},
		"/docs/[...path=file]":     {"docs/<...=file>"},
		"/(app)/dash":              {"dash"},
		"/[[lang]]/about":          {"about", "<*>/about"},
		"/[[lang=locale]]":         {"", "<=locale>"},
		"/[[a]]/[[b]]":             {"", "<*>", "<*>/<*>"},
		"/v[[n]]":                  {"v", "v<*>"},
		"/a[x+2f]b":                {"a%2fb"},
		"/[x+3c]x[x+3e]":           {"%3cx%3e"},
		"/100[x+25]":               {"100%25"},
		"/[[lang]]/(app)/[[page]]": {"", "<*>", "<*>/<*>"},
	}

	for id, want := range tests {
		t.Run(id, func(t *testing.T) {
			segs, err := ParseRouteID(id)
			require.NoError(t, err)
			assert.Equal(t, want, ConflictKeys(segs))
		})
	}
}

func TestValidatorConflicts(t *testing.T) {
	tests := map[string]struct {
		files []string
		ids   []string
	}{
		"required vs optional": {
			files: []string{"foo/[bar]/+page.templ", "foo/[[baz]]/+page.templ"},
			ids:   []string{"/foo/[bar]", "/foo/[[baz]]"},
		},
		"absent optional vs parent": {
			files: []string{"foo/+page.templ", "foo/[[baz]]/+page.templ"},
			ids:   []string{"/foo", "/foo/[[baz]]"},
		},
		"groups": {
			files: []string{"(a)/x/+page.templ", "(b)/x/+server.go"},
			ids:   []string{"/(a)/x", "/(b)/x"},
		},
		"renamed params": {
			files: []string{"[a]/+page.templ", "[b]/+page.templ"},
			ids:   []string{"/[a]", "/[b]"},
		},
		"escaped literal": {
			files: []string{"[x+61]bc/+page.templ", "abc/+page.templ"},
			ids:   []string{"/[x+61]bc", "/abc"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := compileRoutes(t, tt.files...)
			rerr := requireKind(t, err, ConflictingRoutes)
			assert.ElementsMatch(t, tt.ids, []string{rerr.RouteID, rerr.OtherRouteID})
			assert.Len(t, rerr.Files, 2)
			assert.Contains(t, rerr.Message, tt.ids[0])
			assert.Contains(t, rerr.Message, tt.ids[1])
		})
	}
}

func TestValidatorNoConflict(t *testing.T) {
	tests := map[string][]string{
		"matchers differ":        {"[id=int]/+page.templ", "[slug]/+page.templ", "../params/int.go"},
		"page and endpoint":      {"items/+page.templ", "items/+server.go"},
		"rest and index":         {"docs/+page.templ", "docs/[...path]/+page.templ"},
		"layouts are not routes": {"(a)/+layout.templ", "(b)/+layout.templ", "+page.templ"},
		"optional with suffix":   {"[[lang]]/about/+page.templ", "[slug]/+page.templ"},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := compileRoutesWith(t, Options{MatchersDir: "params"}, files...)
			require.NoError(t, err)
		})
	}
}

func TestValidatorUnknownMatcher(t *testing.T) {
	_, err := compileRoutesWith(t, Options{MatchersDir: "params"},
		"items/[id=integr]/+page.templ",
		"../params/integer.go",
		"../params/slug.go",
	)
	rerr := requireKind(t, err, UnknownMatcher)
	assert.Equal(t, "/items/[id=integr]", rerr.RouteID)
	assert.Equal(t, []string{"routes/items/[id=integr]"}, rerr.Files)
	assert.Equal(t, "integer", rerr.Suggestion)
}

func TestValidatorConflictMapIsPerCall(t *testing.T) {
	tree := &Tree{Nodes: []RouteNode{
		{ID: "/", Parent: -1},
		{ID: "/a", Parent: 0, Dir: "routes/a", Segment: Segment{Raw: "a", Parts: []Part{{Literal: "a"}}}, Leaf: &PageNode{Kind: KindLeaf}},
	}}

	v := NewValidator(tree, nil)
	require.NoError(t, v.Validate())
	require.NoError(t, v.Validate())
}
