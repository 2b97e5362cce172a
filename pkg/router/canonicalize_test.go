package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "/blog/post", "/blog/post"},
		{"query dropped", "/blog?page=2", "/blog"},
		{"utf8", "/caf%C3%A9", "/café"},
		{"space", "/a%20b", "/a b"},
		{"lower hex", "/caf%c3%a9", "/café"},
		{"encoded slash kept", "/a%2Fb", "/a%2Fb"},
		{"encoded percent kept", "/100%25", "/100%25"},
		{"encoded question mark kept", "/what%3F", "/what%3F"},
		{"mixed", "/%E2%9C%93/x%2Fy", "/✓/x%2Fy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePathErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"truncated", "/a%2", ErrInvalidPercentEscape},
		{"trailing percent", "/a%", ErrInvalidPercentEscape},
		{"not hex", "/a%GG", ErrInvalidPercentEscape},
		{"nul", "/a%00b", ErrNullByteInPath},
		{"invalid utf8", "/a%FF", ErrInvalidPercentEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePath(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeParam(t *testing.T) {
	got, err := DecodeParam("a%2Fb%25")
	require.NoError(t, err)
	assert.Equal(t, "a/b%", got)

	got, err = DecodeParam("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = DecodeParam("%zz")
	assert.ErrorIs(t, err, ErrInvalidPercentEscape)
}

func TestMatchDecodesPath(t *testing.T) {
	table, err := compileRoutes(t,
		"caf[u+00e9]/+page.templ",
		"files/[name]/+page.templ",
		"raw/[...rest]/+page.templ",
	)
	require.NoError(t, err)

	res, ok := table.Match("/caf%C3%A9", nil)
	require.True(t, ok)
	assert.Equal(t, "/caf[u+00e9]", res.Route.ID)

	res, ok = table.Match("/files/hello%20world", nil)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"name": "hello world"}, res.Params)

	// An encoded slash stays inside the parameter.
	res, ok = table.Match("/files/a%2Fb", nil)
	require.True(t, ok)
	assert.Equal(t, "/files/[name]", res.Route.ID)
	assert.Equal(t, map[string]string{"name": "a/b"}, res.Params)

	res, ok = table.Match("/raw/x/y%3Fz", nil)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"rest": "x/y?z"}, res.Params)

	_, ok = table.Match("/files/%GG", nil)
	assert.False(t, ok)
}

func TestMatchEscapedLiterals(t *testing.T) {
	table, err := compileRoutes(t,
		"a[x+2f]b/+page.templ",
		"a/b/+page.templ",
		"[x+23]/+page.templ",
	)
	require.NoError(t, err)

	res, ok := table.Match("/a/b", nil)
	require.True(t, ok)
	assert.Equal(t, "/a/b", res.Route.ID)

	res, ok = table.Match("/a%2Fb", nil)
	require.True(t, ok)
	assert.Equal(t, "/a[x+2f]b", res.Route.ID)

	res, ok = table.Match("/%23", nil)
	require.True(t, ok)
	assert.Equal(t, "/[x+23]", res.Route.ID)

	// No two routes share a pattern.
	seen := map[string]string{}
	for _, r := range table.Routes {
		if other, dup := seen[r.Pattern.String()]; dup {
			t.Fatalf("%s and %s share pattern %s", other, r.ID, r.Pattern.String())
		}
		seen[r.Pattern.String()] = r.ID
	}
}
