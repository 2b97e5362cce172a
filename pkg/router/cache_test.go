package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentCache(t *testing.T) {
	c := newSegmentCache(8)
	require.NotNil(t, c)

	parts, err := c.parse("[slug]")
	require.NoError(t, err)
	parts[0].Name = "mutated"

	parts, err = c.parse("[slug]")
	require.NoError(t, err)
	assert.Equal(t, []Part{{Name: "slug"}}, parts)
	assert.Equal(t, 1, c.len())
}

func TestSegmentCacheErrorsAreCopied(t *testing.T) {
	c := newSegmentCache(8)

	_, err := c.parse("[a][b]")
	rerr := requireKind(t, err, UnseparatedParams)
	rerr.withFiles("routes/one")

	_, err = c.parse("[a][b]")
	rerr = requireKind(t, err, UnseparatedParams)
	assert.Empty(t, rerr.Files)
}

func TestSegmentCacheDisabled(t *testing.T) {
	var c *segmentCache
	assert.Nil(t, newSegmentCache(-1))

	parts, err := c.parse("about")
	require.NoError(t, err)
	assert.Equal(t, []Part{{Literal: "about"}}, parts)
	assert.Equal(t, 0, c.len())
}
