package router

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed segments a Compiler remembers
// between compiles.
const DefaultCacheSize = 1024

type parsedSegment struct {
	parts []Part
	err   error
}

// segmentCache memoizes ParseSegment. Parsing is pure, so entries never go
// stale; a watch loop recompiling the same tree mostly hits.
type segmentCache struct {
	entries *lru.Cache[string, parsedSegment]
}

func newSegmentCache(size int) *segmentCache {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[string, parsedSegment](size)
	if err != nil {
		return nil
	}
	return &segmentCache{entries: c}
}

// parse returns a private copy of the parts so callers may not corrupt the
// cached slice. A nil cache parses directly.
func (c *segmentCache) parse(seg string) ([]Part, error) {
	if c == nil {
		return ParseSegment(seg)
	}
	if hit, ok := c.entries.Get(seg); ok {
		return slices.Clone(hit.parts), copyErr(hit.err)
	}
	parts, err := ParseSegment(seg)
	c.entries.Add(seg, parsedSegment{parts: parts, err: err})
	return slices.Clone(parts), copyErr(err)
}

func (c *segmentCache) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// copyErr returns a shallow copy of a compile error so the caller can attach
// file context without mutating the cached value.
func copyErr(err error) error {
	if e, ok := err.(*Error); ok {
		cp := *e
		cp.Files = slices.Clone(e.Files)
		return &cp
	}
	return err
}
