package router

import (
	"sort"
	"strings"
)

// =============================================================================
// Specificity Ordering
// =============================================================================

// Ranks of the dynamic part at one position, most specific first. A
// position where one route has no part at all ranks between parameters
// that must consume input and parameters that may be empty, so an index
// route is tried before an optional or rest sibling but after a required
// one.
const (
	rankMatchedRequired = iota
	rankRequired
	rankMissing
	rankMatchedOptional
	rankOptional
	rankMatchedRest
	rankRest
)

// sortPart is a static chunk (rank < 0) or a dynamic part. Each sort
// segment alternates static and dynamic parts, starting and ending with a
// possibly empty static chunk.
type sortPart struct {
	static string
	rank   int
}

var missingSegment = []sortPart{{rank: -1}, {rank: rankMissing}, {rank: -1}}

// sortVariant is one shape a route can take once each interior optional is
// either absent or present. flexible is set when the shape can match paths
// with more or fewer segments, through a rest or a trailing optional.
type sortVariant struct {
	segs     [][]sortPart
	flexible bool
}

// SortBySpecificity orders routes most specific first, so the first route
// whose pattern matches a path is the one that should handle it.
//
// Routes are compared segment by segment, part by part:
//  1. Two static chunks compare longer first, then lexicographically.
//  2. Dynamic parts compare by rank: a part with a matcher beats one
//     without, required beats optional beats rest.
//  3. A route that ends earlier is treated as having a missing part there.
//
// Remaining ties put endpoint-only routes before page routes, then order by
// route id.
//
// A route with interior optionals can match paths of different lengths, so
// it is also compared in each of its absent and present shapes against the
// shapes of other routes that can match the same number of segments. Those
// comparisons reorder the table where the fully present shapes alone would
// put a less specific route first.
func SortBySpecificity(routes []CompiledRoute) {
	keys := make(map[string][]sortVariant, len(routes))
	expanded := false
	for _, r := range routes {
		v := sortVariants(r.ID)
		keys[r.ID] = v
		expanded = expanded || len(v) > 1
	}
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := &routes[i], &routes[j]
		va, vb := keys[a.ID], keys[b.ID]
		if c := compareSortSegments(va[len(va)-1].segs, vb[len(vb)-1].segs); c != 0 {
			return c < 0
		}
		if ae, be := a.Page == nil, b.Page == nil; ae != be {
			return ae
		}
		return a.ID < b.ID
	})
	if !expanded {
		return
	}

	n := len(routes)
	after := make([][]int, n)
	indeg := make([]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c, ok := compareOverlapping(keys[routes[i].ID], keys[routes[j].ID])
			switch {
			case !ok || c == 0:
			case c < 0:
				after[i] = append(after[i], j)
				indeg[j]++
			default:
				after[j] = append(after[j], i)
				indeg[i]++
			}
		}
	}

	// Take the earliest ready route each time. Contradicting constraints
	// fall back to the earliest remaining route.
	sorted := make([]CompiledRoute, 0, n)
	done := make([]bool, n)
	for len(sorted) < n {
		pick := -1
		for i := 0; i < n; i++ {
			if done[i] {
				continue
			}
			if pick < 0 {
				pick = i
			}
			if indeg[i] == 0 {
				pick = i
				break
			}
		}
		done[pick] = true
		sorted = append(sorted, routes[pick])
		for _, k := range after[pick] {
			indeg[k]--
		}
	}
	copy(routes, sorted)
}

// sortVariants splits a route id into sort segments, once per combination of
// absent and present interior optionals. Groups are dropped. Variants with
// an optional absent come first; the last variant has every part present.
func sortVariants(id string) []sortVariant {
	segs, err := ParseRouteID(id)
	if err != nil {
		return []sortVariant{{segs: [][]sortPart{{{static: id, rank: -1}}}}}
	}
	segs = urlSegments(segs)

	variants := []sortVariant{{}}
	for i, s := range segs {
		last := i == len(segs)-1
		present := sortSegment(s.Parts)
		for _, p := range s.Parts {
			if p.Rest || (last && p.Optional) {
				for k := range variants {
					variants[k].flexible = true
				}
			}
		}

		if last || !hasOptional(s.Parts) {
			for k := range variants {
				variants[k].segs = append(variants[k].segs, present)
			}
			continue
		}

		var required []Part
		for _, p := range s.Parts {
			if !p.Optional {
				required = append(required, p)
			}
		}
		next := make([]sortVariant, 0, 2*len(variants))
		for _, v := range variants {
			absent := v
			absent.segs = append([][]sortPart(nil), v.segs...)
			if len(required) > 0 {
				absent.segs = append(absent.segs, sortSegment(required))
			}
			next = append(next, absent)
		}
		for _, v := range variants {
			v.segs = append(append([][]sortPart(nil), v.segs...), present)
			next = append(next, v)
		}
		variants = next
	}
	return variants
}

// sortSegment turns the parts of one segment into alternating static and
// dynamic sort parts.
func sortSegment(parts []Part) []sortPart {
	out := []sortPart{{rank: -1}}
	for _, p := range parts {
		if !p.IsParam() {
			out[len(out)-1].static += p.Literal
			continue
		}
		out = append(out, sortPart{rank: partRank(p)}, sortPart{rank: -1})
	}
	return out
}

func hasOptional(parts []Part) bool {
	for _, p := range parts {
		if p.Optional {
			return true
		}
	}
	return false
}

// compareOverlapping compares two routes on the first pair of variants that
// can match paths with the same number of segments. ok is false when no
// pair can.
func compareOverlapping(a, b []sortVariant) (c int, ok bool) {
	for _, va := range a {
		for _, vb := range b {
			if len(va.segs) != len(vb.segs) && !va.flexible && !vb.flexible {
				continue
			}
			ok = true
			if c := compareSortSegments(va.segs, vb.segs); c != 0 {
				return c, true
			}
		}
	}
	return 0, ok
}

func partRank(p Part) int {
	matched := p.Matcher != ""
	switch {
	case p.Rest && matched:
		return rankMatchedRest
	case p.Rest:
		return rankRest
	case p.Optional && matched:
		return rankMatchedOptional
	case p.Optional:
		return rankOptional
	case matched:
		return rankMatchedRequired
	default:
		return rankRequired
	}
}

func compareSortSegments(a, b [][]sortPart) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		sa, sb := missingSegment, missingSegment
		if i < len(a) {
			sa = a[i]
		}
		if i < len(b) {
			sb = b[i]
		}
		if c := compareParts(sa, sb); c != 0 {
			return c
		}
	}
	return 0
}

func compareParts(a, b []sortPart) int {
	for j := 0; j < max(len(a), len(b)); j++ {
		if j%2 == 0 {
			// Both part lists have odd length, so a static position past
			// the end of one list is past the end of both.
			if j >= len(a) || j >= len(b) {
				continue
			}
			if c := compareStatic(a[j].static, b[j].static); c != 0 {
				return c
			}
			continue
		}

		ra, rb := rankMissing, rankMissing
		if j < len(a) {
			ra = a[j].rank
		}
		if j < len(b) {
			rb = b[j].rank
		}
		if ra != rb {
			return ra - rb
		}
	}
	return 0
}

func compareStatic(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) != len(b) {
		return len(b) - len(a)
	}
	return strings.Compare(a, b)
}
