package router

import (
	"maps"
	"slices"
	"strings"
)

// =============================================================================
// Route Validation
// =============================================================================

// Validator checks a scanned tree for problems that need the whole tree:
// references to unknown matchers and routes that can match the same path.
type Validator struct {
	tree     *Tree
	matchers Matchers
}

// NewValidator creates a validator for tree. matchers may be nil.
func NewValidator(tree *Tree, matchers Matchers) *Validator {
	return &Validator{tree: tree, matchers: matchers}
}

// Validate returns the first problem found, or nil.
func (v *Validator) Validate() error {
	if err := v.validateMatchers(); err != nil {
		return err
	}
	return v.validateConflicts()
}

func (v *Validator) validateMatchers() error {
	names := slices.Sorted(maps.Keys(v.matchers))
	for i := range v.tree.Nodes {
		n := &v.tree.Nodes[i]
		for _, p := range n.Segment.Parts {
			if p.Matcher == "" {
				continue
			}
			if _, ok := v.matchers[p.Matcher]; ok {
				continue
			}
			e := newError(UnknownMatcher, "route %s references missing matcher %q", n.ID, p.Matcher).
				withFiles(n.Dir).
				withRoute(n.ID)
			if s := closestMatch(p.Matcher, names); s != "" {
				e.withSuggestion(s)
			}
			return e
		}
	}
	return nil
}

// validateConflicts claims every path shape of every route. The claims map
// lives for one call only.
func (v *Validator) validateConflicts() error {
	claimed := make(map[string]string)
	for i := range v.tree.Nodes {
		n := &v.tree.Nodes[i]
		if !n.IsRoute() {
			continue
		}
		for _, key := range ConflictKeys(v.tree.Segments(i)) {
			if other, ok := claimed[key]; ok && other != n.ID {
				return &Error{
					Kind:         ConflictingRoutes,
					Message:      `The "` + other + `" and "` + n.ID + `" routes conflict with each other`,
					Files:        []string{v.dirOf(other), n.Dir},
					RouteID:      other,
					OtherRouteID: n.ID,
					Details:      "both match /" + key,
				}
			}
			claimed[key] = n.ID
		}
	}
	return nil
}

func (v *Validator) dirOf(id string) string {
	for i := range v.tree.Nodes {
		if v.tree.Nodes[i].ID == id {
			return v.tree.Nodes[i].Dir
		}
	}
	return ""
}

// ConflictKeys returns every path shape a route can match. Groups are
// dropped, escaped characters are decoded, and parameters become
// placeholders:
//
//	[x]        <*>
//	[x=m]      <=m>
//	[...x]     <...>
//	[...x=m]   <...=m>
//
// Each optional parameter yields two shapes, one without it and one with a
// required placeholder in its place. A segment left empty disappears.
func ConflictKeys(segs []Segment) []string {
	perms := [][]string{nil}
	for _, s := range urlSegments(segs) {
		variants := segmentVariants(s.Parts)
		next := make([][]string, 0, len(perms)*len(variants))
		for _, p := range perms {
			for _, v := range variants {
				q := slices.Clip(p)
				if v != "" {
					q = append(q, v)
				}
				next = append(next, q)
			}
		}
		perms = next
	}

	keys := make([]string, 0, len(perms))
	seen := make(map[string]bool, len(perms))
	for _, p := range perms {
		key := strings.Join(p, "/")
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

func segmentVariants(parts []Part) []string {
	out := []string{""}
	for _, p := range parts {
		var choices []string
		switch {
		case !p.IsParam():
			choices = []string{escapeKeyLiteral(p.Literal)}
		case p.Rest:
			choices = []string{"<..." + matcherSuffix(p.Matcher) + ">"}
		case p.Optional:
			choices = []string{"", "<" + placeholder(p.Matcher) + ">"}
		default:
			choices = []string{"<" + placeholder(p.Matcher) + ">"}
		}

		next := make([]string, 0, len(out)*len(choices))
		for _, prefix := range out {
			for _, c := range choices {
				next = append(next, prefix+c)
			}
		}
		out = next
	}
	return slices.Compact(out)
}

func placeholder(matcher string) string {
	if matcher == "" {
		return "*"
	}
	return "=" + matcher
}

func matcherSuffix(matcher string) string {
	if matcher == "" {
		return ""
	}
	return "=" + matcher
}

var keyEscaper = strings.NewReplacer("%", "%25", "/", "%2f", "<", "%3c", ">", "%3e")

func escapeKeyLiteral(s string) string { return keyEscaper.Replace(s) }
