package router

import (
	"regexp"
	"strings"
)

// =============================================================================
// Segment Grammar
// =============================================================================
//
//	about          literal
//	[slug]         required parameter
//	[[lang]]       optional parameter
//	[...path]      rest parameter, must be the whole segment
//	[id=int]       parameter validated by the "int" matcher
//	[x+23]         escaped character ("#"), literal
//	(marketing)    group, contributes no URL segment

var paramNameRe = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// IsGroup reports whether seg is a "(name)" group segment.
func IsGroup(seg string) bool {
	return len(seg) > 2 && seg[0] == '(' && seg[len(seg)-1] == ')'
}

// ParseSegment splits one path segment into literal and parameter parts.
// Group segments have no parts but are still checked for '#'.
func ParseSegment(seg string) ([]Part, error) {
	if strings.Contains(seg, "#") {
		return nil, newError(ReservedCharacter, "%q contains a reserved character", seg).
			withDetails("'#' cannot be used in a route").
			withSuggestion(strings.ReplaceAll(seg, "#", "[x+23]"))
	}
	if IsGroup(seg) {
		return nil, nil
	}

	var parts []Part
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, Part{Literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(seg); {
		c := seg[i]
		switch {
		case c == ']':
			return nil, newError(UnbalancedBrackets, "unexpected ']' in %q", seg)

		case c != '[':
			lit.WriteByte(c)
			i++

		case isEscapeStart(seg, i):
			r, n, err := decodeEscapeAt(seg, i)
			if err != nil {
				return nil, err
			}
			lit.WriteRune(r)
			i += n

		default:
			open, close := "[", "]"
			optional := strings.HasPrefix(seg[i:], "[[")
			if optional {
				open, close = "[[", "]]"
			}
			start := i + len(open)
			end := strings.Index(seg[start:], close)
			if end < 0 {
				return nil, newError(UnbalancedBrackets, "unclosed %q in %q", open, seg)
			}
			content := seg[start : start+end]
			if strings.ContainsAny(content, "[]") {
				return nil, newError(UnbalancedBrackets, "nested brackets in %q", seg)
			}

			flush()
			if n := len(parts); n > 0 && parts[n-1].IsParam() {
				return nil, newError(UnseparatedParams, "parameters in %q must be separated by a static segment", seg).
					withDetails("%q is followed directly by another parameter", parts[n-1].Name)
			}

			p, err := parseParam(content, optional, seg)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
			i = start + end + len(close)
		}
	}
	flush()

	for _, p := range parts {
		if p.Rest && len(parts) > 1 {
			return nil, newError(InvalidRestPlacement, "rest parameter [...%s] must be the whole segment in %q", p.Name, seg)
		}
	}
	return parts, nil
}

func parseParam(content string, optional bool, seg string) (Part, error) {
	rest := strings.HasPrefix(content, "...")
	name := strings.TrimPrefix(content, "...")

	var matcher string
	if i := strings.IndexByte(name, '='); i >= 0 {
		name, matcher = name[:i], name[i+1:]
		if !paramNameRe.MatchString(matcher) {
			return Part{}, newError(InvalidParamName, "invalid matcher name %q in %q", matcher, seg)
		}
	}
	if !paramNameRe.MatchString(name) {
		return Part{}, newError(InvalidParamName, "invalid parameter name %q in %q", name, seg).
			withDetails("names may only contain letters, digits, '_' and '$'")
	}

	// [[...rest]] is a plain rest parameter: rest already matches nothing.
	return Part{Name: name, Matcher: matcher, Rest: rest, Optional: optional && !rest}, nil
}

// ParseRouteID parses a route id such as "/blog/[slug]" into segments.
// The root id "/" has no segments.
func ParseRouteID(id string) ([]Segment, error) {
	id = strings.Trim(id, "/")
	if id == "" {
		return nil, nil
	}
	raw := strings.Split(id, "/")
	segs := make([]Segment, 0, len(raw))
	for _, r := range raw {
		parts, err := ParseSegment(r)
		if err != nil {
			return nil, err
		}
		segs = append(segs, Segment{Raw: r, Parts: parts, Group: IsGroup(r)})
	}
	return segs, nil
}

// urlSegments drops group segments.
func urlSegments(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if !s.Group {
			out = append(out, s)
		}
	}
	return out
}
