package router

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// CompilePattern builds the anchored pattern for a route and returns its
// parameters in capture order. Literal text is matched as DecodePath leaves
// it (see literalPattern), a required
// parameter captures one or more non-slash characters, and a segment that is
// a lone optional or rest parameter is wrapped in an optional group that
// also consumes its slash. With strictSlash the pattern rejects a trailing
// slash; otherwise one is allowed.
func CompilePattern(segs []Segment, strictSlash bool) (Pattern, []Part) {
	segs = urlSegments(segs)
	params := []Part{}
	if len(segs) == 0 {
		return Pattern{re: regexp.MustCompile(`^/$`)}, params
	}

	var sb strings.Builder
	sb.WriteString("^")
	for _, s := range segs {
		if s.standalone() {
			p := s.Parts[0]
			params = append(params, p)
			if p.Rest {
				sb.WriteString(`(?:/(.*))?`)
			} else {
				sb.WriteString(`(?:/([^/]+))?`)
			}
			continue
		}

		sb.WriteString("/")
		for _, p := range s.Parts {
			switch {
			case !p.IsParam():
				sb.WriteString(literalPattern(p.Literal))
			case p.Optional:
				params = append(params, p)
				sb.WriteString(`([^/]*)?`)
			default:
				params = append(params, p)
				sb.WriteString(`([^/]+?)`)
			}
		}
	}
	if strictSlash {
		sb.WriteString("$")
	} else {
		sb.WriteString("/?$")
	}
	return Pattern{re: regexp.MustCompile(sb.String())}, params
}

// literalPattern matches literal route text against a decoded request path.
// DecodePath keeps escapes of reserved characters, so "/", "?", "#" and "%"
// in a literal only match their escape, and the other reserved characters
// match either form. Escapes match in either hex case.
func literalPattern(lit string) string {
	var sb strings.Builder
	for _, r := range lit {
		if r >= utf8.RuneSelf || strings.IndexByte(reservedEscapes, byte(r)) < 0 {
			sb.WriteString(regexp.QuoteMeta(string(r)))
			continue
		}
		esc := escapePattern(byte(r))
		switch r {
		case '/', '?', '#', '%':
			sb.WriteString(esc)
		default:
			sb.WriteString(`(?:` + regexp.QuoteMeta(string(r)) + `|` + esc + `)`)
		}
	}
	return sb.String()
}

func escapePattern(c byte) string {
	const hex = "0123456789ABCDEF"
	digit := func(d byte) string {
		if d < 'A' {
			return string(d)
		}
		return "[" + string(d) + string(d+'a'-'A') + "]"
	}
	return "%" + digit(hex[c>>4]) + digit(hex[c&0xf])
}
