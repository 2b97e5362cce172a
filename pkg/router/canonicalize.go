package router

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Path decoding errors.
var (
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrNullByteInPath       = errors.New("path contains null byte")
)

// reservedEscapes are characters whose escapes survive DecodePath, so an
// encoded slash never splits a segment.
const reservedEscapes = ";/?:@&=+$,#%"

// DecodePath decodes the percent escapes of a request path before it is
// matched. Escapes of reserved characters are kept as they are and a query
// string is dropped. Invalid escapes, an encoded NUL or bytes that do not
// form UTF-8 are rejected.
func DecodePath(p string) (string, error) {
	p, _, _ = strings.Cut(p, "?")
	if !strings.Contains(p, "%") {
		return p, nil
	}
	return unescape(p, true)
}

// DecodeParam fully decodes a captured parameter value.
func DecodeParam(v string) (string, error) {
	if !strings.Contains(v, "%") {
		return v, nil
	}
	return unescape(v, false)
}

func unescape(s string, keepReserved bool) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) || !isHexDigit(s[i+1]) || !isHexDigit(s[i+2]) {
			return "", ErrInvalidPercentEscape
		}
		c := unhex(s[i+1])<<4 | unhex(s[i+2])
		switch {
		case c == 0:
			return "", ErrNullByteInPath
		case keepReserved && strings.IndexByte(reservedEscapes, c) >= 0:
			b.WriteString(s[i : i+3])
		default:
			b.WriteByte(c)
		}
		i += 2
	}
	out := b.String()
	if !utf8.ValidString(out) {
		return "", ErrInvalidPercentEscape
	}
	return out, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
