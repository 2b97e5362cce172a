package router

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeEscapes replaces every "[x+HH]" and "[u+HHHH]" escape in s with the
// character it encodes. Hex digits must be lower case; "x+" takes exactly two
// digits and "u+" takes four to six. Other text is returned unchanged.
func DecodeEscapes(s string) (string, error) {
	if !strings.Contains(s, "[x+") && !strings.Contains(s, "[u+") {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		if isEscapeStart(s, i) {
			r, n, err := decodeEscapeAt(s, i)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			i += n
			continue
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String(), nil
}

func isEscapeStart(s string, i int) bool {
	return strings.HasPrefix(s[i:], "[x+") || strings.HasPrefix(s[i:], "[u+")
}

// decodeEscapeAt decodes the escape starting at s[i] and returns the rune
// and the number of bytes consumed.
func decodeEscapeAt(s string, i int) (rune, int, error) {
	end := strings.IndexByte(s[i:], ']')
	if end < 0 {
		return 0, 0, newError(UnbalancedBrackets, "unterminated escape sequence in %q", s)
	}
	seq := s[i : i+end+1]
	digits := seq[3 : len(seq)-1]

	minDigits, maxDigits := 2, 2
	if seq[1] == 'u' {
		minDigits, maxDigits = 4, 6
	}
	if len(digits) < minDigits || len(digits) > maxDigits || !isLowerHex(digits) {
		return 0, 0, newError(InvalidEscapeSequence, "invalid escape sequence %s in %q", seq, s).
			withDetails("use [x+HH] with 2 or [u+HHHH] with 4-6 lower-case hex digits")
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, 0, newError(InvalidEscapeSequence, "escape sequence %s in %q is not a valid character", seq, s)
	}
	return rune(v), len(seq), nil
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
