package selector

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Escape escapes a string for use as an identifier within a selector,
// e.g. for constructing an id-selector from an arbitrary id value:
//
//	sel := "#" + selector.Escape(id)
//
// Escape follows the rules of CSSOM's CSS.escape(). It is not suited for
// escaping quoted strings.
func Escape(value string) string {
	runes := []rune(value)
	var b strings.Builder
	b.Grow(len(value))
	for i, r := range runes {
		switch {
		case r == 0:
			b.WriteRune(utf8.RuneError)
		case r <= 0x1f || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && '0' <= r && r <= '9':
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 1 && '0' <= r && r <= '9' && runes[0] == '-':
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && r == '-' && len(runes) == 1:
			b.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' || isAlnum(r):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

// unescape resolves CSS escapes: backslash followed by 1–6 hex digits and an
// optional whitespace character, or backslash followed by any character except
// a line break. NUL, surrogates and code points beyond the Unicode range are
// replaced by U+FFFD.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(s) && j < i+7 && isHex(s[j]) {
			j++
		}
		if j > i+1 {
			cp, _ := strconv.ParseUint(s[i+1:j], 16, 32)
			if j < len(s) && isSpace(s[j]) {
				j++
			}
			r := rune(cp)
			if cp == 0 || cp > unicode.MaxRune || (0xd800 <= cp && cp <= 0xdfff) {
				r = utf8.RuneError
			}
			b.WriteRune(r)
			i = j
			continue
		}
		if next := s[i+1]; next == '\r' || next == '\n' || next == '\f' {
			b.WriteByte(c)
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i+1:])
		b.WriteString(s[i+1 : i+1+size])
		i += 1 + size
	}
	return b.String()
}

// trim removes surrounding whitespace from a selector. Whitespace at the end
// is kept if it is escaped.
func trim(s string) string {
	s = strings.TrimLeft(s, whitespaceChars)
	t := strings.TrimRight(s, whitespaceChars)
	if len(t) < len(s) {
		bs := 0
		for k := len(t) - 1; k >= 0 && t[k] == '\\'; k-- {
			bs++
		}
		if bs%2 == 1 {
			t = s[:len(t)+1]
		}
	}
	return t
}

const whitespaceChars = " \t\r\n\f"
