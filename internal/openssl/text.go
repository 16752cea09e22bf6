package openssl

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// asciiString replaces every non-ASCII rune with '?'.
func asciiString(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= utf8.RuneSelf {
			sb.WriteByte('?')
			continue
		}
		sb.WriteByte(byte(r))
	}
	return sb.String()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
