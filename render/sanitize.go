package render

import (
	"regexp"
	"strings"
)

var ansiEscapeRegex = regexp.MustCompile(`\x1b(\[[0-9;?]*[a-zA-Z]|\][^\x07]*\x07|[()][A-Z0-9])?`)

// Sanitize strips ANSI escape sequences and control characters from
// untrusted text before it reaches the terminal. Newlines and tabs are
// kept so literal whitespace survives.
func Sanitize(s string) string {
	s = ansiEscapeRegex.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
