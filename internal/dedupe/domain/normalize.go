package domain

import (
	"strings"
	"unicode"
)

// NormalizeTitle reduces a display title to a canonical comparison key:
// lower-case, letters/digits/spaces only, single spaces, trimmed. Titles that
// normalize to the empty string are excluded from grouping.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
