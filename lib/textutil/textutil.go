package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Fold lowercases text and collapses whitespace runs to single spaces,
// producing the case-folded form label matching runs against.
func Fold(text string) string {
	text = strings.ToLower(text)
	text = strings.Trim(text, " \n\t")
	return whitespaceRegex.ReplaceAllString(text, " ")
}

// ContainsAny reports whether the folded form of text contains any
// of the given (already folded) substrings.
func ContainsAny(text string, needles []string) bool {
	text = Fold(text)
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
