package quiz

import (
	"strings"
	"unicode"
)

// Comparable cleans a free-typed answer so dictation comparison ignores
// whitespace, punctuation (both latin and CJK), and letter case. Both the
// expected text and the user's input go through the same cleaning before
// comparison, preventing mismatches on e.g. "你好。" vs "你好".
func Comparable(text string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// AnswersMatch reports whether a typed answer matches the expected text
// after normalization.
func AnswersMatch(user, expected string) bool {
	return Comparable(user) == Comparable(expected)
}
