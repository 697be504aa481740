package interrupt

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and splits it into maximal runs of letters,
// digits, and underscores. Everything else (whitespace, punctuation, symbols)
// is a separator and is discarded.
//
// Hyphenated compounds therefore do NOT survive as single tokens:
// "uh-huh" yields ["uh", "huh"]. For a compound backchannel phrase to be
// recognised as filler, both of its parts must individually be in the
// vocabulary. This splitting behaviour is load-bearing for backward
// compatibility and is pinned by tests; do not change it.
//
// Empty, whitespace-only, or punctuation-only input yields a nil slice.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)

	var tokens []string
	start := -1
	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, lower[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, lower[start:])
	}
	return tokens
}

// isWordRune reports whether r is part of a word token. Matches the \w
// character class: Unicode letters, digits, and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
