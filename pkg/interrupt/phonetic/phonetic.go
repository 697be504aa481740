// Package phonetic implements the [interrupt.Matcher] interface using Double
// Metaphone phonetic encoding combined with Jaro-Winkler string similarity.
//
// Speech-to-text output frequently renders backchannel words in near-miss
// surface forms: "okey" for "okay", "yeh" for "yeah", "mhm" for "hmm". With
// exact matching those tokens count as semantic content and interrupt the
// agent. This matcher lets such near-misses count as filler:
//
//  1. Phonetic candidate filtering: a vocabulary word whose Double Metaphone
//     code overlaps the token's codes becomes a candidate.
//  2. Jaro-Winkler ranking: a candidate is accepted when its similarity to
//     the token exceeds the phonetic threshold. When no phonetic candidate
//     exists, a secondary pass accepts pure Jaro-Winkler similarity above a
//     stricter fuzzy threshold.
//
// The matcher is deliberately opt-in: the default classifier configuration
// uses exact matching only, keeping the documented tokenizer/vocabulary
// semantics intact.
package phonetic

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.80
	defaultFuzzyThreshold    = 0.88
)

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score required for a
// phonetically-matched vocabulary word to be accepted. Default: 0.80.
func WithPhoneticThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.phoneticThreshold = threshold
	}
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required when no
// phonetic candidate is found and the matcher falls back to pure string
// similarity. Default: 0.88.
func WithFuzzyThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.fuzzyThreshold = threshold
	}
}

// Matcher is a fuzzy filler-word matcher. It implements [interrupt.Matcher].
// All methods are safe for concurrent use; the Matcher is read-only after
// construction.
type Matcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// New returns a new [Matcher] configured with the supplied options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// MatchesFiller reports whether token is phonetically close enough to any
// word in vocabulary to be treated as filler. token and vocabulary are
// expected in normalized (lower-cased, trimmed) form, as supplied by the
// classifier.
func (m *Matcher) MatchesFiller(token string, vocabulary []string) bool {
	token = strings.TrimSpace(token)
	if token == "" || len(vocabulary) == 0 {
		return false
	}

	tokenPrimary, tokenSecondary := matchr.DoubleMetaphone(token)

	for _, word := range vocabulary {
		if word == "" {
			continue
		}
		if word == token {
			return true
		}

		score := matchr.JaroWinkler(token, word, false)

		if codesOverlap(tokenPrimary, tokenSecondary, word) {
			if score >= m.phoneticThreshold {
				return true
			}
			continue
		}
		if score >= m.fuzzyThreshold {
			return true
		}
	}
	return false
}

// codesOverlap reports whether word shares a Double Metaphone code with the
// token codes. Empty codes (words too short or without consonants) never
// overlap.
func codesOverlap(tokenPrimary, tokenSecondary, word string) bool {
	wordPrimary, wordSecondary := matchr.DoubleMetaphone(word)
	for _, tc := range []string{tokenPrimary, tokenSecondary} {
		if tc == "" {
			continue
		}
		if tc == wordPrimary || (wordSecondary != "" && tc == wordSecondary) {
			return true
		}
	}
	return false
}
