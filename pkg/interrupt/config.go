package interrupt

import (
	"slices"
	"strings"
)

// DefaultFillerWords is the built-in backchannel vocabulary. "uh-huh" is
// listed for readability, but the tokenizer splits it into "uh" and "huh".
// Both are also present as standalone entries, so the compound is
// recognised through its parts.
var DefaultFillerWords = []string{
	"yeah", "ok", "okay", "hmm", "right", "uh-huh", "huh", "uh",
}

// Matcher decides whether a token that failed exact vocabulary lookup should
// still count as a filler word. Used for fuzzy/phonetic matching of near-miss
// surface forms ("okey", "yeh"). Implementations must be safe for concurrent
// use.
type Matcher interface {
	// MatchesFiller reports whether token should be treated as a member of
	// vocabulary. vocabulary holds the normalized (lower-cased, trimmed)
	// filler words in sorted order.
	MatchesFiller(token string, vocabulary []string) bool
}

// Config holds the tunable behaviour of a [Classifier].
//
// The zero value is a disabled classifier with an empty vocabulary; use
// [DefaultConfig] for the standard setup.
type Config struct {
	// FillerWords is the backchannel vocabulary. Entries are lower-cased and
	// trimmed once when the config is applied; duplicates collapse. An empty
	// list means every non-empty utterance counts as semantic content.
	FillerWords []string

	// Enabled toggles the classifier. When false, every utterance is treated
	// as a real interruption (never ignored).
	Enabled bool

	// MaxIgnoredWords caps how long an all-filler utterance may be and still
	// be suppressed. When > 0, an utterance with more tokens than the cap is
	// treated as an interruption even if every token is filler. 0 disables
	// the cap.
	MaxIgnoredWords int

	// Verbose enables per-decision slog diagnostics. Never affects verdicts.
	Verbose bool

	// Matcher is an optional fuzzy filler matcher consulted for tokens that
	// fail exact vocabulary lookup. Nil means exact matching only.
	Matcher Matcher
}

// DefaultConfig returns an enabled Config with [DefaultFillerWords], no word
// cap, and exact matching.
func DefaultConfig() Config {
	return Config{
		FillerWords: DefaultFillerWords,
		Enabled:     true,
	}
}

// snapshot is the immutable, normalized form of a Config. Classification
// calls capture one snapshot pointer and use it for the whole call, so a
// concurrent config replacement can never produce a torn read.
type snapshot struct {
	set             map[string]struct{}
	words           []string // sorted, for Matcher and diagnostics
	enabled         bool
	maxIgnoredWords int
	verbose         bool
	matcher         Matcher
}

// newSnapshot normalizes cfg into an immutable snapshot.
func newSnapshot(cfg Config) *snapshot {
	s := &snapshot{
		set:             make(map[string]struct{}, len(cfg.FillerWords)),
		enabled:         cfg.Enabled,
		maxIgnoredWords: cfg.MaxIgnoredWords,
		verbose:         cfg.Verbose,
		matcher:         cfg.Matcher,
	}
	for _, w := range cfg.FillerWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := s.set[w]; ok {
			continue
		}
		s.set[w] = struct{}{}
		s.words = append(s.words, w)
	}
	slices.Sort(s.words)
	return s
}

// config reconstructs the Config this snapshot was built from. The returned
// FillerWords slice is a fresh copy of the normalized vocabulary.
func (s *snapshot) config() Config {
	return Config{
		FillerWords:     slices.Clone(s.words),
		Enabled:         s.enabled,
		MaxIgnoredWords: s.maxIgnoredWords,
		Verbose:         s.verbose,
		Matcher:         s.matcher,
	}
}

// isFiller reports whether token belongs to the vocabulary, consulting the
// fuzzy matcher when exact lookup fails.
func (s *snapshot) isFiller(token string) bool {
	if _, ok := s.set[token]; ok {
		return true
	}
	if s.matcher != nil {
		return s.matcher.MatchesFiller(token, s.words)
	}
	return false
}
