// Package interrupt decides whether a finalized user utterance is a genuine
// interruption of the agent or a disposable backchannel acknowledgement.
//
// Short affirmations like "yeah" or "ok" carry two distinct social meanings:
// while the agent is speaking they are passive listener feedback that should
// not derail the agent, but when the agent is silent the same words are a
// real answer that must be processed. The [Classifier] encodes exactly this
// distinction:
//
//   - An utterance containing any word outside the filler vocabulary is
//     always an interruption, regardless of agent state ("yeah okay but
//     wait" interrupts because of "but" and "wait").
//   - An utterance made up entirely of filler words is suppressed while the
//     agent holds the floor, and treated as real input while it is silent.
//   - Empty or punctuation-only utterances never suppress anything.
//
// Classification is a pure, synchronous function of the transcript, the
// agent-speaking flag, and the configured vocabulary. The classifier keeps
// no per-utterance state and is safe for concurrent use; vocabulary
// replacement is an atomic snapshot swap, so in-flight calls observe either
// the fully-old or fully-new vocabulary, never a mixture.
package interrupt

import (
	"log/slog"
	"sync/atomic"
)

// Reason is the diagnostic code explaining a classification verdict.
type Reason string

const (
	// ReasonEmptyTranscript: the transcript tokenized to zero words.
	ReasonEmptyTranscript Reason = "empty_transcript"

	// ReasonSemanticContent: at least one word is outside the filler
	// vocabulary, so the utterance always interrupts.
	ReasonSemanticContent Reason = "contains_semantic_content"

	// ReasonBackchannelWhileSpeaking: every word is filler and the agent is
	// speaking: the utterance is suppressed.
	ReasonBackchannelWhileSpeaking Reason = "passive_acknowledgement_ignored_agent_speaking"

	// ReasonBackchannelWhileSilent: every word is filler but the agent is
	// silent: the same words are a genuine passive answer.
	ReasonBackchannelWhileSilent Reason = "passive_acknowledgement_agent_silent"

	// ReasonWordCapExceeded: every word is filler but the utterance is
	// longer than [Config.MaxIgnoredWords]. Only produced when the cap is
	// enabled (> 0).
	ReasonWordCapExceeded Reason = "filler_word_cap_exceeded"
)

// Decision is the full outcome of classifying one utterance.
type Decision struct {
	// Ignore is the verdict: true to suppress the utterance, false to treat
	// it as real input.
	Ignore bool

	// Reason explains the verdict.
	Reason Reason

	// Tokens is the tokenized transcript the decision was based on.
	Tokens []string
}

// Classifier applies the backchannel decision rule. Construct one per
// session with [New] and pass it explicitly to whatever component handles
// finalized transcripts. There is deliberately no package-level default
// instance.
//
// All methods are safe for concurrent use.
type Classifier struct {
	snap atomic.Pointer[snapshot]
	log  *slog.Logger
}

// Option configures a [Classifier].
type Option func(*Classifier)

// WithLogger sets the logger used for verbose diagnostics.
// Default: [slog.Default].
func WithLogger(log *slog.Logger) Option {
	return func(c *Classifier) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Classifier for cfg. The filler vocabulary is normalized
// (lower-cased, trimmed, deduplicated) once here.
func New(cfg Config, opts ...Option) *Classifier {
	c := &Classifier{log: slog.Default()}
	c.snap.Store(newSnapshot(cfg))
	for _, o := range opts {
		o(c)
	}
	return c
}

// ShouldIgnore reports whether transcript should be suppressed as a
// backchannel acknowledgement. agentSpeaking is true while agent audio is
// being generated or played.
//
// Every input maps to a definite verdict; malformed input never panics.
func (c *Classifier) ShouldIgnore(transcript string, agentSpeaking bool) bool {
	return c.Decide(transcript, agentSpeaking).Ignore
}

// ShouldIgnoreState is [Classifier.ShouldIgnore] with an additional
// free-form agent state label ("speaking", "thinking", …) that is included
// in verbose diagnostics only. The label never affects the verdict.
func (c *Classifier) ShouldIgnoreState(transcript string, agentSpeaking bool, agentState string) bool {
	snap := c.snap.Load()
	d := decide(snap, transcript, agentSpeaking)
	c.logDecision(snap, d, transcript, agentSpeaking, agentState)
	return d.Ignore
}

// Reason returns the diagnostic code for the verdict on (transcript,
// agentSpeaking). It mirrors the exact evaluation order of
// [Classifier.ShouldIgnore] and never disagrees with it.
func (c *Classifier) Reason(transcript string, agentSpeaking bool) Reason {
	return c.Decide(transcript, agentSpeaking).Reason
}

// Decide classifies transcript and returns the verdict, its reason, and the
// tokens it was based on in a single evaluation.
func (c *Classifier) Decide(transcript string, agentSpeaking bool) Decision {
	snap := c.snap.Load()
	d := decide(snap, transcript, agentSpeaking)
	c.logDecision(snap, d, transcript, agentSpeaking, "")
	return d
}

// ReplaceFillerWords atomically swaps the filler vocabulary. The new list is
// normalized before the swap; all other config fields are retained.
// Subsequent calls observe the new vocabulary exclusively.
func (c *Classifier) ReplaceFillerWords(words []string) {
	cfg := c.snap.Load().config()
	cfg.FillerWords = words
	c.snap.Store(newSnapshot(cfg))
}

// SetConfig atomically replaces the whole configuration.
func (c *Classifier) SetConfig(cfg Config) {
	c.snap.Store(newSnapshot(cfg))
}

// Config returns a copy of the current configuration with the vocabulary in
// normalized, sorted form.
func (c *Classifier) Config() Config {
	return c.snap.Load().config()
}

// Vocabulary returns the normalized filler vocabulary in sorted order.
func (c *Classifier) Vocabulary() []string {
	return c.snap.Load().config().FillerWords
}

// decide is the decision rule proper. It operates on one immutable snapshot
// so concurrent vocabulary swaps cannot affect an in-flight call.
func decide(snap *snapshot, transcript string, agentSpeaking bool) Decision {
	tokens := Tokenize(transcript)

	if !snap.enabled || transcript == "" {
		d := Decision{Ignore: false, Tokens: tokens}
		d.Reason = reasonFor(snap, tokens, agentSpeaking)
		return d
	}

	if len(tokens) == 0 {
		return Decision{Ignore: false, Reason: ReasonEmptyTranscript, Tokens: tokens}
	}

	for _, tok := range tokens {
		if !snap.isFiller(tok) {
			// A single word outside the vocabulary always wins, no matter
			// how many filler words surround it or whether the agent is
			// speaking.
			return Decision{Ignore: false, Reason: ReasonSemanticContent, Tokens: tokens}
		}
	}

	if snap.maxIgnoredWords > 0 && len(tokens) > snap.maxIgnoredWords {
		return Decision{Ignore: false, Reason: ReasonWordCapExceeded, Tokens: tokens}
	}

	if agentSpeaking {
		return Decision{Ignore: true, Reason: ReasonBackchannelWhileSpeaking, Tokens: tokens}
	}
	return Decision{Ignore: false, Reason: ReasonBackchannelWhileSilent, Tokens: tokens}
}

// reasonFor computes the diagnostic code on the disabled/empty path, where
// the verdict is already "respond". It reports what the rule would have said
// about the words themselves, matching the reporting behaviour of the
// original handler.
func reasonFor(snap *snapshot, tokens []string, agentSpeaking bool) Reason {
	if len(tokens) == 0 {
		return ReasonEmptyTranscript
	}
	for _, tok := range tokens {
		if !snap.isFiller(tok) {
			return ReasonSemanticContent
		}
	}
	if snap.maxIgnoredWords > 0 && len(tokens) > snap.maxIgnoredWords {
		return ReasonWordCapExceeded
	}
	if agentSpeaking {
		return ReasonBackchannelWhileSpeaking
	}
	return ReasonBackchannelWhileSilent
}

// logDecision emits verbose diagnostics when enabled.
func (c *Classifier) logDecision(snap *snapshot, d Decision, transcript string, agentSpeaking bool, agentState string) {
	if !snap.verbose {
		return
	}
	attrs := []any{
		"transcript", transcript,
		"agent_speaking", agentSpeaking,
		"tokens", d.Tokens,
		"ignore", d.Ignore,
		"reason", string(d.Reason),
	}
	if agentState != "" {
		attrs = append(attrs, "agent_state", agentState)
	}
	c.log.Debug("interrupt: decision", attrs...)
}
