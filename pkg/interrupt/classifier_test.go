package interrupt_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/voxgate/voxgate/pkg/interrupt"
)

// specVocabulary is the vocabulary used throughout the scenario tests. Note
// that it contains the literal compound "uh-huh" but NOT its components "uh"
// and "huh" — see TestShouldIgnore_HyphenatedCompoundSplits for why that
// matters.
var specVocabulary = []string{"yeah", "ok", "okay", "hmm", "right", "uh-huh"}

func newSpecClassifier(t *testing.T) *interrupt.Classifier {
	t.Helper()
	return interrupt.New(interrupt.Config{
		FillerWords: specVocabulary,
		Enabled:     true,
	})
}

func TestShouldIgnore_BackchannelWhileSpeaking(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	if !c.ShouldIgnore("yeah okay", true) {
		t.Error(`ShouldIgnore("yeah okay", speaking=true) = false, want true`)
	}
	if got, want := c.Reason("yeah okay", true), interrupt.ReasonBackchannelWhileSpeaking; got != want {
		t.Errorf(`Reason("yeah okay", speaking=true) = %q, want %q`, got, want)
	}
}

func TestShouldIgnore_BackchannelWhileSilent(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	// The same words are a genuine passive answer when the agent was waiting.
	if c.ShouldIgnore("yeah", false) {
		t.Error(`ShouldIgnore("yeah", speaking=false) = true, want false`)
	}
	if got, want := c.Reason("yeah", false), interrupt.ReasonBackchannelWhileSilent; got != want {
		t.Errorf(`Reason("yeah", speaking=false) = %q, want %q`, got, want)
	}
}

func TestShouldIgnore_SemanticContentAlwaysInterrupts(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	for _, transcript := range []string{
		"no stop",
		"yeah okay but wait", // mixed: filler plus "but"/"wait"
		"wait",
		"yeah yeah yeah actually",
	} {
		for _, speaking := range []bool{true, false} {
			if c.ShouldIgnore(transcript, speaking) {
				t.Errorf("ShouldIgnore(%q, speaking=%v) = true, want false", transcript, speaking)
			}
			if got, want := c.Reason(transcript, speaking), interrupt.ReasonSemanticContent; got != want {
				t.Errorf("Reason(%q, speaking=%v) = %q, want %q", transcript, speaking, got, want)
			}
		}
	}
}

func TestShouldIgnore_EmptyAndPunctuationOnly(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	for _, transcript := range []string{"", "...", "?!", "   ", "—"} {
		for _, speaking := range []bool{true, false} {
			if c.ShouldIgnore(transcript, speaking) {
				t.Errorf("ShouldIgnore(%q, speaking=%v) = true, want false", transcript, speaking)
			}
			if got, want := c.Reason(transcript, speaking), interrupt.ReasonEmptyTranscript; got != want {
				t.Errorf("Reason(%q, speaking=%v) = %q, want %q", transcript, speaking, got, want)
			}
		}
	}
}

// The tokenizer splits "uh-huh" into "uh" and "huh". When the vocabulary
// contains only the literal compound, neither part matches and the utterance
// counts as semantic content. When both parts are separate vocabulary
// entries (as in the default vocabulary), the compound is recognised.
func TestShouldIgnore_HyphenatedCompoundSplits(t *testing.T) {
	t.Parallel()

	compoundOnly := newSpecClassifier(t)
	if compoundOnly.ShouldIgnore("uh-huh", true) {
		t.Error(`vocabulary with literal "uh-huh" only: ShouldIgnore("uh-huh", speaking=true) = true, want false`)
	}
	if got, want := compoundOnly.Reason("uh-huh", true), interrupt.ReasonSemanticContent; got != want {
		t.Errorf(`Reason("uh-huh", speaking=true) = %q, want %q`, got, want)
	}

	// DefaultFillerWords carries "uh" and "huh" as standalone entries.
	withParts := interrupt.New(interrupt.DefaultConfig())
	if !withParts.ShouldIgnore("uh-huh", true) {
		t.Error(`default vocabulary: ShouldIgnore("uh-huh", speaking=true) = false, want true`)
	}
}

func TestShouldIgnore_CaseInsensitive(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	for _, transcript := range []string{"yeah okay", "Yeah, OKAY!", "hmm right"} {
		upper := strings.ToUpper(transcript)
		for _, speaking := range []bool{true, false} {
			if got, want := c.ShouldIgnore(upper, speaking), c.ShouldIgnore(transcript, speaking); got != want {
				t.Errorf("ShouldIgnore(%q, %v) = %v, but ShouldIgnore(%q, %v) = %v",
					upper, speaking, got, transcript, speaking, want)
			}
		}
	}
}

func TestShouldIgnore_Disabled(t *testing.T) {
	t.Parallel()
	c := interrupt.New(interrupt.Config{
		FillerWords: specVocabulary,
		Enabled:     false,
	})

	// A disabled classifier never suppresses anything.
	if c.ShouldIgnore("yeah okay", true) {
		t.Error(`disabled: ShouldIgnore("yeah okay", speaking=true) = true, want false`)
	}
}

func TestShouldIgnore_EmptyVocabulary(t *testing.T) {
	t.Parallel()
	c := interrupt.New(interrupt.Config{Enabled: true})

	// With no filler words, any non-empty utterance has semantic content.
	if c.ShouldIgnore("yeah", true) {
		t.Error(`empty vocabulary: ShouldIgnore("yeah", speaking=true) = true, want false`)
	}
	if got, want := c.Reason("yeah", true), interrupt.ReasonSemanticContent; got != want {
		t.Errorf(`Reason("yeah", speaking=true) = %q, want %q`, got, want)
	}
}

func TestShouldIgnore_WordCap(t *testing.T) {
	t.Parallel()
	c := interrupt.New(interrupt.Config{
		FillerWords:     specVocabulary,
		Enabled:         true,
		MaxIgnoredWords: 2,
	})

	if !c.ShouldIgnore("yeah okay", true) {
		t.Error(`cap=2: ShouldIgnore("yeah okay", speaking=true) = false, want true`)
	}
	if c.ShouldIgnore("yeah okay right", true) {
		t.Error(`cap=2: ShouldIgnore("yeah okay right", speaking=true) = true, want false`)
	}
	if got, want := c.Reason("yeah okay right", true), interrupt.ReasonWordCapExceeded; got != want {
		t.Errorf(`Reason("yeah okay right", speaking=true) = %q, want %q`, got, want)
	}
}

func TestShouldIgnoreState_LabelDoesNotAffectVerdict(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	for _, transcript := range []string{"yeah okay", "no stop", ""} {
		for _, speaking := range []bool{true, false} {
			want := c.ShouldIgnore(transcript, speaking)
			for _, state := range []string{"", "speaking", "thinking", "listening"} {
				if got := c.ShouldIgnoreState(transcript, speaking, state); got != want {
					t.Errorf("ShouldIgnoreState(%q, %v, %q) = %v, want %v",
						transcript, speaking, state, got, want)
				}
			}
		}
	}
}

// Reason must mirror ShouldIgnore exactly: an ignore verdict pairs only with
// the speaking-backchannel reason, and a semantic-content reason pairs only
// with a respond verdict.
func TestReason_NeverDisagreesWithVerdict(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	transcripts := []string{
		"", "...", "yeah", "yeah okay", "YEAH OKAY", "no stop",
		"yeah okay but wait", "uh-huh", "hmm", "right right right",
		"what time is it", "ok... yeah!",
	}
	for _, transcript := range transcripts {
		for _, speaking := range []bool{true, false} {
			ignore := c.ShouldIgnore(transcript, speaking)
			reason := c.Reason(transcript, speaking)

			if ignore && reason != interrupt.ReasonBackchannelWhileSpeaking {
				t.Errorf("ShouldIgnore(%q, %v) = true but Reason = %q", transcript, speaking, reason)
			}
			if reason == interrupt.ReasonSemanticContent && ignore {
				t.Errorf("Reason(%q, %v) = %q but verdict is ignore", transcript, speaking, reason)
			}

			d := c.Decide(transcript, speaking)
			if d.Ignore != ignore || d.Reason != reason {
				t.Errorf("Decide(%q, %v) = {%v %q}, want {%v %q}",
					transcript, speaking, d.Ignore, d.Reason, ignore, reason)
			}
		}
	}
}

func TestReplaceFillerWords_SubsequentCallsUseNewSet(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	if !c.ShouldIgnore("yeah", true) {
		t.Fatal(`ShouldIgnore("yeah", speaking=true) = false before replacement, want true`)
	}

	c.ReplaceFillerWords([]string{"si", "claro", "vale"})

	if c.ShouldIgnore("yeah", true) {
		t.Error(`after replacement: ShouldIgnore("yeah", speaking=true) = true, want false`)
	}
	if !c.ShouldIgnore("si claro", true) {
		t.Error(`after replacement: ShouldIgnore("si claro", speaking=true) = false, want true`)
	}
}

func TestReplaceFillerWords_Normalization(t *testing.T) {
	t.Parallel()
	c := interrupt.New(interrupt.Config{Enabled: true})
	c.ReplaceFillerWords([]string{"  YEAH ", "Yeah", "ok", ""})

	got := c.Vocabulary()
	want := []string{"ok", "yeah"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Vocabulary() = %v, want %v", got, want)
	}

	if !c.ShouldIgnore("YEAH", true) {
		t.Error(`ShouldIgnore("YEAH", speaking=true) = false, want true`)
	}
}

// A concurrent vocabulary swap must never expose a mixture of old and new
// sets. "alpha beta" contains a non-filler word under {alpha} and under
// {beta}, so every call must return respond; only a torn union of the two
// sets could produce an ignore verdict.
func TestReplaceFillerWords_AtomicUnderConcurrency(t *testing.T) {
	t.Parallel()
	c := interrupt.New(interrupt.Config{
		FillerWords: []string{"alpha"},
		Enabled:     true,
	})

	const iterations = 2000
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if i%2 == 0 {
				c.ReplaceFillerWords([]string{"beta"})
			} else {
				c.ReplaceFillerWords([]string{"alpha"})
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if c.ShouldIgnore("alpha beta", true) {
					t.Error(`ShouldIgnore("alpha beta", speaking=true) = true: observed a torn vocabulary`)
					return
				}
			}
		}()
	}

	wg.Wait()
}

func TestDecide_ExposesTokens(t *testing.T) {
	t.Parallel()
	c := newSpecClassifier(t)

	d := c.Decide("Yeah, okay!", true)
	want := []string{"yeah", "okay"}
	if fmt.Sprint(d.Tokens) != fmt.Sprint(want) {
		t.Errorf("Decide tokens = %v, want %v", d.Tokens, want)
	}
}
