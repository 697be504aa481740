// Package gate wires the backchannel classifier into a host voice pipeline.
//
// The [Gate] sits between the STT final-transcript event and the downstream
// turn-taking controller: the host reports agent playback state via
// [Gate.SetSpeaking], offers every finalized utterance via [Gate.Offer], and
// forwards or drops the transcript according to the returned decision. The
// gate itself performs no I/O and holds no per-utterance state beyond an
// optional bounded diagnostic history.
package gate

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxgate/voxgate/internal/observe"
	"github.com/voxgate/voxgate/pkg/interrupt"
)

// Decision records the gate's verdict on one finalized transcript.
type Decision struct {
	// Transcript is the raw utterance text as offered.
	Transcript string

	// AgentSpeaking is the speaking state the decision was made under.
	AgentSpeaking bool

	// Ignore is true when the utterance was suppressed as a backchannel.
	Ignore bool

	// Reason is the classifier's diagnostic code.
	Reason interrupt.Reason

	// At records when the decision was made.
	At time.Time
}

// Gate applies the backchannel classifier to finalized transcripts on behalf
// of a voice pipeline. All methods are safe for concurrent use.
type Gate struct {
	classifier *interrupt.Classifier
	metrics    *observe.Metrics
	history    *History
	log        *slog.Logger

	speaking atomic.Bool
}

// Option configures a [Gate].
type Option func(*Gate)

// WithMetrics sets the metrics instance used to record decisions.
// Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(g *Gate) {
		if m != nil {
			g.metrics = m
		}
	}
}

// WithHistory attaches a decision history ring. Nil (the default) disables
// history collection.
func WithHistory(h *History) Option {
	return func(g *Gate) {
		g.history = h
	}
}

// WithGateLogger sets the logger for decision logging. Default: [slog.Default].
func WithGateLogger(log *slog.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates a Gate around classifier.
func New(classifier *interrupt.Classifier, opts ...Option) *Gate {
	g := &Gate{
		classifier: classifier,
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	if g.metrics == nil {
		g.metrics = observe.DefaultMetrics()
	}
	return g
}

// SetSpeaking updates the agent playback state. The host calls this from its
// TTS/audio events: true when agent audio starts being generated or played,
// false when playback finishes or is flushed.
func (g *Gate) SetSpeaking(on bool) {
	g.speaking.Store(on)
}

// Speaking returns the current agent playback state.
func (g *Gate) Speaking() bool {
	return g.speaking.Load()
}

// Classifier returns the underlying classifier, e.g. for vocabulary
// hot-swaps on config reload.
func (g *Gate) Classifier() *interrupt.Classifier {
	return g.classifier
}

// Offer classifies one finalized transcript under the current speaking state
// and returns the decision. The caller forwards the transcript downstream
// when Decision.Ignore is false and drops it otherwise.
func (g *Gate) Offer(ctx context.Context, transcript string) Decision {
	ctx, span := observe.StartSpan(ctx, "gate.Offer",
		trace.WithAttributes(attribute.Bool("agent_speaking", g.speaking.Load())),
	)
	defer span.End()

	start := time.Now()
	speaking := g.speaking.Load()
	cd := g.classifier.Decide(transcript, speaking)
	elapsed := time.Since(start)

	d := Decision{
		Transcript:    transcript,
		AgentSpeaking: speaking,
		Ignore:        cd.Ignore,
		Reason:        cd.Reason,
		At:            start,
	}

	span.SetAttributes(
		attribute.Bool("ignore", d.Ignore),
		attribute.String("reason", string(d.Reason)),
	)
	g.metrics.RecordDecision(ctx, d.Ignore, string(d.Reason), elapsed.Seconds())

	if g.history != nil {
		g.history.Add(d)
	}

	if d.Ignore {
		g.log.Info("gate: backchannel suppressed",
			"transcript", transcript,
			"reason", string(d.Reason),
		)
	} else {
		g.log.Debug("gate: transcript forwarded",
			"transcript", transcript,
			"agent_speaking", speaking,
			"reason", string(d.Reason),
		)
	}

	return d
}
