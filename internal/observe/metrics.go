// Package observe provides observability primitives for voxgate:
// OpenTelemetry metrics with a Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all voxgate metrics.
const meterName = "github.com/voxgate/voxgate"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// Decisions counts classification verdicts. Use with attributes:
	//   attribute.String("verdict", "ignore"|"respond"), attribute.String("reason", ...)
	Decisions metric.Int64Counter

	// GateDuration tracks end-to-end gate latency per finalized transcript
	// (tokenize + classify + bookkeeping).
	GateDuration metric.Float64Histogram

	// VocabularySize records the current number of normalized filler words.
	VocabularySize metric.Int64Gauge

	// ConfigReloads counts configuration hot-reloads. Use with attribute:
	//   attribute.String("status", "applied"|"noop")
	ConfigReloads metric.Int64Counter
}

// gateLatencyBuckets defines histogram bucket boundaries (in seconds). The
// gate is a pure in-process computation, so the buckets sit well below the
// voice-pipeline latencies they protect.
var gateLatencyBuckets = []float64{
	0.000001, 0.0000025, 0.000005, 0.00001, 0.000025, 0.00005,
	0.0001, 0.00025, 0.0005, 0.001,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Decisions, err = m.Int64Counter("voxgate.decisions",
		metric.WithDescription("Total classification verdicts by verdict and reason."),
	); err != nil {
		return nil, err
	}
	if met.GateDuration, err = m.Float64Histogram("voxgate.gate.duration",
		metric.WithDescription("Latency of one gate decision."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(gateLatencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.VocabularySize, err = m.Int64Gauge("voxgate.vocabulary.size",
		metric.WithDescription("Number of normalized filler words in the active vocabulary."),
	); err != nil {
		return nil, err
	}
	if met.ConfigReloads, err = m.Int64Counter("voxgate.config.reloads",
		metric.WithDescription("Total configuration hot-reloads by status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordDecision records one classification verdict with the standard
// attribute set. ignored maps to verdict="ignore"/"respond"; seconds is the
// gate latency for the decision.
func (m *Metrics) RecordDecision(ctx context.Context, ignored bool, reason string, seconds float64) {
	verdict := "respond"
	if ignored {
		verdict = "ignore"
	}
	attrs := metric.WithAttributes(
		attribute.String("verdict", verdict),
		attribute.String("reason", reason),
	)
	m.Decisions.Add(ctx, 1, attrs)
	m.GateDuration.Record(ctx, seconds, attrs)
}

// RecordConfigReload records one configuration hot-reload.
func (m *Metrics) RecordConfigReload(ctx context.Context, status string) {
	m.ConfigReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
