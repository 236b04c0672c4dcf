// Package observe provides application-wide observability primitives for
// ordervox: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
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

// meterName is the instrumentation scope name used for all ordervox metrics.
const meterName = "github.com/ordervox/ordervox"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// ParseDuration tracks transcript parsing latency.
	ParseDuration metric.Float64Histogram

	// TurnDuration tracks end-to-end handling of one transcript turn,
	// from receipt to reply.
	TurnDuration metric.Float64Histogram

	// --- Counters ---

	// Transcripts counts processed transcripts. Use with attributes:
	//   attribute.String("language", ...), attribute.String("intent", ...)
	Transcripts metric.Int64Counter

	// MatchOutcomes counts product match results. Use with attribute:
	//   attribute.String("outcome", "resolved"|"ambiguous"|"not_found")
	MatchOutcomes metric.Int64Counter

	// Clarifications counts clarification prompts opened. Use with attribute:
	//   attribute.String("kind", ...)
	Clarifications metric.Int64Counter

	// QtyClamps counts quantities clamped into the accepted range.
	QtyClamps metric.Int64Counter

	// UndoUnderflows counts undo requests against an empty history.
	UndoUnderflows metric.Int64Counter

	// Submissions counts confirmed orders. Use with attribute:
	//   attribute.String("payment", ...)
	Submissions metric.Int64Counter

	// --- Score histogram ---

	// MatchScore tracks the best fuzzy-match score per resolution attempt.
	MatchScore metric.Float64Histogram

	// --- Gauges ---

	// ActiveSessions tracks the number of live order sessions.
	ActiveSessions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// in-process parsing and dialog turns.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// scoreBuckets covers the [0,1] match-score range around the decision
// thresholds.
var scoreBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.45, 0.5, 0.6, 0.7, 0.8, 0.9, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ParseDuration, err = m.Float64Histogram("ordervox.parse.duration",
		metric.WithDescription("Latency of transcript parsing."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TurnDuration, err = m.Float64Histogram("ordervox.turn.duration",
		metric.WithDescription("End-to-end latency of one transcript turn."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.MatchScore, err = m.Float64Histogram("ordervox.match.score",
		metric.WithDescription("Best fuzzy-match score per product resolution."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Transcripts, err = m.Int64Counter("ordervox.transcripts",
		metric.WithDescription("Total processed transcripts by language and intent."),
	); err != nil {
		return nil, err
	}
	if met.MatchOutcomes, err = m.Int64Counter("ordervox.match.outcomes",
		metric.WithDescription("Total product match results by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Clarifications, err = m.Int64Counter("ordervox.clarifications",
		metric.WithDescription("Total clarification prompts opened by kind."),
	); err != nil {
		return nil, err
	}
	if met.QtyClamps, err = m.Int64Counter("ordervox.qty.clamps",
		metric.WithDescription("Total quantities clamped into the accepted range."),
	); err != nil {
		return nil, err
	}
	if met.UndoUnderflows, err = m.Int64Counter("ordervox.undo.underflows",
		metric.WithDescription("Total undo requests against an empty history."),
	); err != nil {
		return nil, err
	}
	if met.Submissions, err = m.Int64Counter("ordervox.submissions",
		metric.WithDescription("Total confirmed orders by payment method."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("ordervox.active_sessions",
		metric.WithDescription("Number of live order sessions."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("ordervox.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
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

// RecordTranscript records a processed transcript with the standard
// attribute set.
func (m *Metrics) RecordTranscript(ctx context.Context, language, intent string) {
	m.Transcripts.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("language", language),
			attribute.String("intent", intent),
		),
	)
}

// RecordMatchOutcome records a product match result and, for attempted
// resolutions, the best score reached.
func (m *Metrics) RecordMatchOutcome(ctx context.Context, outcome string, score float64) {
	m.MatchOutcomes.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
	m.MatchScore.Record(ctx, score)
}

// RecordClarification records a clarification prompt being opened.
func (m *Metrics) RecordClarification(ctx context.Context, kind string) {
	m.Clarifications.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

// RecordSubmission records a confirmed order.
func (m *Metrics) RecordSubmission(ctx context.Context, payment string) {
	m.Submissions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("payment", payment)),
	)
}
