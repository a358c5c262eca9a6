package lifecycle

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zero-day-ai/failspec/spec"
)

// metrics holds the OpenTelemetry instruments for the engine. Nil metrics
// are a no-op, so the engine works without a meter configured.
type metrics struct {
	// transitionCounter increments for each committed transition.
	transitionCounter metric.Int64Counter

	// evidenceFailureCounter increments for each failed verification
	// attempt.
	evidenceFailureCounter metric.Int64Counter
}

// WithMeter enables transition and evidence-failure counters on the given
// meter.
func WithMeter(meter metric.Meter) Option {
	return func(e *Engine) {
		m, err := newMetrics(meter)
		if err != nil {
			e.logger.Warn("lifecycle metrics disabled", "error", err)
			return
		}
		e.metrics = m
	}
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	if meter == nil {
		return nil, nil
	}

	m := &metrics{}
	var err error

	m.transitionCounter, err = meter.Int64Counter(
		"failspec.transitions",
		metric.WithDescription("Number of committed lifecycle transitions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create transition counter: %w", err)
	}

	m.evidenceFailureCounter, err = meter.Int64Counter(
		"failspec.evidence_failures",
		metric.WithDescription("Number of verification attempts that failed evidence collection"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create evidence failure counter: %w", err)
	}

	return m, nil
}

func (m *metrics) recordTransition(ctx context.Context, entryID string, from, to spec.State) {
	if m == nil || m.transitionCounter == nil {
		return
	}
	m.transitionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entry.id", entryID),
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
}

func (m *metrics) recordEvidenceFailure(ctx context.Context, entryID, method string) {
	if m == nil || m.evidenceFailureCounter == nil {
		return
	}
	m.evidenceFailureCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entry.id", entryID),
		attribute.String("method", method),
	))
}
