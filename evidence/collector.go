package evidence

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/failspec/spec"
)

// Result is the outcome of one collection attempt.
type Result struct {
	// Success reports whether the evidence substantiates the claim.
	Success bool `json:"success" yaml:"success"`

	// Method names the strategy that produced the result.
	Method string `json:"method" yaml:"method"`

	// Evidence is the captured proof, bounded by MaxEvidenceLength.
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// EvidenceFingerprint is the SHA-256 hash of the full captured output.
	EvidenceFingerprint string `json:"evidence_fingerprint,omitempty" yaml:"evidence_fingerprint,omitempty"`

	// Error explains a failed collection in actionable terms. Empty on
	// success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Strategy collects evidence for one family of evidence requirement types.
type Strategy interface {
	// Collect attempts to substantiate the entry's claimed fix inside the
	// workspace. Inability to produce evidence is a failed Result, not a
	// Go error; only a broken invocation (nil entry) warrants one.
	Collect(ctx context.Context, entry *spec.Entry, workspace string) Result

	// Name returns a unique identifier for this strategy, recorded as the
	// verification method.
	Name() string
}

// Collector dispatches collection to a strategy registry keyed by evidence
// requirement type.
type Collector struct {
	strategies map[spec.EvidenceType]Strategy
	fallback   Strategy
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer enables an OpenTelemetry span around each collection.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Collector) {
		c.tracer = tracer
	}
}

// WithTimeout bounds each executable evidence run. Defaults to the exec
// package default of 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Collector) {
		for _, s := range c.strategies {
			if es, ok := s.(*ExecStrategy); ok {
				es.Timeout = timeout
			}
		}
	}
}

// NewCollector builds a collector with the standard strategy registry:
// executable types run test artifacts, inspection types read guardrail
// locations, and manual types (plus anything unrecognized) always fail.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		strategies: make(map[spec.EvidenceType]Strategy),
		fallback:   &ManualStrategy{},
		logger:     slog.Default(),
	}

	execStrategy := &ExecStrategy{}
	inspectStrategy := &InspectStrategy{}
	manualStrategy := &ManualStrategy{}

	for _, et := range spec.AllEvidenceTypes() {
		switch {
		case et.IsExecutable():
			c.strategies[et] = execStrategy
		case et.IsInspection():
			c.strategies[et] = inspectStrategy
		default:
			c.strategies[et] = manualStrategy
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register installs a strategy for an evidence type, replacing the standard
// one. This is how callers plug in custom verification capabilities.
func (c *Collector) Register(et spec.EvidenceType, strategy Strategy) {
	c.strategies[et] = strategy
}

// Collect dispatches to the strategy for the entry's evidence requirement
// type. Unrecognized types fall back to the manual strategy, which fails:
// an unknown requirement must never pass silently.
func (c *Collector) Collect(ctx context.Context, entry *spec.Entry, workspace string) Result {
	if entry == nil {
		return Result{Method: "none", Error: "no entry provided"}
	}

	et := entry.EvidenceRequirement.Type
	strategy, ok := c.strategies[et]
	if !ok {
		strategy = c.fallback
	}

	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "evidence.collect",
			trace.WithAttributes(
				attribute.String("entry.id", entry.ID),
				attribute.String("evidence.type", string(et)),
				attribute.String("evidence.strategy", strategy.Name()),
			))
		defer span.End()

		result := strategy.Collect(ctx, entry, workspace)
		span.SetAttributes(attribute.Bool("evidence.success", result.Success))
		c.log(entry, result)
		return result
	}

	result := strategy.Collect(ctx, entry, workspace)
	c.log(entry, result)
	return result
}

func (c *Collector) log(entry *spec.Entry, result Result) {
	if result.Success {
		c.logger.Info("evidence collected",
			"entry_id", entry.ID,
			"method", result.Method,
			"fingerprint", result.EvidenceFingerprint)
		return
	}
	c.logger.Warn("evidence collection failed",
		"entry_id", entry.ID,
		"method", result.Method,
		"error", result.Error)
}
