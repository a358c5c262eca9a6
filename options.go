package failspec

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/failspec/discovery"
	"github.com/zero-day-ai/failspec/freeze"
	"github.com/zero-day-ai/failspec/priority"
)

// governorConfig holds the configuration assembled from GovernorOptions.
type governorConfig struct {
	logger          *slog.Logger
	clock           Clock
	workspace       string
	guardPolicy     freeze.Policy
	evidenceTimeout time.Duration
	ledgerStore     discovery.Store
	weights         *priority.Weights
	meter           metric.Meter
	tracer          trace.Tracer
}

// GovernorOption configures a Governor.
type GovernorOption func(*governorConfig)

// WithLogger sets the logger used by the governor and every component it
// wires. Defaults to a JSON handler on stdout at Info level.
func WithLogger(logger *slog.Logger) GovernorOption {
	return func(c *governorConfig) { c.logger = logger }
}

// WithClock sets the time source for every stamped timestamp. Defaults to
// the system clock.
func WithClock(clock Clock) GovernorOption {
	return func(c *governorConfig) { c.clock = clock }
}

// WithWorkspace sets the directory evidence collection runs in and the git
// checkout freeze fingerprints derive from. Defaults to the current
// directory.
func WithWorkspace(workspace string) GovernorOption {
	return func(c *governorConfig) { c.workspace = workspace }
}

// WithGuardPolicy sets what happens to structural writes after freeze:
// freeze.PolicyReject refuses them, freeze.PolicyRedirect records them in
// the discovery ledger. Defaults to reject.
func WithGuardPolicy(policy freeze.Policy) GovernorOption {
	return func(c *governorConfig) { c.guardPolicy = policy }
}

// WithEvidenceTimeout bounds each evidence collection run. Defaults to 30s.
func WithEvidenceTimeout(timeout time.Duration) GovernorOption {
	return func(c *governorConfig) { c.evidenceTimeout = timeout }
}

// WithLedgerStore sets the backing store for the discovery ledger: a file
// store, a Redis store, or anything else satisfying discovery.Store.
// Defaults to an in-memory store.
func WithLedgerStore(store discovery.Store) GovernorOption {
	return func(c *governorConfig) { c.ledgerStore = store }
}

// WithWeights overrides the priority weight tables.
func WithWeights(weights priority.Weights) GovernorOption {
	return func(c *governorConfig) { c.weights = &weights }
}

// WithMeter enables OpenTelemetry counters on lifecycle transitions and
// evidence failures.
func WithMeter(meter metric.Meter) GovernorOption {
	return func(c *governorConfig) { c.meter = meter }
}

// WithTracer enables an OpenTelemetry span per evidence collection.
func WithTracer(tracer trace.Tracer) GovernorOption {
	return func(c *governorConfig) { c.tracer = tracer }
}
