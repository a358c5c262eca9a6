package failspec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/zero-day-ai/failspec/discovery"
	"github.com/zero-day-ai/failspec/evidence"
	"github.com/zero-day-ai/failspec/freeze"
	"github.com/zero-day-ai/failspec/lifecycle"
	"github.com/zero-day-ai/failspec/priority"
	"github.com/zero-day-ai/failspec/spec"
	"github.com/zero-day-ai/failspec/validate"
)

// Governor is the facade over the governance engine: one object wiring the
// validator, the lifecycle engine, the freeze manager with its document
// guard, the evidence collector, the priority calculator, and the discovery
// ledger around a single failure specification.
//
// The governor owns its document. Load or Init installs one, mutating
// operations work on it under a lock, and Save writes it back. Every write
// to an entry passes the document guard; lifecycle operations write only
// the status record, so they pass on a frozen document, while structural
// edits are rejected or redirected per the configured policy.
//
// Example:
//
//	gov, err := failspec.NewGovernor(
//	    failspec.WithWorkspace("."),
//	    failspec.WithLedgerStore(store),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gov.Close()
//
//	if err := gov.Load("failspec.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := gov.Verify(ctx, "F001", "alice@example.com", lifecycle.RoleVerifier, "", ""); err != nil {
//	    log.Fatal(err)
//	}
type Governor struct {
	mu   sync.Mutex
	path string
	doc  *spec.Document

	engine  *lifecycle.Engine
	manager *freeze.Manager
	guard   *freeze.Guard
	ledger  *discovery.Ledger
	weights priority.Weights
	logger  *slog.Logger
}

// NewGovernor creates a governor with every component wired from the given
// options.
func NewGovernor(opts ...GovernorOption) (*Governor, error) {
	cfg := &governorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if cfg.clock == nil {
		cfg.clock = SystemClock{}
	}
	if cfg.guardPolicy != "" && !cfg.guardPolicy.IsValid() {
		return nil, NewConfigurationError("NewGovernor",
			fmt.Errorf("%w: unknown guard policy %q", ErrInvalidConfig, cfg.guardPolicy))
	}
	if cfg.evidenceTimeout < 0 {
		return nil, NewConfigurationError("NewGovernor",
			fmt.Errorf("%w: evidence timeout must not be negative", ErrInvalidConfig))
	}

	collectorOpts := []evidence.Option{evidence.WithLogger(cfg.logger)}
	if cfg.evidenceTimeout > 0 {
		collectorOpts = append(collectorOpts, evidence.WithTimeout(cfg.evidenceTimeout))
	}
	if cfg.tracer != nil {
		collectorOpts = append(collectorOpts, evidence.WithTracer(cfg.tracer))
	}
	collector := evidence.NewCollector(collectorOpts...)

	engineOpts := []lifecycle.Option{
		lifecycle.WithClock(cfg.clock),
		lifecycle.WithCollector(collector),
		lifecycle.WithWorkspace(cfg.workspace),
		lifecycle.WithLogger(cfg.logger),
	}
	if cfg.meter != nil {
		engineOpts = append(engineOpts, lifecycle.WithMeter(cfg.meter))
	}

	ledger := discovery.NewLedger(cfg.ledgerStore,
		discovery.WithClock(cfg.clock),
		discovery.WithLogger(cfg.logger))

	guardOpts := []freeze.GuardOption{
		freeze.WithRecorder(ledger),
		freeze.WithGuardLogger(cfg.logger),
	}
	if cfg.guardPolicy != "" {
		guardOpts = append(guardOpts, freeze.WithPolicy(cfg.guardPolicy))
	}

	weights := priority.DefaultWeights()
	if cfg.weights != nil {
		weights = *cfg.weights
	}

	return &Governor{
		engine: lifecycle.NewEngine(engineOpts...),
		manager: freeze.NewManager(
			freeze.WithClock(cfg.clock),
			freeze.WithWorkspace(cfg.workspace),
			freeze.WithLogger(cfg.logger)),
		guard:   freeze.NewGuard(guardOpts...),
		ledger:  ledger,
		weights: weights,
		logger:  cfg.logger,
	}, nil
}

// Init installs a fresh document for the given feature.
func (g *Governor) Init(feature, createdBy string) error {
	if strings.TrimSpace(feature) == "" {
		return NewSchemaError("Governor.Init", fmt.Errorf("feature is required"))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc = spec.NewDocument(feature, createdBy)
	return nil
}

// Load reads the document at path and installs it. Save writes back to the
// same path.
func (g *Governor) Load(path string) error {
	doc, err := spec.Load(path)
	if err != nil {
		return NewSchemaError("Governor.Load", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc = doc
	g.path = path
	return nil
}

// Save writes the document back to the path it was loaded from.
func (g *Governor) Save() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.path == "" {
		return NewConfigurationError("Governor.Save",
			fmt.Errorf("%w: no document path; use SaveAs", ErrInvalidConfig))
	}
	return g.saveLocked(g.path)
}

// SaveAs writes the document to path and keeps it as the save target.
func (g *Governor) SaveAs(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.saveLocked(path); err != nil {
		return err
	}
	g.path = path
	return nil
}

func (g *Governor) saveLocked(path string) error {
	if g.doc == nil {
		return NewNotFoundError("Governor.Save", fmt.Errorf("no document loaded"))
	}
	if err := spec.Save(path, g.doc); err != nil {
		return NewInternalError("Governor.Save", err)
	}
	return nil
}

// Document returns a deep copy of the governed document.
func (g *Governor) Document() *spec.Document {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.doc == nil {
		return nil
	}
	return g.doc.Clone()
}

// Validate runs the schema validator over the governed document.
func (g *Governor) Validate() *validate.Report {
	g.mu.Lock()
	defer g.mu.Unlock()
	return validate.Document(g.doc)
}

// AddEntry appends a new entry to the document. Authoring entries is the
// adversary's operation; any other role is denied. An empty id gets the next
// F### in sequence. The entry must pass structural validation, and on a
// frozen document the write fails at the guard.
func (g *Governor) AddEntry(ctx context.Context, entry *spec.Entry, actor string, role lifecycle.Role) error {
	const op = "Governor.AddEntry"

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.doc == nil {
		return NewNotFoundError(op, fmt.Errorf("no document loaded"))
	}
	if err := g.requireRole(op, role, lifecycle.RoleAdversary); err != nil {
		return err
	}
	if entry == nil {
		return NewSchemaError(op, fmt.Errorf("entry is nil"))
	}

	candidate := entry.Clone()
	if candidate.ID == "" {
		candidate.ID = g.doc.NextEntryID()
	}
	if g.doc.FindEntry(candidate.ID) != nil {
		return NewSchemaError(op, fmt.Errorf("duplicate entry id %s", candidate.ID))
	}

	if report := validate.Entry(candidate); !report.Valid() {
		return NewSchemaError(op, fmt.Errorf("entry does not validate:\n%s", report))
	}
	if err := g.guard.Authorize(ctx, g.doc, candidate, actor); err != nil {
		return g.wrap(op, err)
	}

	g.doc.Failures = append(g.doc.Failures, candidate)
	return nil
}

// UpdateEntry replaces the same-id entry with the proposed one. Like
// AddEntry it is an adversary operation. The write passes the document
// guard, so on a frozen document only status-record changes go through.
func (g *Governor) UpdateEntry(ctx context.Context, proposed *spec.Entry, actor string, role lifecycle.Role) error {
	const op = "Governor.UpdateEntry"

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.doc == nil {
		return NewNotFoundError(op, fmt.Errorf("no document loaded"))
	}
	if err := g.requireRole(op, role, lifecycle.RoleAdversary); err != nil {
		return err
	}
	if proposed == nil {
		return NewSchemaError(op, fmt.Errorf("entry is nil"))
	}
	if g.doc.FindEntry(proposed.ID) == nil {
		return NewNotFoundError(op, fmt.Errorf("%s: %w", proposed.ID, ErrEntryNotFound))
	}

	if report := validate.Entry(proposed); !report.Valid() {
		return NewSchemaError(op, fmt.Errorf("entry does not validate:\n%s", report))
	}
	if err := g.guard.Authorize(ctx, g.doc, proposed, actor); err != nil {
		return g.wrap(op, err)
	}

	g.doc.ReplaceEntry(proposed.Clone())
	return nil
}

// Freeze makes the document immutable, recording the given provenance
// fingerprint (or deriving one from the workspace git HEAD when empty).
func (g *Governor) Freeze(ctx context.Context, fingerprint string) error {
	const op = "Governor.Freeze"

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.doc == nil {
		return NewNotFoundError(op, fmt.Errorf("no document loaded"))
	}
	return g.wrap(op, g.manager.Freeze(ctx, g.doc, fingerprint))
}

// Claim records a builder's fix for an entry: the guardrail design, its
// location, and who implemented it. An unaddressed entry is started first,
// so both hops land in the history.
func (g *Governor) Claim(id, actor string, role lifecycle.Role, guardrail spec.Guardrail) error {
	const op = "Governor.Claim"

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireValidLocked(op); err != nil {
		return err
	}

	if entry := g.doc.FindEntry(id); entry != nil {
		if state := entry.Status.State; state == "" || state == spec.StateUnaddressed {
			if err := g.engine.Start(g.doc, id, actor, role); err != nil {
				return g.wrap(op, err)
			}
		}
	}
	return g.wrap(op, g.engine.Claim(g.doc, id, actor, role, guardrail))
}

// Verify substantiates a claimed fix. With externalEvidence set it is
// recorded as supplied; otherwise the evidence collector runs the entry's
// evidence requirement.
func (g *Governor) Verify(ctx context.Context, id, actor string, role lifecycle.Role, externalEvidence, method string) error {
	const op = "Governor.Verify"

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireValidLocked(op); err != nil {
		return err
	}
	return g.wrap(op, g.engine.Verify(ctx, g.doc, id, actor, role, externalEvidence, method))
}

// Reject sends a claimed entry back to unaddressed with a reason.
func (g *Governor) Reject(id, actor string, role lifecycle.Role, reason string) error {
	const op = "Governor.Reject"

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireValidLocked(op); err != nil {
		return err
	}
	return g.wrap(op, g.engine.Reject(g.doc, id, actor, role, reason))
}

// AcceptRisk marks an entry accepted_risk on the authority of a human
// resolver.
func (g *Governor) AcceptRisk(id string, role lifecycle.Role, reason, acceptedBy, reviewBy string) error {
	const op = "Governor.AcceptRisk"

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireValidLocked(op); err != nil {
		return err
	}
	return g.wrap(op, g.engine.AcceptRisk(g.doc, id, role, reason, acceptedBy, reviewBy))
}

// Complete reports whether every critical entry is verified or accepted as
// risk.
func (g *Governor) Complete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lifecycle.Complete(g.doc)
}

// Discover records a post-freeze finding in the ledger.
func (g *Governor) Discover(ctx context.Context, description, discoveredBy string) (*spec.Discovery, error) {
	d, err := g.ledger.Discover(ctx, description, discoveredBy)
	if err != nil {
		return nil, NewSchemaError("Governor.Discover", err)
	}
	return d, nil
}

// SetDisposition records the human decision about a discovery.
func (g *Governor) SetDisposition(ctx context.Context, id string, disposition spec.Disposition) (*spec.Discovery, error) {
	d, err := g.ledger.SetDisposition(ctx, id, disposition)
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			return nil, NewNotFoundError("Governor.SetDisposition", err)
		}
		return nil, NewSchemaError("Governor.SetDisposition", err)
	}
	return d, nil
}

// Discoveries returns the ledger contents in id order.
func (g *Governor) Discoveries(ctx context.Context) ([]*spec.Discovery, error) {
	return g.ledger.List(ctx)
}

// Rank returns the entries in descending priority order.
func (g *Governor) Rank() []priority.Ranked {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.doc == nil {
		return nil
	}
	return g.weights.Rank(g.doc.Failures)
}

// Summary is a point-in-time status digest of a governed document.
type Summary struct {
	// Feature names the feature the document covers.
	Feature string

	// Frozen reports whether the document has frozen.
	Frozen bool

	// Fingerprint is the provenance token recorded at freeze time.
	Fingerprint string

	// Total is the number of entries.
	Total int

	// Counts tallies entries per lifecycle state.
	Counts map[spec.State]int

	// Complete reports whether every critical entry is verified or
	// accepted as risk.
	Complete bool

	// PendingDiscoveries counts ledger records awaiting a decision.
	PendingDiscoveries int
}

// String renders the summary as plain diagnostic text.
func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "feature: %s\n", s.Feature)
	fmt.Fprintf(&sb, "frozen: %t", s.Frozen)
	if s.Fingerprint != "" {
		fmt.Fprintf(&sb, " (%s)", s.Fingerprint)
	}
	fmt.Fprintf(&sb, "\nentries: %d\n", s.Total)

	states := make([]string, 0, len(s.Counts))
	for state := range s.Counts {
		states = append(states, string(state))
	}
	sort.Strings(states)
	for _, state := range states {
		fmt.Fprintf(&sb, "  %s: %d\n", state, s.Counts[spec.State(state)])
	}

	fmt.Fprintf(&sb, "complete: %t\n", s.Complete)
	fmt.Fprintf(&sb, "pending discoveries: %d", s.PendingDiscoveries)
	return sb.String()
}

// Report builds a status summary of the document and the ledger.
func (g *Governor) Report(ctx context.Context) (*Summary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.doc == nil {
		return nil, NewNotFoundError("Governor.Report", fmt.Errorf("no document loaded"))
	}

	pending, err := g.ledger.Pending(ctx)
	if err != nil {
		return nil, NewInternalError("Governor.Report", err)
	}

	return &Summary{
		Feature:            g.doc.Metadata.Feature,
		Frozen:             g.doc.IsFrozen(),
		Fingerprint:        g.doc.Metadata.FrozenFingerprint,
		Total:              len(g.doc.Failures),
		Counts:             g.doc.CountByState(),
		Complete:           lifecycle.Complete(g.doc),
		PendingDiscoveries: len(pending),
	}, nil
}

// Close releases the ledger store.
func (g *Governor) Close() error {
	return g.ledger.Close()
}

// requireRole checks the actor's role tag against the one the operation
// belongs to.
func (g *Governor) requireRole(op string, got, want lifecycle.Role) error {
	if got != want {
		return NewGuardError(op, fmt.Errorf("%w: requires the %s role, got %q",
			ErrRoleDenied, want, got))
	}
	return nil
}

// requireValidLocked gates lifecycle operations on a structurally valid
// document. Callers hold the lock.
func (g *Governor) requireValidLocked(op string) error {
	if g.doc == nil {
		return NewNotFoundError(op, fmt.Errorf("no document loaded"))
	}
	if report := validate.Document(g.doc); !report.Valid() {
		return NewSchemaError(op, fmt.Errorf("document does not validate:\n%s", report))
	}
	return nil
}

// wrap folds component errors into the root taxonomy, keeping the original
// error in the chain for errors.As.
func (g *Governor) wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		guard      *lifecycle.GuardViolation
		authority  *lifecycle.AuthorityViolation
		evFailure  *lifecycle.EvidenceFailure
		immutable  *freeze.ImmutabilityViolation
		prefailure *freeze.PreconditionError
	)
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return NewNotFoundError(op, fmt.Errorf("%w: %w", ErrEntryNotFound, err))
	case errors.Is(err, freeze.ErrAlreadyFrozen):
		return NewImmutabilityError(op, fmt.Errorf("%w: %w", ErrAlreadyFrozen, err))
	case errors.As(err, &authority):
		return NewAuthorityError(op, fmt.Errorf("%w: %w", ErrAutomatedIdentity, err))
	case errors.As(err, &guard):
		return NewGuardError(op, fmt.Errorf("%w: %w", ErrInvalidTransition, err))
	case errors.As(err, &evFailure):
		return NewEvidenceError(op, fmt.Errorf("%w: %w", ErrNoEvidence, err))
	case errors.As(err, &immutable):
		return NewImmutabilityError(op, fmt.Errorf("%w: %w", ErrDocumentFrozen, err))
	case errors.As(err, &prefailure):
		return NewSchemaError(op, err)
	default:
		return NewInternalError(op, err)
	}
}
