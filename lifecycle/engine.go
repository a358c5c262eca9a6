package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zero-day-ai/failspec/evidence"
	"github.com/zero-day-ai/failspec/spec"
)

// ErrNotFound indicates the referenced entry does not exist in the document.
var ErrNotFound = errors.New("entry not found")

// Clock supplies the current time. Injected so tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Collector substantiates a claimed fix. Satisfied by *evidence.Collector.
type Collector interface {
	Collect(ctx context.Context, entry *spec.Entry, workspace string) evidence.Result
}

// Engine applies role-guarded lifecycle transitions to entries of a
// caller-owned document. The engine holds no document state of its own; it
// is safe to reuse one engine across documents as long as each document has
// a single writer.
type Engine struct {
	clock     Clock
	collector Collector
	workspace string
	logger    *slog.Logger
	metrics   *metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. Defaults to the system clock.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithCollector sets the evidence collector used by Verify when no external
// evidence is supplied.
func WithCollector(collector Collector) Option {
	return func(e *Engine) { e.collector = collector }
}

// WithWorkspace sets the workspace root handed to the evidence collector.
func WithWorkspace(workspace string) Option {
	return func(e *Engine) { e.workspace = workspace }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a lifecycle engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:  systemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start moves an unaddressed entry to in_progress. Builder role only.
func (e *Engine) Start(doc *spec.Document, id string, actor string, role Role) error {
	entry, err := e.lookup(doc, id)
	if err != nil {
		return err
	}

	from := currentState(entry)
	if role != RoleBuilder {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateInProgress, Role: role,
			Rule: "only a builder may start work on an entry"}
	}
	if from != spec.StateUnaddressed {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateInProgress, Role: role,
			Rule: "work can only start on an unaddressed entry"}
	}

	clone := entry.Clone()
	e.transition(clone, from, spec.StateInProgress, actor, role, "")
	doc.ReplaceEntry(clone)
	return nil
}

// Claim moves an in_progress entry to claimed. Builder role only; the
// guardrail must be fully populated. ImplementedAt is stamped by the engine.
func (e *Engine) Claim(doc *spec.Document, id string, actor string, role Role, guardrail spec.Guardrail) error {
	entry, err := e.lookup(doc, id)
	if err != nil {
		return err
	}

	from := currentState(entry)
	if role != RoleBuilder {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateClaimed, Role: role,
			Rule: "only a builder may claim a fix"}
	}
	if from != spec.StateInProgress {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateClaimed, Role: role,
			Rule: "only an in_progress entry can be claimed"}
	}
	if !guardrail.IsComplete() {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateClaimed, Role: role,
			Rule: "claiming requires guardrail design, location, and implemented_by"}
	}

	clone := entry.Clone()
	guardrail.ImplementedAt = e.clock.Now()
	clone.Status.Guardrail = &guardrail
	e.transition(clone, from, spec.StateClaimed, actor, role, "")
	doc.ReplaceEntry(clone)
	return nil
}

// Verify moves a claimed entry to verified. Verifier role only.
//
// When externalEvidence is non-empty it is accepted as the proof, with
// method recording how it was produced ("external" when empty). Otherwise
// the configured collector runs the entry's evidence requirement; a failed
// or absent collection returns an *EvidenceFailure and leaves the entry
// claimed for a later attempt.
func (e *Engine) Verify(ctx context.Context, doc *spec.Document, id string, actor string, role Role, externalEvidence, method string) error {
	entry, err := e.lookup(doc, id)
	if err != nil {
		return err
	}

	from := currentState(entry)
	if role != RoleVerifier {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateVerified, Role: role,
			Rule: "only a verifier may verify a claim"}
	}
	if from != spec.StateClaimed {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateVerified, Role: role,
			Rule: "only a claimed entry can be verified"}
	}

	verification := spec.Verification{
		VerifiedBy: actor,
		VerifiedAt: e.clock.Now(),
	}

	if strings.TrimSpace(externalEvidence) != "" {
		verification.Method = method
		if verification.Method == "" {
			verification.Method = "external"
		}
		verification.Evidence = evidence.Truncate(externalEvidence)
		verification.EvidenceFingerprint = evidence.Fingerprint([]byte(externalEvidence))
	} else {
		if e.collector == nil {
			return &EvidenceFailure{EntryID: id,
				Reason: "no evidence supplied and no collector configured"}
		}
		result := e.collector.Collect(ctx, entry, e.workspace)
		if !result.Success {
			e.metrics.recordEvidenceFailure(ctx, id, result.Method)
			return &EvidenceFailure{EntryID: id, Method: result.Method, Reason: result.Error}
		}
		if strings.TrimSpace(result.Evidence) == "" {
			// A collector must never report success without proof.
			return &EvidenceFailure{EntryID: id, Method: result.Method,
				Reason: "collector returned success with empty evidence"}
		}
		verification.Method = result.Method
		verification.Evidence = result.Evidence
		verification.EvidenceFingerprint = result.EvidenceFingerprint
	}

	clone := entry.Clone()
	clone.Status.Verification = &verification
	e.transition(clone, from, spec.StateVerified, actor, role, "")
	doc.ReplaceEntry(clone)
	return nil
}

// Reject sends a claimed entry back to unaddressed. Verifier role only; a
// non-empty reason is required. The rejection is recorded in the status and
// the history, and the guardrail is retained for audit.
func (e *Engine) Reject(doc *spec.Document, id string, actor string, role Role, reason string) error {
	entry, err := e.lookup(doc, id)
	if err != nil {
		return err
	}

	from := currentState(entry)
	if role != RoleVerifier {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateUnaddressed, Role: role,
			Rule: "only a verifier may reject a claim"}
	}
	if from != spec.StateClaimed {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateUnaddressed, Role: role,
			Rule: "only a claimed entry can be rejected"}
	}
	if strings.TrimSpace(reason) == "" {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateUnaddressed, Role: role,
			Rule: "rejection requires a non-empty reason"}
	}

	clone := entry.Clone()
	clone.Status.Rejection = &spec.Rejection{
		Reason:     reason,
		RejectedBy: actor,
		RejectedAt: e.clock.Now(),
	}
	// The rejection is recorded, then immediately resolves back to
	// unaddressed. Both hops land in the history.
	e.transition(clone, from, spec.StateRejected, actor, role, reason)
	e.transition(clone, spec.StateRejected, spec.StateUnaddressed, actor, role, "")
	doc.ReplaceEntry(clone)
	return nil
}

// AcceptRisk moves any non-terminal entry to accepted_risk. Resolver role
// only, and acceptedBy must be a human identity: acceptances by identities
// containing automated fragments (agent, bot, ai, ...) are rejected.
func (e *Engine) AcceptRisk(doc *spec.Document, id string, role Role, reason, acceptedBy, reviewBy string) error {
	entry, err := e.lookup(doc, id)
	if err != nil {
		return err
	}

	from := currentState(entry)
	if role != RoleResolver {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateAcceptedRisk, Role: role,
			Rule: "only a resolver may accept a risk"}
	}
	if from.IsTerminal() {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateAcceptedRisk, Role: role,
			Rule: "a terminal entry cannot move to accepted_risk"}
	}
	if strings.TrimSpace(reason) == "" {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateAcceptedRisk, Role: role,
			Rule: "risk acceptance requires a non-empty reason"}
	}
	if strings.TrimSpace(acceptedBy) == "" {
		return &GuardViolation{EntryID: id, From: from, To: spec.StateAcceptedRisk, Role: role,
			Rule: "risk acceptance requires accepted_by"}
	}
	if matched := AutomatedIdentity(acceptedBy); matched != "" {
		return &AuthorityViolation{EntryID: id, AcceptedBy: acceptedBy, Matched: matched}
	}

	clone := entry.Clone()
	clone.Status.RiskAcceptance = &spec.RiskAcceptance{
		Reason:     reason,
		AcceptedBy: acceptedBy,
		AcceptedAt: e.clock.Now(),
		ReviewBy:   reviewBy,
	}
	e.transition(clone, from, spec.StateAcceptedRisk, acceptedBy, role, reason)
	doc.ReplaceEntry(clone)
	return nil
}

// Complete reports whether the document is complete: every critical entry
// is verified or accepted as risk. Pure query; nothing is mutated.
func Complete(doc *spec.Document) bool {
	if doc == nil {
		return false
	}
	for _, entry := range doc.Failures {
		if entry == nil || entry.Severity != spec.SeverityCritical {
			continue
		}
		state := currentState(entry)
		if state != spec.StateVerified && state != spec.StateAcceptedRisk {
			return false
		}
	}
	return true
}

func (e *Engine) lookup(doc *spec.Document, id string) (*spec.Entry, error) {
	if doc == nil {
		return nil, ErrNotFound
	}
	entry := doc.FindEntry(id)
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

// transition applies the state change to the clone and appends the history
// record. Callers have already checked every guard.
func (e *Engine) transition(clone *spec.Entry, from, to spec.State, actor string, role Role, reason string) {
	clone.Status.State = to
	clone.Status.History = append(clone.Status.History, spec.Transition{
		ID:     uuid.New().String(),
		From:   from,
		To:     to,
		Actor:  actor,
		Role:   role.String(),
		Reason: reason,
		At:     e.clock.Now(),
	})

	e.metrics.recordTransition(context.Background(), clone.ID, from, to)
	e.logger.Info("entry transitioned",
		"entry_id", clone.ID,
		"from", from,
		"to", to,
		"actor", actor,
		"role", role)
}

// currentState normalizes an empty state to unaddressed, the initial state.
func currentState(entry *spec.Entry) spec.State {
	if entry.Status.State == "" {
		return spec.StateUnaddressed
	}
	return entry.Status.State
}
