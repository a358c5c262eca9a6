package freeze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/failspec/spec"
)

// Policy selects what the Guard does with a structural write against a
// frozen document.
type Policy string

const (
	// PolicyReject refuses the write outright. The default.
	PolicyReject Policy = "reject"

	// PolicyRedirect refuses the write but records it as a discovery in the
	// ledger, preserving the finding for the next revision.
	PolicyRedirect Policy = "redirect"
)

// IsValid returns true if the policy is valid.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyReject, PolicyRedirect:
		return true
	default:
		return false
	}
}

// String returns the string representation of the policy.
func (p Policy) String() string {
	return string(p)
}

// ParsePolicy parses a string into a Policy value. Returns an error if the
// string is not a valid policy.
func ParsePolicy(s string) (Policy, error) {
	policy := Policy(s)
	if !policy.IsValid() {
		return "", fmt.Errorf("invalid guard policy: %s", s)
	}
	return policy, nil
}

// ImmutabilityViolation reports a structural write attempted against a
// frozen document. When the guard runs under PolicyRedirect, DiscoveryID
// names the ledger record the attempt became.
type ImmutabilityViolation struct {
	// EntryID is the entry the write addressed, or the proposed id for a
	// new entry.
	EntryID string

	// Detail names what the write tried to do.
	Detail string

	// DiscoveryID is set when the attempt was redirected to the ledger.
	DiscoveryID string
}

// Error implements the error interface.
func (e *ImmutabilityViolation) Error() string {
	msg := fmt.Sprintf("immutability violation on %s: %s", e.EntryID, e.Detail)
	if e.DiscoveryID != "" {
		msg += fmt.Sprintf(" (recorded as discovery %s)", e.DiscoveryID)
	}
	return msg
}

// Recorder receives redirected structural writes. Satisfied by
// *discovery.Ledger.
type Recorder interface {
	Discover(ctx context.Context, description, discoveredBy string) (*spec.Discovery, error)
}

// Guard is the chokepoint for entry writes against a document. Before the
// document freezes every write passes; afterwards only status-record writes
// pass, and structural edits fail according to the configured policy.
//
// The guard authorizes, it does not apply: callers run Authorize with the
// proposed entry and only swap it into the document when the guard allows.
type Guard struct {
	policy   Policy
	recorder Recorder
	logger   *slog.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithPolicy sets the post-freeze policy for structural writes. Defaults to
// PolicyReject.
func WithPolicy(policy Policy) GuardOption {
	return func(g *Guard) {
		if policy.IsValid() {
			g.policy = policy
		}
	}
}

// WithRecorder sets the ledger that receives redirected writes. Required for
// PolicyRedirect to record anything; without it redirect degrades to reject.
func WithRecorder(recorder Recorder) GuardOption {
	return func(g *Guard) { g.recorder = recorder }
}

// WithGuardLogger sets the logger. Defaults to slog.Default().
func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGuard creates a document guard.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		policy: PolicyReject,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize decides whether proposed may replace the same-id entry in doc.
// On a mutable document every write passes. On a frozen document a write
// passes only when the structural fingerprint is unchanged, meaning only the
// status record differs; adding a new entry or editing structural fields is
// a violation handled per the policy.
func (g *Guard) Authorize(ctx context.Context, doc *spec.Document, proposed *spec.Entry, actor string) error {
	if doc == nil || proposed == nil {
		return fmt.Errorf("guard requires a document and an entry")
	}
	if !doc.IsFrozen() {
		return nil
	}

	current := doc.FindEntry(proposed.ID)
	if current == nil {
		return g.violate(ctx, doc, proposed.ID, actor,
			"entries cannot be added to a frozen document; record a discovery instead",
			fmt.Sprintf("proposed new entry %s: %s", proposed.ID, proposed.Title))
	}

	if StructuralFingerprint(current) != StructuralFingerprint(proposed) {
		return g.violate(ctx, doc, proposed.ID, actor,
			"structural fields are immutable after freeze; only the status record may change",
			fmt.Sprintf("attempted structural edit of %s: %s", proposed.ID, proposed.Title))
	}

	return nil
}

// violate builds the violation, redirecting to the ledger first when the
// policy asks for it.
func (g *Guard) violate(ctx context.Context, doc *spec.Document, entryID, actor, detail, description string) error {
	violation := &ImmutabilityViolation{EntryID: entryID, Detail: detail}

	if g.policy == PolicyRedirect && g.recorder != nil {
		discovered, err := g.recorder.Discover(ctx, description, actor)
		if err != nil {
			g.logger.Error("redirect to discovery ledger failed",
				"entry_id", entryID,
				"error", err)
		} else {
			violation.DiscoveryID = discovered.ID
		}
	}

	g.logger.Warn("structural write blocked on frozen document",
		"feature", doc.Metadata.Feature,
		"entry_id", entryID,
		"actor", actor,
		"policy", g.policy,
		"discovery_id", violation.DiscoveryID)
	return violation
}
