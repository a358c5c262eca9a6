package lifecycle

import (
	"fmt"

	"github.com/zero-day-ai/failspec/spec"
)

// GuardViolation reports an illegal transition attempt: a transition the
// table does not permit, a role that may not perform it, or a missing
// precondition. The attempt fails atomically; Rule names what was broken.
type GuardViolation struct {
	// EntryID is the entry the attempt addressed.
	EntryID string

	// From is the state the entry was in.
	From spec.State

	// To is the state the attempt targeted.
	To spec.State

	// Role is the role the actor presented.
	Role Role

	// Rule is the human-readable rule that was broken.
	Rule string
}

// Error implements the error interface.
func (e *GuardViolation) Error() string {
	return fmt.Sprintf("guard violation on %s (%s -> %s as %s): %s",
		e.EntryID, e.From, e.To, e.Role, e.Rule)
}

// AuthorityViolation reports a risk acceptance attempted by an identity that
// looks automated. Accepting a risk is a human decision.
type AuthorityViolation struct {
	// EntryID is the entry the attempt addressed.
	EntryID string

	// AcceptedBy is the rejected identity.
	AcceptedBy string

	// Matched is the automated-identity fragment that triggered the
	// rejection.
	Matched string
}

// Error implements the error interface.
func (e *AuthorityViolation) Error() string {
	return fmt.Sprintf("authority violation on %s: accepted_by %q looks automated (matched %q); risk acceptance requires a human identity",
		e.EntryID, e.AcceptedBy, e.Matched)
}

// EvidenceFailure reports that a verification attempt could not be
// substantiated. The entry remains claimed for a later attempt; this is a
// collection outcome, not an engine fault.
type EvidenceFailure struct {
	// EntryID is the entry the attempt addressed.
	EntryID string

	// Method is the collection strategy that ran, when one did.
	Method string

	// Reason explains what was missing or what failed.
	Reason string
}

// Error implements the error interface.
func (e *EvidenceFailure) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("evidence failure on %s: %s", e.EntryID, e.Reason)
	}
	return fmt.Sprintf("evidence failure on %s (%s): %s", e.EntryID, e.Method, e.Reason)
}
