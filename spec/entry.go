package spec

import (
	"regexp"
	"time"
)

// EntryIDPattern is the required form of a failure entry identifier.
var EntryIDPattern = regexp.MustCompile(`^F\d{3}$`)

// MaxTitleLength is the maximum length of an entry title.
const MaxTitleLength = 80

// Entry represents one discrete failure mode: what goes wrong, how to tell,
// how to reproduce it, and what proof is required before it may be marked
// fixed.
type Entry struct {
	// ID uniquely identifies the entry within its document. Must match
	// EntryIDPattern (F001, F002, ...).
	ID string `json:"id" yaml:"id"`

	// Title is a brief summary of the failure mode, at most MaxTitleLength
	// characters.
	Title string `json:"title" yaml:"title"`

	// Severity indicates how bad the failure mode is.
	Severity Severity `json:"severity" yaml:"severity"`

	// Oracle defines the testable condition for "fixed".
	Oracle Oracle `json:"oracle" yaml:"oracle"`

	// Repro describes how to reproduce the failure.
	Repro Repro `json:"repro" yaml:"repro"`

	// EvidenceRequirement states what proof must be captured before the
	// entry may be verified.
	EvidenceRequirement EvidenceRequirement `json:"evidence_requirement" yaml:"evidence_requirement"`

	// Impact optionally describes the consequence if the failure occurs.
	Impact string `json:"impact,omitempty" yaml:"impact,omitempty"`

	// Likelihood optionally estimates how probable the failure is.
	Likelihood Likelihood `json:"likelihood,omitempty" yaml:"likelihood,omitempty"`

	// BlastRadius optionally estimates how far the failure reaches.
	BlastRadius BlastRadius `json:"blast_radius,omitempty" yaml:"blast_radius,omitempty"`

	// VerificationEase optionally estimates how hard the evidence is to
	// produce.
	VerificationEase VerificationEase `json:"verification_ease,omitempty" yaml:"verification_ease,omitempty"`

	// Category optionally classifies the failure mode.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Detection optionally describes how the failure would be noticed in
	// production.
	Detection string `json:"detection,omitempty" yaml:"detection,omitempty"`

	// Ownership indicates which team carries the failure mode.
	Ownership Ownership `json:"ownership,omitempty" yaml:"ownership,omitempty"`

	// InheritedFrom names the component an inherited failure mode comes
	// from. Required when Ownership is inherited.
	InheritedFrom string `json:"inherited_from,omitempty" yaml:"inherited_from,omitempty"`

	// Status tracks the lifecycle of the entry. Structural fields above
	// freeze with the document; Status keeps changing afterwards.
	Status StatusRecord `json:"status" yaml:"status"`
}

// Oracle defines the testable condition for a failure mode being fixed.
type Oracle struct {
	// Condition is the observable condition that holds when the guardrail
	// works. It must be concrete and testable, not a judgment call.
	Condition string `json:"condition" yaml:"condition"`

	// Falsifiable records whether the condition can be demonstrated false
	// by an experiment. A pointer keeps "not stated" distinct from false;
	// validation requires the author to answer the question either way.
	Falsifiable *bool `json:"falsifiable,omitempty" yaml:"falsifiable,omitempty"`
}

// Repro describes how to reproduce a failure mode.
type Repro struct {
	// Preconditions lists the state required before the steps apply.
	Preconditions []string `json:"preconditions,omitempty" yaml:"preconditions,omitempty"`

	// Steps is the ordered sequence of actions that trigger the failure.
	// Must contain at least one step.
	Steps []string `json:"steps" yaml:"steps"`

	// ExpectedIfVulnerable states what is observed when the failure mode is
	// present.
	ExpectedIfVulnerable string `json:"expected_if_vulnerable" yaml:"expected_if_vulnerable"`
}

// EvidenceRequirement states what proof must be captured before an entry may
// be marked verified.
type EvidenceRequirement struct {
	// Type selects the collection strategy.
	Type EvidenceType `json:"type" yaml:"type"`

	// Criteria states what the evidence must show. For executable types it
	// may name the test artifact; for inspection types it describes what
	// the reviewer must see.
	Criteria string `json:"criteria" yaml:"criteria"`
}

// Guardrail records the implemented mitigation for a failure mode. Required
// in full once an entry is claimed.
type Guardrail struct {
	// Design summarizes the mitigation approach.
	Design string `json:"design" yaml:"design"`

	// Location points at the implementation using the form
	// path[:start[-end]].
	Location string `json:"location" yaml:"location"`

	// ImplementedBy identifies who built the guardrail.
	ImplementedBy string `json:"implemented_by" yaml:"implemented_by"`

	// ImplementedAt is stamped when the entry is claimed.
	ImplementedAt time.Time `json:"implemented_at,omitzero" yaml:"implemented_at,omitempty"`
}

// IsComplete returns true if every guardrail field a claim requires is
// populated. ImplementedAt is stamped by the engine, so it is not part of
// the precondition.
func (g Guardrail) IsComplete() bool {
	return g.Design != "" && g.Location != "" && g.ImplementedBy != ""
}

// Verification records the evidence that substantiated a verified entry.
type Verification struct {
	// Method names how the evidence was produced (strategy name or an
	// externally supplied method).
	Method string `json:"method" yaml:"method"`

	// Evidence is the captured proof, bounded in length by the collector.
	Evidence string `json:"evidence" yaml:"evidence"`

	// EvidenceFingerprint is a content hash binding the claim to the full
	// captured output.
	EvidenceFingerprint string `json:"evidence_fingerprint,omitempty" yaml:"evidence_fingerprint,omitempty"`

	// VerifiedBy identifies who verified the entry.
	VerifiedBy string `json:"verified_by" yaml:"verified_by"`

	// VerifiedAt is stamped when the entry is verified.
	VerifiedAt time.Time `json:"verified_at,omitzero" yaml:"verified_at,omitempty"`
}

// RiskAcceptance records a human decision to live with a failure mode.
type RiskAcceptance struct {
	// Reason explains why the risk is acceptable.
	Reason string `json:"reason" yaml:"reason"`

	// AcceptedBy identifies the human who accepted the risk. The engine
	// rejects identities that look automated.
	AcceptedBy string `json:"accepted_by" yaml:"accepted_by"`

	// AcceptedAt is stamped when the risk is accepted.
	AcceptedAt time.Time `json:"accepted_at,omitzero" yaml:"accepted_at,omitempty"`

	// ReviewBy optionally schedules a revisit of the acceptance.
	ReviewBy string `json:"review_by,omitempty" yaml:"review_by,omitempty"`
}

// Rejection records a verifier sending a claimed entry back.
type Rejection struct {
	// Reason explains why the claim did not hold.
	Reason string `json:"reason" yaml:"reason"`

	// RejectedBy identifies who rejected the claim.
	RejectedBy string `json:"rejected_by" yaml:"rejected_by"`

	// RejectedAt is stamped when the claim is rejected.
	RejectedAt time.Time `json:"rejected_at,omitzero" yaml:"rejected_at,omitempty"`
}

// Transition is one appended record in an entry's lifecycle history.
// History is append-only; records are never overwritten.
type Transition struct {
	// ID uniquely identifies the history record.
	ID string `json:"id" yaml:"id"`

	// From is the state the entry left.
	From State `json:"from" yaml:"from"`

	// To is the state the entry entered.
	To State `json:"to" yaml:"to"`

	// Actor identifies who performed the transition.
	Actor string `json:"actor,omitempty" yaml:"actor,omitempty"`

	// Role is the role the actor held for the transition.
	Role string `json:"role,omitempty" yaml:"role,omitempty"`

	// Reason carries the rejection or acceptance reason when one applies.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// At is when the transition happened.
	At time.Time `json:"at" yaml:"at"`
}

// StatusRecord tracks the lifecycle of one entry. It is the only part of an
// entry that may change after the document freezes.
type StatusRecord struct {
	// State is the current lifecycle state.
	State State `json:"state" yaml:"state"`

	// Guardrail records the mitigation. Required in full once the entry is
	// claimed; retained through rejection for audit.
	Guardrail *Guardrail `json:"guardrail,omitempty" yaml:"guardrail,omitempty"`

	// Verification records the substantiating evidence. Present iff the
	// state is verified.
	Verification *Verification `json:"verification,omitempty" yaml:"verification,omitempty"`

	// RiskAcceptance records the human acceptance. Present iff the state is
	// accepted_risk.
	RiskAcceptance *RiskAcceptance `json:"risk_acceptance,omitempty" yaml:"risk_acceptance,omitempty"`

	// Rejection records the most recent rejected claim, if any.
	Rejection *Rejection `json:"rejection,omitempty" yaml:"rejection,omitempty"`

	// History is the append-only transition log.
	History []Transition `json:"history,omitempty" yaml:"history,omitempty"`
}

// NewEntry creates an entry in the initial unaddressed state.
func NewEntry(id, title string, severity Severity) *Entry {
	return &Entry{
		ID:       id,
		Title:    title,
		Severity: severity,
		Status:   StatusRecord{State: StateUnaddressed},
	}
}

// Bool returns a pointer to v, for populating optional boolean fields such
// as Oracle.Falsifiable in struct literals.
func Bool(v bool) *bool { return &v }

// IsValidEntryID returns true if id matches the required F### form.
func IsValidEntryID(id string) bool {
	return EntryIDPattern.MatchString(id)
}

// Clone returns a deep copy of the entry. The lifecycle engine mutates a
// clone and swaps it in only when every guard passes, so a failed transition
// leaves the original untouched.
func (e *Entry) Clone() *Entry {
	clone := *e

	if e.Oracle.Falsifiable != nil {
		f := *e.Oracle.Falsifiable
		clone.Oracle.Falsifiable = &f
	}
	clone.Repro.Preconditions = append([]string(nil), e.Repro.Preconditions...)
	clone.Repro.Steps = append([]string(nil), e.Repro.Steps...)

	if e.Status.Guardrail != nil {
		g := *e.Status.Guardrail
		clone.Status.Guardrail = &g
	}
	if e.Status.Verification != nil {
		v := *e.Status.Verification
		clone.Status.Verification = &v
	}
	if e.Status.RiskAcceptance != nil {
		r := *e.Status.RiskAcceptance
		clone.Status.RiskAcceptance = &r
	}
	if e.Status.Rejection != nil {
		r := *e.Status.Rejection
		clone.Status.Rejection = &r
	}
	clone.Status.History = append([]Transition(nil), e.Status.History...)

	return &clone
}
