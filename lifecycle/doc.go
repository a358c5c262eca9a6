// Package lifecycle drives the per-entry state machine of a failure
// specification document.
//
// Each entry moves through a fixed set of states under role-guarded
// transitions:
//
//	unaddressed -> in_progress        (builder)
//	in_progress -> claimed            (builder, complete guardrail required)
//	claimed     -> verified           (verifier, evidence required)
//	claimed     -> unaddressed        (verifier rejection, reason required)
//	any non-terminal -> accepted_risk (human resolver only)
//
// Verified and accepted_risk are terminal. A rejection is recorded in the
// history and the entry resolves back to unaddressed with its guardrail
// retained for audit.
//
// Every transition is atomic at the document level: the engine mutates a
// clone of the entry and swaps it in only after every guard passes, so a
// failed attempt leaves the document untouched. Invalid attempts fail with
// a GuardViolation naming the broken rule; a verification attempt whose
// evidence cannot be collected leaves the entry claimed for a later try.
//
// Completion is a pure query, not a state: a document is complete when
// every critical entry is verified or accepted as risk.
package lifecycle
