// Package failspec provides a governance engine for failure specification
// documents: structured records of the ways a feature can fail, each with a
// testable oracle, reproduction steps, and an evidence requirement that must
// be satisfied before the failure may be marked fixed.
//
// # Core Concepts
//
// The engine is organized around a small set of concepts:
//
//   - Document: an ordered list of failure entries plus document metadata
//   - Entry: one discrete failure mode with an oracle and evidence requirement
//   - Lifecycle: a role-guarded state machine over each entry's status
//   - Freeze: a one-way transition that makes the entry structure immutable
//   - Discovery: a post-freeze finding, tracked in a separate ledger
//   - Evidence: captured proof binding a verification claim to real output
//
// # Packages
//
// The subpackages map onto the engine components:
//
//   - spec: document and entry model, enums, YAML/JSON codec and file store
//   - validate: structural and lint validation of a document
//   - lifecycle: the per-entry state machine and completion predicate
//   - freeze: the freeze manager and the post-freeze document guard
//   - discovery: the append-only post-freeze discovery ledger
//   - priority: the deterministic remediation priority score
//   - evidence: pluggable evidence collection strategies
//   - exec: bounded-timeout process capture used during evidence collection
//
// # Getting Started
//
// The Governor ties the components together behind one facade:
//
//	gov, err := failspec.NewGovernor(
//	    failspec.WithLogger(logger),
//	    failspec.WithWorkspace("/path/to/repo"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := gov.Load("failures.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	if report := gov.Validate(); !report.Valid() {
//	    // handle report.Errors
//	}
//
// Individual components can also be used directly; they share no global
// state and all operate on a caller-owned document instance.
//
// # Error Handling
//
// All engine errors are *failspec.Error values carrying an operation name
// and a kind (schema, guard, immutability, evidence, authority, ...). Use
// errors.Is and errors.As, or IsKind for kind checks:
//
//	if failspec.IsKind(err, failspec.KindImmutability) {
//	    // the document is frozen; record a discovery instead
//	}
//
// Validation and guard failures are structured results, never panics, so
// batch tooling can continue past one bad entry or document.
//
// # Concurrency
//
// The engine assumes a single writer per document. All state lives in the
// document instance passed by the caller; no package keeps global mutable
// state. Evidence collection may invoke external processes and always runs
// them under a bounded timeout.
package failspec
