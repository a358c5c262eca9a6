// Package freeze manages the one-way mutable-to-immutable transition of a
// failure specification and enforces the post-freeze write discipline.
//
// The Manager checks the freeze preconditions (valid document, at least one
// entry, not already frozen) and stamps the frozen_at timestamp plus a
// provenance fingerprint, typically the git commit of the workspace.
//
// The Guard is the single chokepoint every entry write must pass through
// once a document is frozen. Structural fields (id, title, severity, oracle,
// repro, evidence requirement, risk attributes) are compared by content
// fingerprint; status-only writes pass, structural edits are rejected or,
// under PolicyRedirect, recorded in the discovery ledger instead.
package freeze
