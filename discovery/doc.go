// Package discovery is the append-only ledger of failure modes found after
// a specification froze. Discoveries are stored independently of the frozen
// document and never merge into the entry list automatically; promotion into
// the next revision is a human decision, recorded as a disposition.
//
// The Ledger assigns sequential D### identifiers from an injected Store,
// which exists in three forms: an in-memory store for tests and single-shot
// commands, a file store persisting through the spec codec, and a
// Redis-backed store for shared ledgers.
package discovery
