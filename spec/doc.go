// Package spec defines the failure specification document model: the
// document itself, its ordered failure entries, the per-entry status record,
// and the enumerations (severity, lifecycle state, evidence type, ownership)
// the rest of the engine is built on.
//
// The package also provides the YAML/JSON codec and a flat-file store for
// persisting documents. It contains no behavior beyond the model: validation
// lives in package validate, transitions in package lifecycle, and freeze
// discipline in package freeze.
//
// All types are plain data with no internal locking. The engine assumes a
// single writer per document; callers that share a document across
// goroutines must serialize access themselves.
package spec
