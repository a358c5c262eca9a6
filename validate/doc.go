// Package validate checks failure specification documents for structural and
// semantic correctness.
//
// Validation produces a Report with two tiers. Errors are must-pass
// structural checks: a document with any error is invalid and must not be
// frozen or run through the lifecycle engine. Warnings are advisory lint
// findings that never block an operation on their own.
//
// The validator never panics on malformed input: a nil document, missing
// sections, and out-of-range values all come back as report errors, so batch
// tooling can keep going past one bad document.
package validate
