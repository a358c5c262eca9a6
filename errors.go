package failspec

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrEntryNotFound indicates the referenced failure entry does not exist
	// in the document.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrDocumentFrozen indicates a structural write was attempted on a
	// frozen document.
	ErrDocumentFrozen = errors.New("document is frozen")

	// ErrAlreadyFrozen indicates a freeze was attempted on a document that
	// is already frozen.
	ErrAlreadyFrozen = errors.New("document is already frozen")

	// ErrInvalidTransition indicates a lifecycle transition that the
	// transition table does not permit.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrRoleDenied indicates the acting role is not allowed to perform the
	// requested transition.
	ErrRoleDenied = errors.New("role not permitted")

	// ErrAutomatedIdentity indicates a risk acceptance was attempted by an
	// identity that looks automated rather than human.
	ErrAutomatedIdentity = errors.New("accepted_by must be a human identity")

	// ErrNoEvidence indicates evidence collection could not substantiate a
	// claimed fix.
	ErrNoEvidence = errors.New("no evidence collected")

	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error kinds categorize errors by the governance rule they break.
const (
	// KindSchema represents malformed, missing, or invalid document fields.
	KindSchema = "schema"

	// KindGuard represents an illegal lifecycle transition or a missing
	// role precondition.
	KindGuard = "guard"

	// KindImmutability represents a structural write on a frozen document.
	KindImmutability = "immutability"

	// KindEvidence represents a failure to substantiate a claimed fix.
	KindEvidence = "evidence"

	// KindAuthority represents a risk acceptance by a non-human identity.
	KindAuthority = "authority"

	// KindNotFound represents errors where a document or entry was not found.
	KindNotFound = "not_found"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindTimeout represents errors related to bounded-execution timeouts.
	KindTimeout = "timeout"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with the
// operation that failed and the category of governance rule that was broken.
//
// Error implements the error interface and supports error unwrapping, making
// it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &Error{
//		Op:   "Engine.AcceptRisk",
//		Kind: KindAuthority,
//		Err:  ErrAutomatedIdentity,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Verify", "Manager.Freeze").
	Op string

	// Kind categorizes the error (e.g., KindGuard, KindImmutability).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include entry IDs, actor identities, or the rule that was
	// violated.
	Context map[string]any
}

// Error implements the error interface, returning a formatted message that
// includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failspec: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("failspec: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("failspec: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on the
// underlying error or on the Kind (and optionally Op) of another *Error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context merged in.
//
// Example:
//
//	err = err.WithContext(map[string]any{
//		"entry_id": "F001",
//		"actor":    "alice@example.com",
//	})
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewSchemaError creates a new Error with KindSchema.
func NewSchemaError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindSchema, Err: err}
}

// NewGuardError creates a new Error with KindGuard.
func NewGuardError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindGuard, Err: err}
}

// NewImmutabilityError creates a new Error with KindImmutability.
func NewImmutabilityError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindImmutability, Err: err}
}

// NewEvidenceError creates a new Error with KindEvidence.
func NewEvidenceError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindEvidence, Err: err}
}

// NewAuthorityError creates a new Error with KindAuthority.
func NewAuthorityError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindAuthority, Err: err}
}

// NewNotFoundError creates a new Error with KindNotFound.
func NewNotFoundError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewTimeoutError creates a new Error with KindTimeout.
func NewTimeoutError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindTimeout, Err: err}
}

// NewInternalError creates a new Error with KindInternal.
func NewInternalError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindInternal, Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind string) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g., "file",
// "ledger store"). If logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
