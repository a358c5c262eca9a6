package freeze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zero-day-ai/failspec/spec"
	"github.com/zero-day-ai/failspec/validate"
)

// ErrAlreadyFrozen indicates a freeze attempt on a document that is frozen.
var ErrAlreadyFrozen = errors.New("document is already frozen")

// PreconditionError reports why a document cannot freeze. The document is
// never mutated when freezing fails.
type PreconditionError struct {
	// Report carries the structural issues that block the freeze.
	Report *validate.Report
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	if e.Report == nil || len(e.Report.Errors) == 0 {
		return "freeze preconditions not met"
	}

	var sb strings.Builder
	sb.WriteString("freeze preconditions not met:")
	for _, issue := range e.Report.Errors {
		fmt.Fprintf(&sb, "\n  %s", issue)
	}
	return sb.String()
}

// Clock supplies the current time. Injected so tests can pin the freeze
// timestamp.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Manager performs the one-way freeze of a failure specification.
type Manager struct {
	clock     Clock
	workspace string
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source. Defaults to the system clock.
func WithClock(clock Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithWorkspace sets the directory used to derive a git fingerprint when the
// caller supplies none.
func WithWorkspace(workspace string) Option {
	return func(m *Manager) { m.workspace = workspace }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a freeze manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clock:  systemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Freeze makes the document immutable. Preconditions are all checked before
// anything is written, so a failed freeze leaves the document untouched:
//
//   - the schema version is current
//   - metadata.feature is present
//   - the document is not already frozen
//   - at least one entry exists
//   - every entry passes structural validation
//
// The fingerprint argument is the provenance token to record. When empty,
// the manager derives one from the workspace git HEAD; when that also fails,
// the document freezes with an empty fingerprint and a warning is logged;
// the freeze itself is not blocked on provenance.
func (m *Manager) Freeze(ctx context.Context, doc *spec.Document, fingerprint string) error {
	if doc == nil {
		return &PreconditionError{Report: reportf("", "", "document is nil")}
	}
	if doc.IsFrozen() {
		return ErrAlreadyFrozen
	}

	report := validate.Document(doc)
	if len(doc.Failures) == 0 {
		report.AddError("", "failures", "a document must carry at least one entry to freeze")
	}
	if !report.Valid() {
		return &PreconditionError{Report: report}
	}

	if fingerprint == "" {
		derived, err := GitFingerprint(ctx, m.workspace)
		if err != nil {
			m.logger.Warn("freezing without a provenance fingerprint",
				"feature", doc.Metadata.Feature,
				"error", err)
		} else {
			fingerprint = derived
		}
	}

	now := m.clock.Now()
	doc.Metadata.FrozenAt = &now
	doc.Metadata.FrozenFingerprint = fingerprint

	m.logger.Info("document frozen",
		"feature", doc.Metadata.Feature,
		"entries", len(doc.Failures),
		"fingerprint", fingerprint)
	return nil
}

func reportf(entryID, field, format string, args ...any) *validate.Report {
	report := &validate.Report{}
	report.AddError(entryID, field, format, args...)
	return report
}
