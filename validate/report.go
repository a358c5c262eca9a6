package validate

import (
	"fmt"
	"strings"
)

// Issue is one validation finding, tied to the field (and entry, when
// applicable) that triggered it.
type Issue struct {
	// EntryID is the id of the entry the issue belongs to, or empty for
	// document-level issues.
	EntryID string `json:"entry_id,omitempty" yaml:"entry_id,omitempty"`

	// Field is the dotted path of the offending field, e.g.
	// "oracle.condition" or "metadata.feature".
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	// Message is a human-readable, actionable description of the problem.
	Message string `json:"message" yaml:"message"`
}

// String renders the issue as "[F001] oracle.condition: message".
func (i Issue) String() string {
	var sb strings.Builder
	if i.EntryID != "" {
		fmt.Fprintf(&sb, "[%s] ", i.EntryID)
	}
	if i.Field != "" {
		fmt.Fprintf(&sb, "%s: ", i.Field)
	}
	sb.WriteString(i.Message)
	return sb.String()
}

// Report is the outcome of validating one document.
type Report struct {
	// Errors are must-pass structural failures. A document with any error
	// is invalid.
	Errors []Issue `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Warnings are advisory lint findings. They never block an operation
	// on their own.
	Warnings []Issue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Valid returns true if the report carries no errors.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a structural error to the report.
func (r *Report) AddError(entryID, field, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{
		EntryID: entryID,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// AddWarning appends an advisory warning to the report.
func (r *Report) AddWarning(entryID, field, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{
		EntryID: entryID,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge appends the issues of another report.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// String renders the report one issue per line, errors before warnings.
func (r *Report) String() string {
	if r.Valid() && len(r.Warnings) == 0 {
		return "ok"
	}

	var sb strings.Builder
	for _, issue := range r.Errors {
		fmt.Fprintf(&sb, "error: %s\n", issue)
	}
	for _, issue := range r.Warnings {
		fmt.Fprintf(&sb, "warning: %s\n", issue)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
