package spec

import (
	"fmt"
	"regexp"
	"time"
)

// DiscoveryIDPattern is the required form of a discovery identifier.
var DiscoveryIDPattern = regexp.MustCompile(`^D\d{3}$`)

// Disposition records the human decision about a post-freeze discovery.
type Disposition string

const (
	// DispositionPending indicates no decision has been made yet. Every
	// discovery starts pending.
	DispositionPending Disposition = "pending"

	// DispositionAddToNext indicates the discovery should become a new
	// entry in the next specification revision. The new entry is authored
	// and validated independently; nothing is merged automatically.
	DispositionAddToNext Disposition = "add_to_next"

	// DispositionAcceptedRisk indicates the discovery was accepted as a
	// known risk.
	DispositionAcceptedRisk Disposition = "accepted_risk"

	// DispositionDuplicate indicates the discovery duplicates an existing
	// entry or discovery.
	DispositionDuplicate Disposition = "duplicate"
)

// IsValid returns true if the disposition is valid.
func (d Disposition) IsValid() bool {
	switch d {
	case DispositionPending, DispositionAddToNext, DispositionAcceptedRisk, DispositionDuplicate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the disposition.
func (d Disposition) String() string {
	return string(d)
}

// ParseDisposition parses a string into a Disposition value.
// Returns an error if the string is not a valid disposition.
func ParseDisposition(s string) (Disposition, error) {
	disposition := Disposition(s)
	if !disposition.IsValid() {
		return "", fmt.Errorf("invalid disposition: %s", s)
	}
	return disposition, nil
}

// AllDispositions returns all valid dispositions.
func AllDispositions() []Disposition {
	return []Disposition{
		DispositionPending,
		DispositionAddToNext,
		DispositionAcceptedRisk,
		DispositionDuplicate,
	}
}

// Discovery is a failure mode found after the document froze. Discoveries
// live in a ledger independent of the document and never merge into the
// entry list without a human decision.
type Discovery struct {
	// ID uniquely identifies the discovery within its ledger. Must match
	// DiscoveryIDPattern (D001, D002, ...).
	ID string `json:"id" yaml:"id"`

	// Description explains what was found.
	Description string `json:"description" yaml:"description"`

	// DiscoveredBy identifies who found it.
	DiscoveredBy string `json:"discovered_by" yaml:"discovered_by"`

	// DiscoveredAt is when it was recorded.
	DiscoveredAt time.Time `json:"discovered_at" yaml:"discovered_at"`

	// Disposition records the human decision about the discovery.
	Disposition Disposition `json:"disposition" yaml:"disposition"`
}

// IsValidDiscoveryID returns true if id matches the required D### form.
func IsValidDiscoveryID(id string) bool {
	return DiscoveryIDPattern.MatchString(id)
}

// FormatDiscoveryID renders a sequence number as a D### identifier.
func FormatDiscoveryID(n int) string {
	return formatSeqID('D', n)
}

// formatSeqID renders prefix plus a zero-padded three digit sequence.
// Sequences past 999 keep their natural width rather than wrapping.
func formatSeqID(prefix byte, n int) string {
	return fmt.Sprintf("%c%03d", prefix, n)
}
