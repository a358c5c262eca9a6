package spec

import (
	"time"
)

// Version is the document schema version this engine reads and writes.
const Version = "1.0"

// Document is a failure specification: document-level metadata plus an
// ordered list of failure entries. Order is significant; the priority
// calculator breaks ties by declaration order.
type Document struct {
	// Version is the document schema version. Must equal Version.
	Version string `json:"version" yaml:"version"`

	// Metadata carries document-level provenance and freeze state.
	Metadata Metadata `json:"metadata" yaml:"metadata"`

	// Failures is the ordered list of failure entries.
	Failures []*Entry `json:"failures" yaml:"failures"`
}

// Metadata carries document-level provenance and freeze state.
type Metadata struct {
	// Feature names the feature this specification covers.
	Feature string `json:"feature" yaml:"feature"`

	// CreatedBy identifies the author of the specification.
	CreatedBy string `json:"created_by" yaml:"created_by"`

	// FrozenAt is set exactly once, when the document freezes. A zero time
	// means the document is still mutable.
	FrozenAt *time.Time `json:"frozen_at,omitempty" yaml:"frozen_at,omitempty"`

	// FrozenFingerprint is a provenance token captured at freeze time,
	// typically a version-control commit hash. May be empty; an empty
	// fingerprint is a known weak guarantee and is surfaced as a warning.
	FrozenFingerprint string `json:"frozen_fingerprint,omitempty" yaml:"frozen_fingerprint,omitempty"`
}

// NewDocument creates an empty document for the given feature.
func NewDocument(feature, createdBy string) *Document {
	return &Document{
		Version: Version,
		Metadata: Metadata{
			Feature:   feature,
			CreatedBy: createdBy,
		},
		Failures: []*Entry{},
	}
}

// IsFrozen returns true once the document has been frozen.
func (d *Document) IsFrozen() bool {
	return d.Metadata.FrozenAt != nil && !d.Metadata.FrozenAt.IsZero()
}

// FindEntry returns the entry with the given id, or nil if absent.
func (d *Document) FindEntry(id string) *Entry {
	for _, e := range d.Failures {
		if e.ID != "" && e.ID == id {
			return e
		}
	}
	return nil
}

// ReplaceEntry swaps the entry with the same id for the given one, keeping
// declaration order. Returns false if no entry carries that id.
func (d *Document) ReplaceEntry(entry *Entry) bool {
	for i, e := range d.Failures {
		if e.ID == entry.ID {
			d.Failures[i] = entry
			return true
		}
	}
	return false
}

// NextEntryID returns the next unused F### identifier, filling no gaps:
// one past the highest id currently present.
func (d *Document) NextEntryID() string {
	highest := 0
	for _, e := range d.Failures {
		if IsValidEntryID(e.ID) {
			n := int(e.ID[1]-'0')*100 + int(e.ID[2]-'0')*10 + int(e.ID[3]-'0')
			if n > highest {
				highest = n
			}
		}
	}
	return FormatEntryID(highest + 1)
}

// FormatEntryID renders a sequence number as an F### identifier.
func FormatEntryID(n int) string {
	return formatSeqID('F', n)
}

// Clone returns a deep copy of the document, entries included.
func (d *Document) Clone() *Document {
	clone := *d
	clone.Failures = make([]*Entry, len(d.Failures))
	for i, e := range d.Failures {
		clone.Failures[i] = e.Clone()
	}
	if d.Metadata.FrozenAt != nil {
		t := *d.Metadata.FrozenAt
		clone.Metadata.FrozenAt = &t
	}
	return &clone
}

// CountByState tallies entries per lifecycle state.
func (d *Document) CountByState() map[State]int {
	counts := make(map[State]int)
	for _, e := range d.Failures {
		state := e.Status.State
		if state == "" {
			state = StateUnaddressed
		}
		counts[state]++
	}
	return counts
}
