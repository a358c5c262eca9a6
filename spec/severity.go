package spec

import "fmt"

// Severity represents the severity level of a failure entry.
type Severity string

const (
	// SeverityCritical indicates a failure mode that must be resolved before
	// the feature can ship. Examples: data loss, authentication bypass
	SeverityCritical Severity = "critical"

	// SeverityHigh indicates a high-impact failure mode.
	// Examples: privilege escalation, significant data exposure
	SeverityHigh Severity = "high"

	// SeverityMedium indicates a moderate failure mode.
	// Examples: degraded behavior under load, partial feature breakage
	SeverityMedium Severity = "medium"

	// SeverityLow indicates a minor failure mode.
	// Examples: cosmetic defects, minor information leaks
	SeverityLow Severity = "low"
)

// severityRanks orders severity levels for comparison. Higher ranks indicate
// more severe failure modes.
var severityRanks = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// IsValid returns true if the severity level is valid.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Rank returns the ordering rank associated with the severity level.
// Returns 0 for invalid severity levels.
func (s Severity) Rank() int {
	if rank, ok := severityRanks[s]; ok {
		return rank
	}
	return 0
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// DisplayName returns a human-readable display name for the severity.
func (s Severity) DisplayName() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	default:
		return string(s)
	}
}

// ParseSeverity parses a string into a Severity value.
// Returns an error if the string is not a valid severity level.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}

// CompareSeverity compares two severity levels.
// Returns:
//   - negative if s1 < s2
//   - zero if s1 == s2
//   - positive if s1 > s2
func CompareSeverity(s1, s2 Severity) int {
	return s1.Rank() - s2.Rank()
}

// AllSeverities returns all valid severity levels in order from critical to low.
func AllSeverities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
	}
}
