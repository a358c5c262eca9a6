package spec

import "fmt"

// EvidenceType represents the kind of evidence that must be produced before
// an entry may be marked verified. Each type maps to a collection strategy:
// executable types run a test artifact, inspection types read the guardrail
// source, and manual types can never be satisfied automatically.
type EvidenceType string

const (
	// EvidenceUnitTest requires a passing unit test.
	EvidenceUnitTest EvidenceType = "unit_test"

	// EvidenceIntegrationTest requires a passing integration test.
	EvidenceIntegrationTest EvidenceType = "integration_test"

	// EvidenceE2ETest requires a passing end-to-end test.
	EvidenceE2ETest EvidenceType = "e2e_test"

	// EvidenceFuzzTest requires a fuzzing run that finds no new crashers.
	EvidenceFuzzTest EvidenceType = "fuzz_test"

	// EvidenceLoadTest requires a load test meeting its criteria.
	EvidenceLoadTest EvidenceType = "load_test"

	// EvidenceSecurityTest requires a passing security regression test.
	EvidenceSecurityTest EvidenceType = "security_test"

	// EvidenceTimingTest requires a timing or race test.
	EvidenceTimingTest EvidenceType = "timing_test"

	// EvidenceRegressionTest requires a passing regression test pinned to
	// the original failure.
	EvidenceRegressionTest EvidenceType = "regression_test"

	// EvidencePropertyTest requires a passing property-based test.
	EvidencePropertyTest EvidenceType = "property_test"

	// EvidenceLogAssertion requires log output matching the criteria.
	EvidenceLogAssertion EvidenceType = "log_assertion"

	// EvidenceNetworkCapture requires a network capture demonstrating the
	// guardrail behavior.
	EvidenceNetworkCapture EvidenceType = "network_capture"

	// EvidenceMetricThreshold requires a metric check against a threshold.
	EvidenceMetricThreshold EvidenceType = "metric_threshold"

	// EvidenceCodeInspection requires reading the guardrail implementation
	// at its recorded location.
	EvidenceCodeInspection EvidenceType = "code_inspection"

	// EvidenceConfigInspection requires reading a configuration artifact at
	// its recorded location.
	EvidenceConfigInspection EvidenceType = "config_inspection"

	// EvidenceDependencyAudit requires inspecting a dependency manifest or
	// lock file.
	EvidenceDependencyAudit EvidenceType = "dependency_audit"

	// EvidenceManualReview requires a human review and cannot be captured
	// automatically.
	EvidenceManualReview EvidenceType = "manual_review"

	// EvidenceExternalAttestation requires an attestation from an external
	// party and cannot be captured automatically.
	EvidenceExternalAttestation EvidenceType = "external_attestation"
)

// IsValid returns true if the evidence type is recognized.
func (e EvidenceType) IsValid() bool {
	switch e {
	case EvidenceUnitTest,
		EvidenceIntegrationTest,
		EvidenceE2ETest,
		EvidenceFuzzTest,
		EvidenceLoadTest,
		EvidenceSecurityTest,
		EvidenceTimingTest,
		EvidenceRegressionTest,
		EvidencePropertyTest,
		EvidenceLogAssertion,
		EvidenceNetworkCapture,
		EvidenceMetricThreshold,
		EvidenceCodeInspection,
		EvidenceConfigInspection,
		EvidenceDependencyAudit,
		EvidenceManualReview,
		EvidenceExternalAttestation:
		return true
	default:
		return false
	}
}

// IsExecutable returns true if the evidence type is satisfied by running a
// test artifact and checking its exit status.
func (e EvidenceType) IsExecutable() bool {
	switch e {
	case EvidenceUnitTest,
		EvidenceIntegrationTest,
		EvidenceE2ETest,
		EvidenceFuzzTest,
		EvidenceLoadTest,
		EvidenceSecurityTest,
		EvidenceTimingTest,
		EvidenceRegressionTest,
		EvidencePropertyTest,
		EvidenceLogAssertion,
		EvidenceNetworkCapture,
		EvidenceMetricThreshold:
		return true
	default:
		return false
	}
}

// IsInspection returns true if the evidence type is satisfied by reading the
// guardrail artifact at its recorded location.
func (e EvidenceType) IsInspection() bool {
	switch e {
	case EvidenceCodeInspection, EvidenceConfigInspection, EvidenceDependencyAudit:
		return true
	default:
		return false
	}
}

// IsManual returns true if the evidence type can never be captured
// automatically. Unrecognized types are treated as manual so that absence of
// a strategy is an evidentiary failure, never a silent pass.
func (e EvidenceType) IsManual() bool {
	return !e.IsExecutable() && !e.IsInspection()
}

// String returns the string representation of the evidence type.
func (e EvidenceType) String() string {
	return string(e)
}

// ParseEvidenceType parses a string into an EvidenceType value.
// Returns an error if the string is not a recognized evidence type.
func ParseEvidenceType(s string) (EvidenceType, error) {
	evidenceType := EvidenceType(s)
	if !evidenceType.IsValid() {
		return "", fmt.Errorf("invalid evidence type: %s", s)
	}
	return evidenceType, nil
}

// AllEvidenceTypes returns all recognized evidence types.
func AllEvidenceTypes() []EvidenceType {
	return []EvidenceType{
		EvidenceUnitTest,
		EvidenceIntegrationTest,
		EvidenceE2ETest,
		EvidenceFuzzTest,
		EvidenceLoadTest,
		EvidenceSecurityTest,
		EvidenceTimingTest,
		EvidenceRegressionTest,
		EvidencePropertyTest,
		EvidenceLogAssertion,
		EvidenceNetworkCapture,
		EvidenceMetricThreshold,
		EvidenceCodeInspection,
		EvidenceConfigInspection,
		EvidenceDependencyAudit,
		EvidenceManualReview,
		EvidenceExternalAttestation,
	}
}
