package validate

import (
	"strings"

	"github.com/zero-day-ai/failspec/spec"
)

// vaguePhrases are deny-listed fragments in oracle conditions. An oracle
// built on one of these is an opinion, not a testable condition.
var vaguePhrases = []string{
	"should be secure",
	"must be safe",
	"needs to work",
}

// assertionPhrases in evidence criteria signal a judgment call instead of an
// observable check. Flagged as warnings: proof must be observable.
var assertionPhrases = []string{
	"looks correct",
	"seems fine",
	"appears to work",
	"should work",
}

// Document runs every structural check and every lint check against the
// document and returns the combined report. The document is never mutated.
//
// Structural failures land in Report.Errors; the document is valid iff that
// slice is empty. Lint findings land in Report.Warnings.
func Document(doc *spec.Document) *Report {
	report := &Report{}

	if doc == nil {
		report.AddError("", "", "document is nil")
		return report
	}

	if doc.Version != spec.Version {
		report.AddError("", "version", "version must be %q, got %q", spec.Version, doc.Version)
	}
	if doc.Metadata.Feature == "" {
		report.AddError("", "metadata.feature", "feature is required")
	}
	if doc.Metadata.CreatedBy == "" {
		report.AddError("", "metadata.created_by", "created_by is required")
	}

	if doc.Failures == nil {
		report.AddError("", "failures", "failures list is required")
		return report
	}

	seenIDs := make(map[string]string)    // id -> first entry carrying it
	seenTitles := make(map[string]string) // lowercased title -> first id

	for i, entry := range doc.Failures {
		if entry == nil {
			report.AddError("", "failures", "entry at index %d is null", i)
			continue
		}

		report.Merge(Entry(entry))

		// Duplicate ids break addressing, so they are errors even though
		// they span entries.
		if entry.ID != "" {
			if _, dup := seenIDs[entry.ID]; dup {
				report.AddError(entry.ID, "id", "duplicate entry id")
			} else {
				seenIDs[entry.ID] = entry.ID
			}
		}

		title := strings.ToLower(strings.TrimSpace(entry.Title))
		if title != "" {
			if first, dup := seenTitles[title]; dup {
				report.AddWarning(entry.ID, "title", "duplicate title (case-insensitive) of %s", first)
			} else {
				seenTitles[title] = entry.ID
			}
		}
	}

	if doc.IsFrozen() {
		report.AddWarning("", "metadata.frozen_at",
			"document is frozen; structural edits will be rejected")
		if doc.Metadata.FrozenFingerprint == "" {
			report.AddWarning("", "metadata.frozen_fingerprint",
				"frozen without a provenance fingerprint")
		}
	}

	return report
}

// Entry runs the per-entry structural and lint checks. Used by Document for
// every entry and by callers validating a single new entry (e.g. one
// authored from a discovery).
func Entry(entry *spec.Entry) *Report {
	report := &Report{}

	if entry == nil {
		report.AddError("", "", "entry is nil")
		return report
	}

	id := entry.ID
	if !spec.IsValidEntryID(id) {
		report.AddError(id, "id", "id must match F### (e.g. F001), got %q", id)
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		report.AddError(id, "title", "title is required")
	} else if len(entry.Title) > spec.MaxTitleLength {
		report.AddError(id, "title", "title exceeds %d characters (%d)", spec.MaxTitleLength, len(entry.Title))
	}

	if !entry.Severity.IsValid() {
		report.AddError(id, "severity", "severity must be one of critical, high, medium, low; got %q", entry.Severity)
	}

	validateOracle(report, id, entry.Oracle)
	validateRepro(report, id, entry.Repro)
	validateEvidenceRequirement(report, id, entry.EvidenceRequirement)
	validateStatus(report, id, entry.Status)

	if entry.Ownership != "" && !entry.Ownership.IsValid() {
		report.AddError(id, "ownership", "invalid ownership %q", entry.Ownership)
	}
	if entry.Ownership == spec.OwnershipInherited && entry.InheritedFrom == "" {
		report.AddError(id, "inherited_from", "inherited ownership requires inherited_from")
	}

	if entry.Likelihood != "" && !entry.Likelihood.IsValid() {
		report.AddError(id, "likelihood", "invalid likelihood %q", entry.Likelihood)
	}
	if entry.BlastRadius != "" && !entry.BlastRadius.IsValid() {
		report.AddError(id, "blast_radius", "invalid blast_radius %q", entry.BlastRadius)
	}
	if entry.VerificationEase != "" && !entry.VerificationEase.IsValid() {
		report.AddError(id, "verification_ease", "invalid verification_ease %q", entry.VerificationEase)
	}

	// High-stakes entries without impact or detection leave the reader
	// guessing what is actually at risk.
	if entry.Severity == spec.SeverityCritical || entry.Severity == spec.SeverityHigh {
		if entry.Impact == "" {
			report.AddWarning(id, "impact", "%s entry has no impact statement", entry.Severity)
		}
		if entry.Detection == "" {
			report.AddWarning(id, "detection", "%s entry has no detection statement", entry.Severity)
		}
	}

	return report
}

func validateOracle(report *Report, id string, oracle spec.Oracle) {
	if oracle.Falsifiable == nil {
		report.AddError(id, "oracle.falsifiable", "falsifiable must be stated explicitly")
	}

	condition := strings.TrimSpace(oracle.Condition)
	if condition == "" {
		report.AddError(id, "oracle.condition", "oracle condition is required")
		return
	}

	lower := strings.ToLower(condition)
	for _, phrase := range vaguePhrases {
		if strings.Contains(lower, phrase) {
			report.AddError(id, "oracle.condition",
				"condition contains vague phrase %q; state an observable, testable condition", phrase)
		}
	}
}

func validateRepro(report *Report, id string, repro spec.Repro) {
	if len(repro.Steps) == 0 {
		report.AddError(id, "repro.steps", "at least one reproduction step is required")
	}
	for i, step := range repro.Steps {
		if strings.TrimSpace(step) == "" {
			report.AddError(id, "repro.steps", "step %d is empty", i+1)
		}
	}
	if strings.TrimSpace(repro.ExpectedIfVulnerable) == "" {
		report.AddError(id, "repro.expected_if_vulnerable", "expected_if_vulnerable is required")
	}
}

func validateEvidenceRequirement(report *Report, id string, req spec.EvidenceRequirement) {
	if !req.Type.IsValid() {
		report.AddError(id, "evidence_requirement.type", "unrecognized evidence type %q", req.Type)
	}

	criteria := strings.TrimSpace(req.Criteria)
	if criteria == "" {
		report.AddError(id, "evidence_requirement.criteria", "evidence criteria are required")
		return
	}

	lower := strings.ToLower(criteria)
	for _, phrase := range assertionPhrases {
		if strings.Contains(lower, phrase) {
			report.AddWarning(id, "evidence_requirement.criteria",
				"criteria contain assertion phrase %q; proof must be observable, not a judgment call", phrase)
		}
	}
}

func validateStatus(report *Report, id string, status spec.StatusRecord) {
	if status.State != "" && !status.State.IsValid() {
		report.AddError(id, "status.state", "invalid state %q", status.State)
	}

	if status.State == spec.StateVerified {
		if status.Verification == nil || strings.TrimSpace(status.Verification.Evidence) == "" {
			report.AddError(id, "status.verification.evidence",
				"verified entries require non-empty verification evidence")
		}
	}

	if status.State == spec.StateAcceptedRisk {
		if status.RiskAcceptance == nil || strings.TrimSpace(status.RiskAcceptance.AcceptedBy) == "" {
			report.AddError(id, "status.risk_acceptance.accepted_by",
				"accepted_risk entries require risk_acceptance.accepted_by")
		}
	}
}
