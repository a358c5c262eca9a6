package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/zero-day-ai/failspec/spec"
)

// goodEntry returns an entry that passes every structural check.
func goodEntry(id string) *spec.Entry {
	return &spec.Entry{
		ID:       id,
		Title:    "payment applied twice on retry",
		Severity: spec.SeverityMedium,
		Oracle: spec.Oracle{
			Condition:   "replaying a charge request returns the original charge id",
			Falsifiable: spec.Bool(true),
		},
		Repro: spec.Repro{
			Steps:                []string{"submit a charge", "replay the request"},
			ExpectedIfVulnerable: "two charges appear on the account",
		},
		EvidenceRequirement: spec.EvidenceRequirement{
			Type:     spec.EvidenceIntegrationTest,
			Criteria: "TestChargeIdempotency passes",
		},
		Status: spec.StatusRecord{State: spec.StateUnaddressed},
	}
}

func goodDocument() *spec.Document {
	doc := spec.NewDocument("checkout", "adversary@example.com")
	doc.Failures = []*spec.Entry{goodEntry("F001")}
	return doc
}

func hasError(report *Report, field string) bool {
	for _, issue := range report.Errors {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func hasWarning(report *Report, field string) bool {
	for _, issue := range report.Warnings {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func TestDocument_Valid(t *testing.T) {
	report := Document(goodDocument())
	if !report.Valid() {
		t.Fatalf("expected valid document, got errors: %v", report.Errors)
	}
}

func TestDocument_NeverPanics(t *testing.T) {
	report := Document(nil)
	if report.Valid() {
		t.Error("nil document should not validate")
	}

	doc := &spec.Document{}
	report = Document(doc)
	if report.Valid() {
		t.Error("empty document should not validate")
	}

	doc = goodDocument()
	doc.Failures = append(doc.Failures, nil)
	report = Document(doc)
	if report.Valid() {
		t.Error("document with a null entry should not validate")
	}
}

func TestDocument_StructuralChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*spec.Document)
		field  string
	}{
		{"wrong version", func(d *spec.Document) { d.Version = "2.0" }, "version"},
		{"missing feature", func(d *spec.Document) { d.Metadata.Feature = "" }, "metadata.feature"},
		{"missing creator", func(d *spec.Document) { d.Metadata.CreatedBy = "" }, "metadata.created_by"},
		{"bad id", func(d *spec.Document) { d.Failures[0].ID = "F1" }, "id"},
		{"empty title", func(d *spec.Document) { d.Failures[0].Title = "  " }, "title"},
		{"title too long", func(d *spec.Document) { d.Failures[0].Title = strings.Repeat("x", 81) }, "title"},
		{"bad severity", func(d *spec.Document) { d.Failures[0].Severity = "catastrophic" }, "severity"},
		{"missing oracle condition", func(d *spec.Document) { d.Failures[0].Oracle.Condition = "" }, "oracle.condition"},
		{"unstated falsifiable", func(d *spec.Document) { d.Failures[0].Oracle.Falsifiable = nil }, "oracle.falsifiable"},
		{"no repro steps", func(d *spec.Document) { d.Failures[0].Repro.Steps = nil }, "repro.steps"},
		{"blank repro step", func(d *spec.Document) { d.Failures[0].Repro.Steps = []string{" "} }, "repro.steps"},
		{"missing expected", func(d *spec.Document) { d.Failures[0].Repro.ExpectedIfVulnerable = "" }, "repro.expected_if_vulnerable"},
		{"bad evidence type", func(d *spec.Document) { d.Failures[0].EvidenceRequirement.Type = "screenshot" }, "evidence_requirement.type"},
		{"missing criteria", func(d *spec.Document) { d.Failures[0].EvidenceRequirement.Criteria = "" }, "evidence_requirement.criteria"},
		{"bad state", func(d *spec.Document) { d.Failures[0].Status.State = "open" }, "status.state"},
		{
			"inherited without source",
			func(d *spec.Document) { d.Failures[0].Ownership = spec.OwnershipInherited },
			"inherited_from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := goodDocument()
			tt.mutate(doc)
			report := Document(doc)
			if report.Valid() {
				t.Fatalf("expected invalid document")
			}
			if !hasError(report, tt.field) {
				t.Errorf("expected error on field %q, got %v", tt.field, report.Errors)
			}
		})
	}
}

func TestDocument_FalsifiableMustBeStated(t *testing.T) {
	// An entry serialized without the falsifiable key must not validate;
	// only an explicit true or false answers the question.
	const yamlDoc = `version: "1.0"
metadata:
  feature: checkout
  created_by: adversary@example.com
failures:
  - id: F001
    title: payment applied twice on retry
    severity: medium
    oracle:
      condition: replaying a charge request returns the original charge id
    repro:
      steps:
        - submit a charge
        - replay the request
      expected_if_vulnerable: two charges appear on the account
    evidence_requirement:
      type: integration_test
      criteria: TestChargeIdempotency passes
    status:
      state: unaddressed
`
	doc, err := spec.Unmarshal([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	report := Document(doc)
	if report.Valid() {
		t.Fatal("entry without falsifiable should not validate")
	}
	if !hasError(report, "oracle.falsifiable") {
		t.Errorf("expected error on oracle.falsifiable, got %v", report.Errors)
	}

	doc.Failures[0].Oracle.Falsifiable = spec.Bool(false)
	if report := Document(doc); !report.Valid() {
		t.Errorf("explicit falsifiable: false should validate, got %v", report.Errors)
	}
}

func TestDocument_VaguePhrases(t *testing.T) {
	for _, phrase := range []string{"should be secure", "must be safe", "needs to work"} {
		t.Run(phrase, func(t *testing.T) {
			doc := goodDocument()
			doc.Failures[0].Oracle.Condition = "the endpoint " + phrase + " under load"
			report := Document(doc)
			if report.Valid() {
				t.Errorf("oracle condition with %q should be an error", phrase)
			}
			if !hasError(report, "oracle.condition") {
				t.Errorf("expected error on oracle.condition, got %v", report.Errors)
			}
		})
	}
}

func TestDocument_DuplicateID(t *testing.T) {
	doc := goodDocument()
	dup := goodEntry("F001")
	dup.Title = "a different failure, same id"
	doc.Failures = append(doc.Failures, dup)

	report := Document(doc)
	if report.Valid() {
		t.Fatal("duplicate ids must be an error, not a warning")
	}
	if !hasError(report, "id") {
		t.Errorf("expected duplicate id error, got %v", report.Errors)
	}
}

func TestDocument_DuplicateTitleWarns(t *testing.T) {
	doc := goodDocument()
	second := goodEntry("F002")
	second.Title = strings.ToUpper(doc.Failures[0].Title)
	doc.Failures = append(doc.Failures, second)

	report := Document(doc)
	if !report.Valid() {
		t.Fatalf("duplicate title should not invalidate, got errors: %v", report.Errors)
	}
	if !hasWarning(report, "title") {
		t.Errorf("expected duplicate title warning, got %v", report.Warnings)
	}
}

func TestDocument_CriticalLint(t *testing.T) {
	doc := goodDocument()
	doc.Failures[0].Severity = spec.SeverityCritical

	report := Document(doc)
	if !report.Valid() {
		t.Fatalf("missing impact/detection must stay advisory, got errors: %v", report.Errors)
	}
	if !hasWarning(report, "impact") || !hasWarning(report, "detection") {
		t.Errorf("expected impact and detection warnings, got %v", report.Warnings)
	}

	doc.Failures[0].Impact = "duplicate charges reach customer cards"
	doc.Failures[0].Detection = "charge count alarm on the payment dashboard"
	report = Document(doc)
	if hasWarning(report, "impact") || hasWarning(report, "detection") {
		t.Errorf("populated impact/detection should not warn, got %v", report.Warnings)
	}
}

func TestDocument_AssertionPhraseWarns(t *testing.T) {
	doc := goodDocument()
	doc.Failures[0].EvidenceRequirement.Criteria = "the fix looks correct in review"

	report := Document(doc)
	if !report.Valid() {
		t.Fatalf("assertion phrase should stay advisory, got errors: %v", report.Errors)
	}
	if !hasWarning(report, "evidence_requirement.criteria") {
		t.Errorf("expected criteria warning, got %v", report.Warnings)
	}
}

func TestDocument_VerifiedRequiresEvidence(t *testing.T) {
	doc := goodDocument()
	doc.Failures[0].Status.State = spec.StateVerified

	report := Document(doc)
	if report.Valid() {
		t.Fatal("verified without evidence should not validate")
	}
	if !hasError(report, "status.verification.evidence") {
		t.Errorf("expected verification evidence error, got %v", report.Errors)
	}

	doc.Failures[0].Status.Verification = &spec.Verification{
		Method:     "integration_test",
		Evidence:   "=== RUN TestChargeIdempotency\n--- PASS",
		VerifiedBy: "verifier@example.com",
	}
	if report := Document(doc); !report.Valid() {
		t.Errorf("verified with evidence should validate, got %v", report.Errors)
	}
}

func TestDocument_AcceptedRiskRequiresAcceptor(t *testing.T) {
	doc := goodDocument()
	doc.Failures[0].Status.State = spec.StateAcceptedRisk

	report := Document(doc)
	if report.Valid() {
		t.Fatal("accepted_risk without accepted_by should not validate")
	}

	doc.Failures[0].Status.RiskAcceptance = &spec.RiskAcceptance{
		Reason:     "legacy flow retires next quarter",
		AcceptedBy: "alice@example.com",
	}
	if report := Document(doc); !report.Valid() {
		t.Errorf("accepted_risk with accepted_by should validate, got %v", report.Errors)
	}
}

func TestDocument_FrozenWarnings(t *testing.T) {
	d := goodDocument()
	t0 := time.Now()
	d.Metadata.FrozenAt = &t0

	report := Document(d)
	if !report.Valid() {
		t.Fatalf("frozen document should still validate, got %v", report.Errors)
	}
	if !hasWarning(report, "metadata.frozen_at") {
		t.Errorf("expected frozen warning, got %v", report.Warnings)
	}
	if !hasWarning(report, "metadata.frozen_fingerprint") {
		t.Errorf("expected missing fingerprint warning, got %v", report.Warnings)
	}

	d.Metadata.FrozenFingerprint = "0123456789abcdef"
	report = Document(d)
	if hasWarning(report, "metadata.frozen_fingerprint") {
		t.Errorf("fingerprinted freeze should not warn, got %v", report.Warnings)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{}
	if report.String() != "ok" {
		t.Errorf("empty report String() = %q, want ok", report.String())
	}

	report.AddError("F001", "title", "title is required")
	report.AddWarning("", "metadata.frozen_at", "document is frozen")
	out := report.String()
	if !strings.Contains(out, "error: [F001] title: title is required") {
		t.Errorf("report output missing error line: %q", out)
	}
	if !strings.Contains(out, "warning: metadata.frozen_at: document is frozen") {
		t.Errorf("report output missing warning line: %q", out)
	}
}
