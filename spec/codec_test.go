package spec

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `version: "1.0"
metadata:
  feature: checkout
  created_by: adversary@example.com
failures:
  - id: F001
    title: payment applied twice on retry
    severity: critical
    oracle:
      condition: replaying a charge request returns the original charge id
      falsifiable: true
    repro:
      steps:
        - submit a charge
        - replay the same request
      expected_if_vulnerable: two charges appear on the account
    evidence_requirement:
      type: integration_test
      criteria: TestChargeIdempotency passes
    status:
      state: unaddressed
`

func TestUnmarshal(t *testing.T) {
	doc, err := Unmarshal([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	if doc.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", doc.Version)
	}
	if doc.Metadata.Feature != "checkout" {
		t.Errorf("feature = %q, want checkout", doc.Metadata.Feature)
	}
	if len(doc.Failures) != 1 {
		t.Fatalf("failures length = %d, want 1", len(doc.Failures))
	}

	entry := doc.Failures[0]
	if entry.ID != "F001" {
		t.Errorf("entry id = %q, want F001", entry.ID)
	}
	if entry.Severity != SeverityCritical {
		t.Errorf("severity = %q, want critical", entry.Severity)
	}
	if entry.Oracle.Falsifiable == nil || !*entry.Oracle.Falsifiable {
		t.Error("oracle.falsifiable should decode to true")
	}
	if len(entry.Repro.Steps) != 2 {
		t.Errorf("repro steps = %d, want 2", len(entry.Repro.Steps))
	}
	if entry.EvidenceRequirement.Type != EvidenceIntegrationTest {
		t.Errorf("evidence type = %q, want integration_test", entry.EvidenceRequirement.Type)
	}
	if entry.Status.State != StateUnaddressed {
		t.Errorf("state = %q, want unaddressed", entry.Status.State)
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	if _, err := Unmarshal([]byte("{{not yaml")); err == nil {
		t.Error("Unmarshal of malformed input expected error, got nil")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failures.yaml")

	doc, err := Unmarshal([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	if err := Save(path, doc); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.Failures[0].ID != "F001" {
		t.Errorf("round-tripped entry id = %q, want F001", loaded.Failures[0].ID)
	}
	if loaded.Failures[0].Oracle.Condition != doc.Failures[0].Oracle.Condition {
		t.Error("round trip lost the oracle condition")
	}

	// Atomic save leaves no temp files behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries after save, want 1", len(entries))
	}
}

func TestSaveLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")

	doc, err := Unmarshal([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if err := Save(path, doc); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.Failures[0].EvidenceRequirement.Criteria != doc.Failures[0].EvidenceRequirement.Criteria {
		t.Error("JSON round trip lost the evidence criteria")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file expected error, got nil")
	}
}

func TestLedger_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discoveries.yaml")

	// Missing ledger is empty, not an error.
	discoveries, err := LoadLedger(path)
	if err != nil {
		t.Fatalf("LoadLedger() on missing file unexpected error: %v", err)
	}
	if len(discoveries) != 0 {
		t.Fatalf("missing ledger should be empty, got %d records", len(discoveries))
	}

	record := &Discovery{
		ID:           "D001",
		Description:  "refund path bypasses the audit log",
		DiscoveredBy: "verifier@example.com",
		Disposition:  DispositionPending,
	}
	if err := SaveLedger(path, []*Discovery{record}); err != nil {
		t.Fatalf("SaveLedger() unexpected error: %v", err)
	}

	loaded, err := LoadLedger(path)
	if err != nil {
		t.Fatalf("LoadLedger() unexpected error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "D001" {
		t.Fatalf("LoadLedger() = %+v, want one record D001", loaded)
	}
	if loaded[0].Disposition != DispositionPending {
		t.Errorf("disposition = %q, want pending", loaded[0].Disposition)
	}
}
