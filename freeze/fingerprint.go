package freeze

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zero-day-ai/failspec/exec"
	"github.com/zero-day-ai/failspec/spec"
)

// structuralView is the frozen portion of an entry: everything except the
// status record. Serialized canonically for fingerprinting, so two entries
// differing only in status hash identically.
type structuralView struct {
	ID                  string                   `json:"id"`
	Title               string                   `json:"title"`
	Severity            spec.Severity            `json:"severity"`
	Oracle              spec.Oracle              `json:"oracle"`
	Repro               spec.Repro               `json:"repro"`
	EvidenceRequirement spec.EvidenceRequirement `json:"evidence_requirement"`
	Impact              string                   `json:"impact,omitempty"`
	Likelihood          spec.Likelihood          `json:"likelihood,omitempty"`
	BlastRadius         spec.BlastRadius         `json:"blast_radius,omitempty"`
	VerificationEase    spec.VerificationEase    `json:"verification_ease,omitempty"`
	Category            string                   `json:"category,omitempty"`
	Detection           string                   `json:"detection,omitempty"`
	Ownership           spec.Ownership           `json:"ownership,omitempty"`
	InheritedFrom       string                   `json:"inherited_from,omitempty"`
}

// StructuralFingerprint hashes the structural fields of an entry. Status
// changes do not alter the fingerprint.
func StructuralFingerprint(entry *spec.Entry) string {
	if entry == nil {
		return ""
	}
	view := structuralView{
		ID:                  entry.ID,
		Title:               entry.Title,
		Severity:            entry.Severity,
		Oracle:              entry.Oracle,
		Repro:               entry.Repro,
		EvidenceRequirement: entry.EvidenceRequirement,
		Impact:              entry.Impact,
		Likelihood:          entry.Likelihood,
		BlastRadius:         entry.BlastRadius,
		VerificationEase:    entry.VerificationEase,
		Category:            entry.Category,
		Detection:           entry.Detection,
		Ownership:           entry.Ownership,
		InheritedFrom:       entry.InheritedFrom,
	}
	// Field order in the struct fixes the serialization, so the hash is
	// stable across runs.
	data, err := json.Marshal(view)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// gitTimeout bounds the provenance lookup; rev-parse is local and fast.
const gitTimeout = 5 * time.Second

// GitFingerprint derives a provenance token from the workspace: the HEAD
// commit hash. Returns an error when the workspace is not a git checkout or
// git is unavailable; callers fall back to an empty fingerprint.
func GitFingerprint(ctx context.Context, workspace string) (string, error) {
	if !exec.BinaryExists("git") {
		return "", fmt.Errorf("git not found in PATH")
	}

	capture, err := exec.Run(ctx, exec.Command{
		Path:    "git",
		Args:    []string{"rev-parse", "HEAD"},
		Dir:     workspace,
		Timeout: gitTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("run git rev-parse: %w", err)
	}
	if !capture.Ok() {
		return "", fmt.Errorf("git rev-parse failed: %s", strings.TrimSpace(string(capture.Output)))
	}

	hash := strings.TrimSpace(string(capture.Output))
	if hash == "" {
		return "", fmt.Errorf("git rev-parse returned no output")
	}
	return hash, nil
}
