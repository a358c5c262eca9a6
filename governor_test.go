package failspec

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/failspec/freeze"
	"github.com/zero-day-ai/failspec/lifecycle"
	"github.com/zero-day-ai/failspec/spec"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

var testTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGovernor(t *testing.T, opts ...GovernorOption) *Governor {
	t.Helper()

	base := []GovernorOption{
		WithClock(&fakeClock{now: testTime}),
		WithLogger(quietLogger()),
		// An empty scratch workspace keeps evidence runs away from the
		// real source tree.
		WithWorkspace(t.TempDir()),
	}
	gov, err := NewGovernor(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gov.Close() })
	return gov
}

func sampleEntry(id string) *spec.Entry {
	return &spec.Entry{
		ID:       id,
		Title:    "payment applied twice on retry",
		Severity: spec.SeverityCritical,
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
	}
}

func sampleGuardrail() spec.Guardrail {
	return spec.Guardrail{
		Design:        "idempotency key on the charge endpoint",
		Location:      "internal/payment/charge.go:42-80",
		ImplementedBy: "builder@example.com",
	}
}

// seededGovernor returns a governor holding a document with one entry.
func seededGovernor(t *testing.T, opts ...GovernorOption) *Governor {
	t.Helper()

	gov := testGovernor(t, opts...)
	require.NoError(t, gov.Init("checkout", "adversary@example.com"))
	require.NoError(t, gov.AddEntry(context.Background(), sampleEntry(""), "adversary@example.com", lifecycle.RoleAdversary))
	return gov
}

func TestGovernor_InitAndAddEntry(t *testing.T) {
	gov := seededGovernor(t)

	doc := gov.Document()
	require.NotNil(t, doc)
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, "F001", doc.Failures[0].ID, "empty id gets the next F### in sequence")

	require.NoError(t, gov.AddEntry(context.Background(), sampleEntry(""), "adversary@example.com", lifecycle.RoleAdversary))
	assert.Equal(t, "F002", gov.Document().Failures[1].ID)
}

func TestGovernor_AddEntryRejectsInvalid(t *testing.T) {
	gov := testGovernor(t)
	require.NoError(t, gov.Init("checkout", "adversary@example.com"))

	bad := sampleEntry("")
	bad.Oracle.Condition = "should be secure"

	err := gov.AddEntry(context.Background(), bad, "adversary@example.com", lifecycle.RoleAdversary)
	assert.True(t, IsKind(err, KindSchema))
}

func TestGovernor_EntryWritesRequireAdversaryRole(t *testing.T) {
	gov := seededGovernor(t)
	ctx := context.Background()

	for _, role := range []lifecycle.Role{lifecycle.RoleBuilder, lifecycle.RoleVerifier, lifecycle.RoleResolver, ""} {
		err := gov.AddEntry(ctx, sampleEntry(""), "someone@example.com", role)
		assert.True(t, IsKind(err, KindGuard), "AddEntry as %q", role)
		assert.ErrorIs(t, err, ErrRoleDenied)

		edited := sampleEntry("F001")
		edited.Title = "retitled"
		err = gov.UpdateEntry(ctx, edited, "someone@example.com", role)
		assert.True(t, IsKind(err, KindGuard), "UpdateEntry as %q", role)
		assert.ErrorIs(t, err, ErrRoleDenied)
	}

	// The denied writes must not have touched the document.
	doc := gov.Document()
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, "payment applied twice on retry", doc.Failures[0].Title)
}

func TestGovernor_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failspec.yaml")

	gov := seededGovernor(t)
	require.NoError(t, gov.SaveAs(path))

	reloaded := testGovernor(t)
	require.NoError(t, reloaded.Load(path))

	doc := reloaded.Document()
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, "checkout", doc.Metadata.Feature)
}

func TestGovernor_LifecycleFlow(t *testing.T) {
	gov := seededGovernor(t)
	ctx := context.Background()

	require.NoError(t, gov.Claim("F001", "builder@example.com", lifecycle.RoleBuilder, sampleGuardrail()))

	entry := gov.Document().FindEntry("F001")
	assert.Equal(t, spec.StateClaimed, entry.Status.State)
	assert.Len(t, entry.Status.History, 2, "claim from unaddressed records both hops")

	require.NoError(t, gov.Verify(ctx, "F001", "verifier@example.com", lifecycle.RoleVerifier, "test passed", ""))

	entry = gov.Document().FindEntry("F001")
	assert.Equal(t, spec.StateVerified, entry.Status.State)
	assert.Equal(t, "test passed", entry.Status.Verification.Evidence)
	assert.True(t, gov.Complete())
}

func TestGovernor_RejectFlow(t *testing.T) {
	gov := seededGovernor(t)

	require.NoError(t, gov.Claim("F001", "builder@example.com", lifecycle.RoleBuilder, sampleGuardrail()))
	require.NoError(t, gov.Reject("F001", "verifier@example.com", lifecycle.RoleVerifier, "bypass still works"))

	entry := gov.Document().FindEntry("F001")
	assert.Equal(t, spec.StateUnaddressed, entry.Status.State)
	assert.Equal(t, "bypass still works", entry.Status.Rejection.Reason)
	assert.NotNil(t, entry.Status.Guardrail)
}

func TestGovernor_ErrorKinds(t *testing.T) {
	gov := seededGovernor(t)
	ctx := context.Background()

	err := gov.Claim("F999", "builder@example.com", lifecycle.RoleBuilder, sampleGuardrail())
	assert.True(t, IsKind(err, KindNotFound))
	assert.ErrorIs(t, err, ErrEntryNotFound)

	err = gov.Verify(ctx, "F001", "verifier@example.com", lifecycle.RoleVerifier, "evidence", "")
	assert.True(t, IsKind(err, KindGuard), "verify before claim breaks a guard")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = gov.AcceptRisk("F001", lifecycle.RoleResolver, "reason", "agent-007", "")
	assert.True(t, IsKind(err, KindAuthority))
	assert.ErrorIs(t, err, ErrAutomatedIdentity)

	require.NoError(t, gov.Claim("F001", "builder@example.com", lifecycle.RoleBuilder, sampleGuardrail()))
	err = gov.Verify(ctx, "F001", "verifier@example.com", lifecycle.RoleVerifier, "  ", "")
	assert.True(t, IsKind(err, KindEvidence))
	assert.ErrorIs(t, err, ErrNoEvidence)
}

func TestGovernor_FreezeAndGuard(t *testing.T) {
	gov := seededGovernor(t)
	ctx := context.Background()

	require.NoError(t, gov.Freeze(ctx, "abc123"))

	doc := gov.Document()
	assert.True(t, doc.IsFrozen())
	assert.Equal(t, "abc123", doc.Metadata.FrozenFingerprint)

	// Freezing twice is an immutability error.
	err := gov.Freeze(ctx, "def456")
	assert.True(t, IsKind(err, KindImmutability))
	assert.ErrorIs(t, err, ErrAlreadyFrozen)

	// Structural edits are blocked.
	edited := sampleEntry("F001")
	edited.Title = "edited after freeze"
	err = gov.UpdateEntry(ctx, edited, "adversary@example.com", lifecycle.RoleAdversary)
	assert.True(t, IsKind(err, KindImmutability))
	assert.ErrorIs(t, err, ErrDocumentFrozen)

	// New entries are blocked.
	err = gov.AddEntry(ctx, sampleEntry(""), "adversary@example.com", lifecycle.RoleAdversary)
	assert.True(t, IsKind(err, KindImmutability))

	// Lifecycle writes still pass: they touch only the status record.
	require.NoError(t, gov.Claim("F001", "builder@example.com", lifecycle.RoleBuilder, sampleGuardrail()))
}

func TestGovernor_RedirectPolicyRecordsDiscovery(t *testing.T) {
	gov := seededGovernor(t, WithGuardPolicy(freeze.PolicyRedirect))
	ctx := context.Background()

	require.NoError(t, gov.Freeze(ctx, "abc123"))

	edited := sampleEntry("F001")
	edited.Title = "edited after freeze"
	err := gov.UpdateEntry(ctx, edited, "adversary@example.com", lifecycle.RoleAdversary)
	assert.True(t, IsKind(err, KindImmutability))

	all, err := gov.Discoveries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "D001", all[0].ID)
	assert.Equal(t, "adversary@example.com", all[0].DiscoveredBy)
}

func TestGovernor_DiscoverAndDispose(t *testing.T) {
	gov := seededGovernor(t)
	ctx := context.Background()

	d, err := gov.Discover(ctx, "race in refund path", "verifier@example.com")
	require.NoError(t, err)
	assert.Equal(t, "D001", d.ID)
	assert.Equal(t, testTime, d.DiscoveredAt)

	updated, err := gov.SetDisposition(ctx, d.ID, spec.DispositionAddToNext)
	require.NoError(t, err)
	assert.Equal(t, spec.DispositionAddToNext, updated.Disposition)

	_, err = gov.SetDisposition(ctx, "D999", spec.DispositionDuplicate)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestGovernor_Rank(t *testing.T) {
	gov := seededGovernor(t)

	low := sampleEntry("")
	low.Severity = spec.SeverityLow
	require.NoError(t, gov.AddEntry(context.Background(), low, "adversary@example.com", lifecycle.RoleAdversary))

	ranked := gov.Rank()
	require.Len(t, ranked, 2)
	assert.Equal(t, "F001", ranked[0].Entry.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestGovernor_Report(t *testing.T) {
	gov := seededGovernor(t)
	ctx := context.Background()

	_, err := gov.Discover(ctx, "race in refund path", "verifier@example.com")
	require.NoError(t, err)

	summary, err := gov.Report(ctx)
	require.NoError(t, err)

	assert.Equal(t, "checkout", summary.Feature)
	assert.False(t, summary.Frozen)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Counts[spec.StateUnaddressed])
	assert.False(t, summary.Complete)
	assert.Equal(t, 1, summary.PendingDiscoveries)

	text := summary.String()
	assert.Contains(t, text, "feature: checkout")
	assert.Contains(t, text, "unaddressed: 1")
}

func TestGovernor_ConfigurationErrors(t *testing.T) {
	_, err := NewGovernor(WithGuardPolicy("strict"))
	assert.True(t, IsKind(err, KindConfiguration))

	_, err = NewGovernor(WithEvidenceTimeout(-time.Second))
	assert.True(t, IsKind(err, KindConfiguration))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGovernor_NoDocumentLoaded(t *testing.T) {
	gov := testGovernor(t)

	assert.Nil(t, gov.Document())
	assert.False(t, gov.Validate().Valid())
	assert.True(t, IsKind(gov.Save(), KindConfiguration))
	assert.True(t, IsKind(gov.Freeze(context.Background(), ""), KindNotFound))
	assert.True(t, IsKind(gov.Claim("F001", "b@example.com", lifecycle.RoleBuilder, sampleGuardrail()), KindNotFound))
}
