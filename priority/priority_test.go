package priority

import (
	"testing"

	"github.com/zero-day-ai/failspec/spec"
)

func entryWith(severity spec.Severity, likelihood spec.Likelihood, blast spec.BlastRadius, ease spec.VerificationEase) *spec.Entry {
	return &spec.Entry{
		ID:               "F001",
		Severity:         severity,
		Likelihood:       likelihood,
		BlastRadius:      blast,
		VerificationEase: ease,
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		entry *spec.Entry
		want  int
	}{
		{
			"critical high system hard",
			entryWith(spec.SeverityCritical, spec.LikelihoodHigh, spec.BlastSystem, spec.EaseHard),
			4325,
		},
		{
			"low low component trivial",
			entryWith(spec.SeverityLow, spec.LikelihoodLow, spec.BlastComponent, spec.EaseTrivial),
			1095,
		},
		{
			// 2*1000 + 2*100 + 2*10 - 2*5
			"missing optionals default to medium",
			entryWith(spec.SeverityMedium, "", "", ""),
			2210,
		},
		{
			"unrecognized values default, never error",
			entryWith("catastrophic", "certain", "planet", "impossible"),
			2210,
		},
		{
			"nil entry scores zero",
			nil,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.entry); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_HarderVerificationSortsEarlier(t *testing.T) {
	hard := entryWith(spec.SeverityHigh, spec.LikelihoodMedium, spec.BlastService, spec.EaseHard)
	trivial := entryWith(spec.SeverityHigh, spec.LikelihoodMedium, spec.BlastService, spec.EaseTrivial)

	if Score(hard) <= Score(trivial) {
		t.Errorf("hard-to-verify entry should outscore trivially verified twin: %d vs %d",
			Score(hard), Score(trivial))
	}
}

func TestRank_OrderAndTies(t *testing.T) {
	top := entryWith(spec.SeverityCritical, spec.LikelihoodHigh, spec.BlastSystem, spec.EaseHard)
	top.ID = "F003"
	bottom := entryWith(spec.SeverityLow, spec.LikelihoodLow, spec.BlastComponent, spec.EaseTrivial)
	bottom.ID = "F001"

	// Two identical entries: declaration order must break the tie.
	tieA := entryWith(spec.SeverityMedium, spec.LikelihoodMedium, spec.BlastService, spec.EaseModerate)
	tieA.ID = "F002"
	tieB := entryWith(spec.SeverityMedium, spec.LikelihoodMedium, spec.BlastService, spec.EaseModerate)
	tieB.ID = "F004"

	ranked := Rank([]*spec.Entry{bottom, tieA, top, tieB})

	gotOrder := []string{ranked[0].Entry.ID, ranked[1].Entry.ID, ranked[2].Entry.ID, ranked[3].Entry.ID}
	wantOrder := []string{"F003", "F002", "F004", "F001"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("rank order = %v, want %v", gotOrder, wantOrder)
		}
	}

	if ranked[0].Score != 4325 {
		t.Errorf("top score = %d, want 4325", ranked[0].Score)
	}
	if ranked[3].Score != 1095 {
		t.Errorf("bottom score = %d, want 1095", ranked[3].Score)
	}
}

func TestWeights_Configurable(t *testing.T) {
	w := DefaultWeights()
	w.Severity[spec.SeverityCritical] = 10

	entry := entryWith(spec.SeverityCritical, spec.LikelihoodLow, spec.BlastComponent, spec.EaseModerate)
	if got := w.Score(entry); got != 10*1000+100+10-10 {
		t.Errorf("custom weights Score() = %d, want %d", got, 10100)
	}
}
