// Package priority computes a deterministic remediation priority over
// failure entries.
//
// The score is a weighted sum with a deliberately negative verification-ease
// term: entries whose evidence is hard to produce sort earlier, so the most
// evidentially demanding work is not deferred to the end. The weights are an
// unvalidated heuristic and are kept as configurable constants rather than
// being corrected.
package priority

import (
	"sort"

	"github.com/zero-day-ai/failspec/spec"
)

// Weights holds the scoring constants. The zero value is unusable; start
// from DefaultWeights and adjust.
type Weights struct {
	// Severity maps severity to its weight, scaled by 1000 in the score.
	Severity map[spec.Severity]int

	// Likelihood maps likelihood to its weight, scaled by 100.
	Likelihood map[spec.Likelihood]int

	// BlastRadius maps blast radius to its weight, scaled by 10.
	BlastRadius map[spec.BlastRadius]int

	// VerificationEase maps ease to its weight, scaled by 5 and subtracted:
	// easier verification lowers the priority.
	VerificationEase map[spec.VerificationEase]int

	// Defaults substitute for missing or unrecognized optional attributes.
	// Missing attributes never error; they score as medium-equivalent.
	DefaultSeverity         int
	DefaultLikelihood       int
	DefaultBlastRadius      int
	DefaultVerificationEase int
}

// DefaultWeights returns the standard scoring constants.
func DefaultWeights() Weights {
	return Weights{
		Severity: map[spec.Severity]int{
			spec.SeverityCritical: 4,
			spec.SeverityHigh:     3,
			spec.SeverityMedium:   2,
			spec.SeverityLow:      1,
		},
		Likelihood: map[spec.Likelihood]int{
			spec.LikelihoodHigh:   3,
			spec.LikelihoodMedium: 2,
			spec.LikelihoodLow:    1,
		},
		BlastRadius: map[spec.BlastRadius]int{
			spec.BlastSystem:    3,
			spec.BlastService:   2,
			spec.BlastComponent: 1,
		},
		VerificationEase: map[spec.VerificationEase]int{
			spec.EaseTrivial:  3,
			spec.EaseModerate: 2,
			spec.EaseHard:     1,
		},
		DefaultSeverity:         2,
		DefaultLikelihood:       2,
		DefaultBlastRadius:      2,
		DefaultVerificationEase: 2,
	}
}

// Score computes the remediation priority of one entry under the default
// weights. Pure: the entry is never mutated and equal inputs always produce
// equal scores.
func Score(entry *spec.Entry) int {
	return DefaultWeights().Score(entry)
}

// Score computes the remediation priority of one entry:
//
//	severity*1000 + likelihood*100 + blast_radius*10 - verification_ease*5
func (w Weights) Score(entry *spec.Entry) int {
	if entry == nil {
		return 0
	}

	severity, ok := w.Severity[entry.Severity]
	if !ok {
		severity = w.DefaultSeverity
	}
	likelihood, ok := w.Likelihood[entry.Likelihood]
	if !ok {
		likelihood = w.DefaultLikelihood
	}
	blast, ok := w.BlastRadius[entry.BlastRadius]
	if !ok {
		blast = w.DefaultBlastRadius
	}
	ease, ok := w.VerificationEase[entry.VerificationEase]
	if !ok {
		ease = w.DefaultVerificationEase
	}

	return severity*1000 + likelihood*100 + blast*10 - ease*5
}

// Ranked pairs an entry with its computed score.
type Ranked struct {
	// Entry is the scored entry.
	Entry *spec.Entry

	// Score is the computed priority.
	Score int
}

// Rank returns the entries ordered by descending score under the default
// weights. Ties keep their original declaration order.
func Rank(entries []*spec.Entry) []Ranked {
	return DefaultWeights().Rank(entries)
}

// Rank returns the entries ordered by descending score. Ties keep their
// original declaration order; the input slice is not modified.
func (w Weights) Rank(entries []*spec.Entry) []Ranked {
	ranked := make([]Ranked, 0, len(entries))
	for _, entry := range entries {
		ranked = append(ranked, Ranked{Entry: entry, Score: w.Score(entry)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
