package evidence

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/failspec/spec"
)

// ManualStrategy handles evidence types that require human judgment, and
// doubles as the fallback for unrecognized types. It always fails: a human
// review cannot be captured automatically, and an unknown requirement must
// never pass by default.
type ManualStrategy struct{}

// Name returns the strategy identifier.
func (s *ManualStrategy) Name() string { return "manual" }

// Collect always returns a failed result directing the claim to a human.
func (s *ManualStrategy) Collect(_ context.Context, entry *spec.Entry, _ string) Result {
	return Result{
		Method: s.Name(),
		Error: fmt.Sprintf("evidence type %q requires human verification and cannot be captured automatically",
			entry.EvidenceRequirement.Type),
	}
}
