package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zero-day-ai/failspec/spec"
)

// DefaultInspectWindow is the number of lines read when the guardrail
// location gives a start line but no end.
const DefaultInspectWindow = 40

// InspectStrategy substantiates inspection evidence requirements by reading
// the guardrail implementation at its recorded location and returning the
// indicated lines as evidence.
//
// Locations denoting external or infrastructure dependencies pass trivially
// with a note that independent verification is still owed; there is nothing
// in the workspace to read. A missing or unreadable artifact is a failure.
type InspectStrategy struct{}

// Name returns the strategy identifier.
func (s *InspectStrategy) Name() string { return "inspection" }

// Collect reads the guardrail location and returns the addressed lines.
func (s *InspectStrategy) Collect(_ context.Context, entry *spec.Entry, workspace string) Result {
	guardrail := entry.Status.Guardrail
	if guardrail == nil || strings.TrimSpace(guardrail.Location) == "" {
		return Result{
			Method: s.Name(),
			Error:  "inspection requires a guardrail location of the form path[:start[-end]]",
		}
	}

	loc, err := ParseLocation(guardrail.Location)
	if err != nil {
		return Result{
			Method: s.Name(),
			Error:  fmt.Sprintf("bad guardrail location: %v", err),
		}
	}

	if loc.IsExternal() {
		note := fmt.Sprintf("guardrail lives in external dependency %s; independent verification is still owed", loc.Path)
		return Result{
			Success:             true,
			Method:              s.Name(),
			Evidence:            note,
			EvidenceFingerprint: Fingerprint([]byte(note)),
		}
	}

	path := loc.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{
			Method: s.Name(),
			Error:  fmt.Sprintf("could not read guardrail artifact %s: %v", loc.Path, err),
		}
	}

	snippet, err := extractWindow(data, loc)
	if err != nil {
		return Result{
			Method: s.Name(),
			Error:  fmt.Sprintf("could not extract %s: %v", loc, err),
		}
	}

	return Result{
		Success:             true,
		Method:              s.Name(),
		Evidence:            Truncate(snippet),
		EvidenceFingerprint: Fingerprint([]byte(snippet)),
	}
}

// extractWindow returns the lines the location addresses: the exact range,
// a DefaultInspectWindow-line window from start when no end is given, or a
// bounded prefix of the file when no range is given at all.
func extractWindow(data []byte, loc Location) (string, error) {
	lines := strings.Split(string(data), "\n")

	if !loc.HasRange() {
		end := len(lines)
		if end > DefaultInspectWindow {
			end = DefaultInspectWindow
		}
		return strings.Join(lines[:end], "\n"), nil
	}

	if loc.Start > len(lines) {
		return "", fmt.Errorf("start line %d past end of file (%d lines)", loc.Start, len(lines))
	}

	end := loc.End
	if end == 0 {
		end = loc.Start + DefaultInspectWindow - 1
	}
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[loc.Start-1:end], "\n"), nil
}
