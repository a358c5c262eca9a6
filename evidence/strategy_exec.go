package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/zero-day-ai/failspec/exec"
	"github.com/zero-day-ai/failspec/spec"
)

// goTestPattern extracts a Go test identifier from the criteria text, e.g.
// "TestChargeIdempotency passes".
var goTestPattern = regexp.MustCompile(`\bTest[A-Z]\w*\b`)

// testArtifactDirs are searched, in order, for a script named after the
// entry id (F001.sh, f001.sh).
var testArtifactDirs = []string{"tests", "test", "scripts"}

// ExecStrategy substantiates executable evidence requirements by running a
// test artifact and demanding a zero exit status.
//
// The artifact is located two ways, in order:
//  1. a Go test identifier parsed from the criteria text, run via
//     "go test -run <name> ./..." in the workspace;
//  2. a script named after the entry id under tests/, test/, or scripts/.
//
// No artifact means failure: a claim with nothing runnable behind it cannot
// be verified automatically.
type ExecStrategy struct {
	// Timeout bounds each run. Zero means exec.DefaultTimeout.
	Timeout time.Duration
}

// Name returns the strategy identifier.
func (s *ExecStrategy) Name() string { return "executable_test" }

// Collect locates and runs the test artifact for the entry.
func (s *ExecStrategy) Collect(ctx context.Context, entry *spec.Entry, workspace string) Result {
	cmd, desc, found := s.locate(entry, workspace)
	if !found {
		return Result{
			Method: s.Name(),
			Error: fmt.Sprintf("no test artifact found for %s: name a Test function in the criteria or add a script under %s",
				entry.ID, strings.Join(testArtifactDirs, "/, ")+"/"),
		}
	}

	capture, err := exec.Run(ctx, cmd)
	if err != nil {
		return Result{
			Method: s.Name(),
			Error:  fmt.Sprintf("could not run %s: %v", desc, err),
		}
	}

	output := string(capture.Output)
	result := Result{
		Method:              s.Name(),
		Evidence:            Truncate(output),
		EvidenceFingerprint: Fingerprint(capture.Output),
	}

	switch {
	case capture.TimedOut:
		result.Error = fmt.Sprintf("%s timed out after %s", desc, capture.Duration.Round(time.Millisecond))
	case capture.ExitCode != 0:
		result.Error = fmt.Sprintf("%s exited with status %d", desc, capture.ExitCode)
	default:
		result.Success = true
	}
	return result
}

// locate resolves the test artifact for the entry. The boolean reports
// whether anything runnable was found.
func (s *ExecStrategy) locate(entry *spec.Entry, workspace string) (exec.Command, string, bool) {
	if name := goTestPattern.FindString(entry.EvidenceRequirement.Criteria); name != "" {
		return exec.Command{
			Path:    "go",
			Args:    []string{"test", "-run", "^" + name + "$", "./..."},
			Dir:     workspace,
			Timeout: s.Timeout,
		}, fmt.Sprintf("go test -run %s", name), true
	}

	for _, dir := range testArtifactDirs {
		for _, base := range []string{entry.ID + ".sh", strings.ToLower(entry.ID) + ".sh"} {
			script := filepath.Join(workspace, dir, base)
			if info, err := os.Stat(script); err == nil && !info.IsDir() {
				return exec.Command{
					Path:    "sh",
					Args:    []string{script},
					Dir:     workspace,
					Timeout: s.Timeout,
				}, filepath.Join(dir, base), true
			}
		}
	}

	return exec.Command{}, "", false
}
