package evidence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// locationPattern matches the path[:start[-end]] addressing convention.
var locationPattern = regexp.MustCompile(`^(.+?)(?::(\d+)(?:-(\d+))?)?$`)

// Location addresses a guardrail implementation: a file path with an
// optional 1-based line range, written path[:start[-end]].
type Location struct {
	// Path is the file path, relative to the workspace root unless it
	// denotes an external dependency.
	Path string

	// Start is the first line of the range, or 0 when no range was given.
	Start int

	// End is the last line of the range, or 0 when the range is a single
	// line or absent.
	End int
}

// HasRange returns true if the location carries a line range.
func (l Location) HasRange() bool {
	return l.Start > 0
}

// String renders the location back in path[:start[-end]] form.
func (l Location) String() string {
	switch {
	case l.End > 0:
		return fmt.Sprintf("%s:%d-%d", l.Path, l.Start, l.End)
	case l.Start > 0:
		return fmt.Sprintf("%s:%d", l.Path, l.Start)
	default:
		return l.Path
	}
}

// ParseLocation parses the path[:start[-end]] addressing convention.
// Returns an error for empty input or an inverted range.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, fmt.Errorf("location is empty")
	}

	m := locationPattern.FindStringSubmatch(s)
	if m == nil {
		return Location{}, fmt.Errorf("malformed location %q", s)
	}

	loc := Location{Path: m[1]}
	if m[2] != "" {
		start, err := strconv.Atoi(m[2])
		if err != nil || start < 1 {
			return Location{}, fmt.Errorf("invalid start line in %q", s)
		}
		loc.Start = start
	}
	if m[3] != "" {
		end, err := strconv.Atoi(m[3])
		if err != nil || end < 1 {
			return Location{}, fmt.Errorf("invalid end line in %q", s)
		}
		if end < loc.Start {
			return Location{}, fmt.Errorf("inverted line range in %q", s)
		}
		loc.End = end
	}

	return loc, nil
}

// externalPrefixes mark locations that denote dependencies outside the
// workspace. Inspecting them proves nothing about this codebase, so the
// inspection strategy passes them trivially with a note that independent
// verification is still owed.
var externalPrefixes = []string{
	"vendor/",
	"third_party/",
	"node_modules/",
	"external:",
	"infra:",
}

// IsExternal returns true if the location denotes an external or
// infrastructure dependency rather than workspace code.
func (l Location) IsExternal() bool {
	if strings.Contains(l.Path, "://") {
		return true
	}
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(l.Path, prefix) {
			return true
		}
	}
	return false
}
