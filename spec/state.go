package spec

import "fmt"

// State represents the lifecycle state of a failure entry.
type State string

const (
	// StateUnaddressed indicates no mitigation work has started. This is the
	// initial state of every entry.
	StateUnaddressed State = "unaddressed"

	// StateInProgress indicates a builder is actively working on a guardrail.
	StateInProgress State = "in_progress"

	// StateClaimed indicates a builder claims the guardrail is in place and
	// the entry is awaiting independent verification.
	StateClaimed State = "claimed"

	// StateVerified indicates a verifier substantiated the claim with
	// captured evidence. Terminal.
	StateVerified State = "verified"

	// StateRejected records a verifier rejecting a claim. The state is
	// transient: a rejection is recorded in history and the entry
	// immediately resolves back to unaddressed.
	StateRejected State = "rejected"

	// StateAcceptedRisk indicates a human resolver accepted the failure mode
	// as a known risk. Terminal.
	StateAcceptedRisk State = "accepted_risk"
)

// IsValid returns true if the state is valid.
func (s State) IsValid() bool {
	switch s {
	case StateUnaddressed,
		StateInProgress,
		StateClaimed,
		StateVerified,
		StateRejected,
		StateAcceptedRisk:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are allowed out of the
// state.
func (s State) IsTerminal() bool {
	return s == StateVerified || s == StateAcceptedRisk
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// DisplayName returns a human-readable display name for the state.
func (s State) DisplayName() string {
	switch s {
	case StateUnaddressed:
		return "Unaddressed"
	case StateInProgress:
		return "In Progress"
	case StateClaimed:
		return "Claimed"
	case StateVerified:
		return "Verified"
	case StateRejected:
		return "Rejected"
	case StateAcceptedRisk:
		return "Accepted Risk"
	default:
		return string(s)
	}
}

// ParseState parses a string into a State value.
// Returns an error if the string is not a valid state.
func ParseState(s string) (State, error) {
	state := State(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid state: %s", s)
	}
	return state, nil
}

// AllStates returns all valid states in lifecycle order.
func AllStates() []State {
	return []State{
		StateUnaddressed,
		StateInProgress,
		StateClaimed,
		StateVerified,
		StateRejected,
		StateAcceptedRisk,
	}
}
