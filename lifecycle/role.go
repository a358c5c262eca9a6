package lifecycle

import "fmt"

// Role is the permission tag an actor presents with every operation. Roles
// are checked against the transition table; they are not modeled as distinct
// types.
type Role string

const (
	// RoleAdversary authors failure entries before the document freezes.
	RoleAdversary Role = "adversary"

	// RoleBuilder implements guardrails: starts work and claims fixes.
	RoleBuilder Role = "builder"

	// RoleVerifier independently verifies or rejects claimed fixes.
	RoleVerifier Role = "verifier"

	// RoleResolver is the human authority that may accept a failure mode
	// as a known risk.
	RoleResolver Role = "resolver"
)

// IsValid returns true if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdversary, RoleBuilder, RoleVerifier, RoleResolver:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role value.
// Returns an error if the string is not a valid role.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}

// AllRoles returns all valid roles.
func AllRoles() []Role {
	return []Role{RoleAdversary, RoleBuilder, RoleVerifier, RoleResolver}
}
