package spec

import "fmt"

// Ownership indicates which team carries responsibility for a failure mode.
type Ownership string

const (
	// OwnershipOwned indicates the failure mode lives in code this feature
	// owns directly.
	OwnershipOwned Ownership = "owned"

	// OwnershipInherited indicates the failure mode is inherited from
	// another component. Entries with inherited ownership must name the
	// source in InheritedFrom.
	OwnershipInherited Ownership = "inherited"

	// OwnershipIntegration indicates the failure mode arises at an
	// integration boundary between components.
	OwnershipIntegration Ownership = "integration"
)

// IsValid returns true if the ownership value is valid.
func (o Ownership) IsValid() bool {
	switch o {
	case OwnershipOwned, OwnershipInherited, OwnershipIntegration:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ownership value.
func (o Ownership) String() string {
	return string(o)
}

// ParseOwnership parses a string into an Ownership value.
// Returns an error if the string is not a valid ownership value.
func ParseOwnership(s string) (Ownership, error) {
	ownership := Ownership(s)
	if !ownership.IsValid() {
		return "", fmt.Errorf("invalid ownership: %s", s)
	}
	return ownership, nil
}

// AllOwnerships returns all valid ownership values.
func AllOwnerships() []Ownership {
	return []Ownership{OwnershipOwned, OwnershipInherited, OwnershipIntegration}
}

// Likelihood estimates how probable a failure mode is in practice. Optional
// on an entry; the priority calculator substitutes a medium default when
// absent.
type Likelihood string

const (
	// LikelihoodHigh indicates the failure is expected under normal use.
	LikelihoodHigh Likelihood = "high"

	// LikelihoodMedium indicates the failure needs unusual but plausible
	// conditions.
	LikelihoodMedium Likelihood = "medium"

	// LikelihoodLow indicates the failure needs rare conditions.
	LikelihoodLow Likelihood = "low"
)

// IsValid returns true if the likelihood value is valid.
func (l Likelihood) IsValid() bool {
	switch l {
	case LikelihoodHigh, LikelihoodMedium, LikelihoodLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the likelihood value.
func (l Likelihood) String() string {
	return string(l)
}

// BlastRadius estimates how far the effects of a failure mode reach.
// Optional on an entry; the priority calculator substitutes a medium-
// equivalent default when absent.
type BlastRadius string

const (
	// BlastSystem indicates the failure affects the whole system.
	BlastSystem BlastRadius = "system"

	// BlastService indicates the failure is contained to one service.
	BlastService BlastRadius = "service"

	// BlastComponent indicates the failure is contained to one component.
	BlastComponent BlastRadius = "component"
)

// IsValid returns true if the blast radius value is valid.
func (b BlastRadius) IsValid() bool {
	switch b {
	case BlastSystem, BlastService, BlastComponent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the blast radius value.
func (b BlastRadius) String() string {
	return string(b)
}

// VerificationEase estimates how hard the evidence requirement is to satisfy.
// Optional on an entry; the priority calculator substitutes a medium default
// when absent. Harder-to-verify entries deliberately sort earlier.
type VerificationEase string

const (
	// EaseTrivial indicates evidence is cheap to produce.
	EaseTrivial VerificationEase = "trivial"

	// EaseModerate indicates evidence takes deliberate effort.
	EaseModerate VerificationEase = "moderate"

	// EaseHard indicates evidence is expensive or slow to produce.
	EaseHard VerificationEase = "hard"
)

// IsValid returns true if the verification ease value is valid.
func (v VerificationEase) IsValid() bool {
	switch v {
	case EaseTrivial, EaseModerate, EaseHard:
		return true
	default:
		return false
	}
}

// String returns the string representation of the verification ease value.
func (v VerificationEase) String() string {
	return string(v)
}
