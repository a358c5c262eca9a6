package lifecycle

import "strings"

// automatedFragments are case-insensitive substrings that mark an identity
// as automated. Risk acceptance is a human decision; an agent must not be
// able to accept its own residual risk.
var automatedFragments = []string{
	"agent",
	"bot",
	"ai",
	"claude",
	"gpt",
	"assistant",
}

// AutomatedIdentity returns the fragment that makes identity look automated,
// or "" when the identity passes as human.
func AutomatedIdentity(identity string) string {
	lower := strings.ToLower(identity)
	for _, fragment := range automatedFragments {
		if strings.Contains(lower, fragment) {
			return fragment
		}
	}
	return ""
}
