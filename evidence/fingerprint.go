package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode/utf8"
)

// MaxEvidenceLength bounds the evidence string stored on a result. The
// fingerprint is always computed over the full output before truncation.
const MaxEvidenceLength = 2000

// Fingerprint returns the hex-encoded SHA-256 hash of data. A fixed-length
// content hash binds a verification claim to the specific captured output.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Truncate bounds s to MaxEvidenceLength, marking the cut when one happens.
// The cut lands on a rune boundary so multi-byte output is never split into
// invalid UTF-8.
func Truncate(s string) string {
	if len(s) <= MaxEvidenceLength {
		return s
	}
	const marker = "\n... [truncated]"
	cut := MaxEvidenceLength - len(marker)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + marker
}
