package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	trailingSentence = regexp.MustCompile(`[?!.]+$`)
	// Abbreviations expand only as whole words. The boundary classes match
	// the ones in rules.go; \b would treat Vietnamese letters as boundaries.
	abbrevAC = regexp.MustCompile(`(^|[^\p{L}\p{N}_])ac($|[^\p{L}\p{N}_])`)
	abbrevTV = regexp.MustCompile(`(^|[^\p{L}\p{N}_])tv($|[^\p{L}\p{N}_])`)
)

// Normalize canonicalizes raw query text: lower-case, collapse whitespace
// runs to a single space, strip trailing sentence punctuation, and expand
// known appliance abbreviations as whole words. Total on any input and
// idempotent.
func Normalize(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")
	normalized = trailingSentence.ReplaceAllString(normalized, "")

	normalized = abbrevAC.ReplaceAllString(normalized, "${1}air conditioner${2}")
	normalized = abbrevTV.ReplaceAllString(normalized, "${1}television${2}")
	return normalized
}

// Fingerprint returns the stable cache key for a query: the hex form of the
// first 16 bytes of the SHA-256 digest of its normalized text. Queries that
// differ only in case, whitespace, trailing punctuation, or covered
// abbreviations share a fingerprint. Distinct queries colliding on the hash
// would share a cached answer; that approximation is accepted.
func Fingerprint(query string) string {
	sum := sha256.Sum256([]byte(Normalize(query)))
	return hex.EncodeToString(sum[:16])
}
