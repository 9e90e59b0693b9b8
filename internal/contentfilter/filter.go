// Package contentfilter screens user messages for profanity and other
// inappropriate content before they reach the response pipeline.
package contentfilter

import (
	"regexp"
	"strings"
)

// blockedTerms covers Vietnamese and English profanity, slurs, and
// derogatory terms, in their common abbreviated forms as well.
var blockedTerms = []string{
	"đmm", "dmm", "đm", "dm", "vcl", "vkl", "cc", "clmm", "clm",
	"đcm", "dcm", "đcmm", "dcmm", "mlb", "đb", "db",
	"cặc", "lồn", "buồi", "đéo", "deo",
	"shit", "fuck", "damn", "bitch", "asshole",
	"stupid", "idiot", "moron", "retard",
	"gay", "lesbian",
	"ngu", "đần", "khùng", "điên",
	"mất dạy", "vô học", "thô lỗ",
	"chó", "lợn", "heo", "súc vật",
	"con đĩ", "đĩ", "cave", "gái bán hoa",
}

// obfuscation maps symbol-masked spellings back to the canonical term,
// e.g. "d*m" or "v@#l".
var obfuscation = []struct {
	re   *regexp.Regexp
	term string
}{
	{regexp.MustCompile(`d[*@#$%^&!]+m`), "đm"},
	{regexp.MustCompile(`v[*@#$%^&!]+l`), "vcl"},
	{regexp.MustCompile(`c[*@#$%^&!]+c`), "cc"},
	{regexp.MustCompile(`f[*@#$%^&!]+k`), "fuck"},
	{regexp.MustCompile(`s[*@#$%^&!]+t`), "shit"},
}

// IsInappropriate reports whether the raw message contains blocked content
// and returns the matched terms. Matching is case-insensitive and runs on
// the raw text so masked spellings are caught before any normalization
// could strip the masking symbols. Terms match as substrings, abbreviations
// included; the list is curated so collisions with ordinary words stay
// rare. A term may appear more than once in the returned slice when both a
// plain and a masked occurrence match it.
func IsInappropriate(text string) (bool, []string) {
	lowered := strings.ToLower(text)

	var found []string
	for _, term := range blockedTerms {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}
	for _, o := range obfuscation {
		if o.re.MatchString(lowered) {
			found = append(found, o.term)
		}
	}
	return len(found) > 0, found
}
