package db

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spaceCollapse = regexp.MustCompile(`\s+`)

// NormalizeSearchTerm applies the normalization rules used for job search:
// - Transliterate accents to ASCII
// - Collapse multiple spaces and trim
// - Lowercase
// Postings are matched case-insensitively, so "Développeur" finds
// "developpeur" postings and vice versa.
func NormalizeSearchTerm(s string) string {
	if s == "" {
		return ""
	}

	s = transliterate(s)
	s = strings.TrimSpace(spaceCollapse.ReplaceAllString(s, " "))
	s = strings.ToLower(s)

	return s
}

// transliterate converts accented characters to their ASCII equivalents.
func transliterate(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)), // Mn: Mark, Nonspacing
		norm.NFC,
	)

	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Emails are unique per user; trimming and lowercasing here keeps
// "Alice@X.com" and "alice@x.com " from becoming two accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
