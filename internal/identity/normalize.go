// Package identity reduces free-text plates and names to canonical keys.
// Keys are only ever compared; the operator's original text is what gets
// stored and displayed.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizePlate trims and uppercases raw and drops every character outside
// A-Z and 0-9, so "abc-1234", "ABC 1234" and "ABC1234" share one key.
func NormalizePlate(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, upper)
}

// NormalizeDriverName lowercases raw, strips diacritics and collapses
// whitespace, so "José  DA Silva" and "jose da silva" share one key.
func NormalizeDriverName(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return ""
	}

	// transform.Chain keeps state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, lower)
	if err != nil {
		stripped = lower
	}
	return strings.Join(strings.Fields(stripped), " ")
}

// TitleCase collapses whitespace and capitalizes each word of raw, the way
// names, requesters and routes are stored ("joão  DA silva" becomes
// "João Da Silva").
func TitleCase(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")
	if collapsed == "" {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(collapsed)
}
