// Package schema maps free-text spreadsheet headers onto the canonical question fields.
package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, strips diacritics and trims surrounding whitespace.
// Characters it does not recognize pass through unchanged.
func Normalize(s string) string {
	// transform.Chain is stateful, so each call gets its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}
	return strings.TrimSpace(stripped)
}

// NormalizeHeaders normalizes each header, preserving order and length.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Normalize(h)
	}
	return out
}
