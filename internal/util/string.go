package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSearchTerm canonicalizes a free-text search term: NFC composed,
// surrounding space trimmed and inner whitespace runs collapsed. Case is kept;
// the catalog matches case-insensitively on its side.
func NormalizeSearchTerm(term string) string {
	return strings.Join(strings.Fields(norm.NFC.String(term)), " ")
}

// OrDash returns s, or "-" when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
