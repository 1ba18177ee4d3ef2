package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// multiSpacePattern matches runs of whitespace, including newlines.
var multiSpacePattern = regexp.MustCompile(`\s+`)

// CleanField collapses internal whitespace and trims the ends. Used for shop
// names and addresses typed on a phone keyboard.
func CleanField(s string) string {
	if s == "" {
		return ""
	}
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanItems trims every ordered item and drops the blank ones.
func CleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if c := CleanField(item); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// CleanNotes returns nil for absent or blank notes, otherwise the trimmed text.
func CleanNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeItemName is the key used when counting favourite items:
// lowercased with surrounding whitespace removed.
func NormalizeItemName(item string) string {
	return strings.ToLower(strings.TrimSpace(item))
}

// DisplayItemName title-cases a normalized item ("oat latte" -> "Oat Latte").
func DisplayItemName(normalized string) string {
	return cases.Title(language.Und).String(normalized)
}

// NeedsCleanup reports whether any field carries whitespace CleanField would change.
func NeedsCleanup(fields ...string) bool {
	for _, f := range fields {
		if CleanField(f) != f {
			return true
		}
	}
	return false
}
