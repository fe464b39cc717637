// Package sanitize provides text sanitization utilities for user-facing output.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// ansiEscapeRegex matches ANSI/VT100 escape sequences that upstream
	// services occasionally leak into error messages
	ansiEscapeRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// This is a defense-in-depth measure; frontend should also escape output.
func StripHTML(s string) string {
	// Remove HTML tags
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Decode common HTML entities
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// ErrorMessage cleans a raw upstream error message for display: it drops ANSI
// escape sequences, replaces control characters with spaces, and collapses the
// resulting whitespace runs.
func ErrorMessage(s string) string {
	result := ansiEscapeRegex.ReplaceAllString(s, "")
	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, result)
	return strings.Join(strings.Fields(result), " ")
}

// Text sanitizes a string for safe text display by stripping HTML.
// Use for upstream-provided text fields like lead names and event notes.
func Text(s string) string {
	return StripHTML(s)
}
