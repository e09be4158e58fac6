// Package sanitize provides text sanitization utilities.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// punctuationRegex matches everything outside word characters and spaces
	punctuationRegex = regexp.MustCompile(`[^\w\s]`)
	// whitespaceRegex collapses runs of whitespace
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// This is a defense-in-depth measure; clients should also escape output.
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

// Text sanitizes a string for safe text handling by stripping HTML
// and trimming whitespace. Use for user-provided fields like search queries.
func Text(s string) string {
	return StripHTML(s)
}

// SearchName prepares a game title for a full-text metadata search by
// removing punctuation and collapsing whitespace. Catalog search engines
// match better on "Sonic CD" than on "Sonic CD™: Special Edition!".
func SearchName(s string) string {
	result := punctuationRegex.ReplaceAllString(s, "")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
