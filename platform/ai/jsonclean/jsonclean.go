// Package jsonclean extracts a JSON object from raw generative-model output.
// Models asked for application/json still occasionally wrap the payload in
// markdown fences or surround it with prose; this package strips that noise
// so the result can be handed to encoding/json.
package jsonclean

import (
	"regexp"
	"strings"
)

var fenceRegex = regexp.MustCompile("(?i)```json|```")

// Response cleans raw model output down to the outermost JSON object.
//
// Steps: trim whitespace, drop any ```json / ``` fence markers, then slice
// from the first '{' to the last '}' when a valid pair exists. If no brace
// pair is found the cleaned text is returned as-is so that downstream
// parsing fails loudly instead of fabricating an empty object. Empty input
// returns an empty string, which also fails to parse.
//
// The brace heuristic assumes the outermost object boundaries are the global
// first and last occurrences. That holds for single-object responses; two
// sibling top-level objects would mis-slice (see the package tests).
func Response(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSpace(fenceRegex.ReplaceAllString(cleaned, ""))

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}

	return cleaned
}
