// Package textclean prepares job description text for pattern matching.
package textclean

import (
	"regexp"
	"strings"
)

var (
	tagRE   = regexp.MustCompile(`<[^>]*>`)
	spaceRE = regexp.MustCompile(`\s+`)
)

// Clean lowercases text, replaces markup tags with spaces, collapses
// consecutive whitespace and trims. It is a pure function and idempotent:
// Clean(Clean(s)) == Clean(s). Word content and boundaries are preserved;
// only casing and formatting change.
func Clean(s string) string {
	s = tagRE.ReplaceAllString(s, " ")
	s = strings.ToLower(s)
	s = spaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
