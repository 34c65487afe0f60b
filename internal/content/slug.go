// Package content holds the pure text transformations used when saving
// content: slugs, reading time, markdown rendering and sanitizing.
package content

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
//
//	Slugify("Hello, World! 2024") == "hello-world-2024"
func Slugify(title string) string {
	lower := strings.ToLower(title)
	hyphenated := nonAlphanumeric.ReplaceAllString(lower, "-")
	return strings.Trim(hyphenated, "-")
}
