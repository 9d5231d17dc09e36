// Package textutil holds the small text transforms shared by the create and
// patch paths: slug generation, tag normalization and reading-time
// estimation.
package textutil

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]+`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify converts free text into a URL-safe slug: lowercase, alphanumeric
// runs joined by single hyphens, no leading or trailing hyphens. The same
// function produces post slugs and the canonical keys tags are deduplicated
// by.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// EstimateReadingTime returns the estimated reading time in minutes for a
// markdown body, at 200 words per minute, never less than one minute.
func EstimateReadingTime(markdown string) int {
	words := len(strings.Fields(markdown))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
