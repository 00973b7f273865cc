package utils

import (
	"regexp"
	"strings"
)

var (
	// Unicode letters and digits survive, so non-ASCII titles keep
	// their characters the way Sonarr's own slugs do.
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Truncate shortens text to at most max characters, replacing the tail
// with "..." when it does not fit. Counts runes, not bytes.
func Truncate(text string, max int) string {
	if text == "" {
		return text
	}
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Slugify converts a series title to Sonarr's detail-page URL form:
// word characters only, runs of spaces and hyphens collapsed to a
// single hyphen, lowercased.
func Slugify(title string) string {
	if title == "" {
		return ""
	}
	slug := slugStrip.ReplaceAllString(title, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.ToLower(strings.Trim(slug, "-"))
}
