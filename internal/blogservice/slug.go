package blogservice

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nonSlugRX = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title, collapses every run of characters outside [a-z0-9] into one hyphen and trims
// hyphens from both ends.
func Slugify(title string) string {
	s := nonSlugRX.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

func suggestSlug(slug string, now time.Time) string {
	return fmt.Sprintf("%s-%d", slug, now.UnixMilli())
}
