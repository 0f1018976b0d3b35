package biz

import (
	"strings"
)

const (
	// fallbackSlug stands in for titles with no usable characters
	fallbackSlug = "post"
	maxSlugLen   = 120
)

// Slugify lowercases title and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both ends.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pending := false
	for _, r := range strings.ToLower(title) {
		if b.Len() >= maxSlugLen {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}
