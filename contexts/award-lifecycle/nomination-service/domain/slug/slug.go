// Package slug derives public live identities from nominee display names.
// Pure functions, no I/O.
package slug

import (
	"strings"
	"unicode"
)

// Make normalizes a display name into a URL slug: lowercase, letters and
// digits kept, every other run of characters collapsed to a single hyphen.
// Returns "" when the name contains nothing usable; callers fall back to an
// id-based slug.
func Make(displayName string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(displayName)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Disambiguate appends a short suffix to a colliding slug.
func Disambiguate(base, disambiguator string) string {
	suffix := strings.TrimSpace(disambiguator)
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
