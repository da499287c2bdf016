package slug

import "strings"

// Package slug normalizes free-text identifiers into URL-safe slugs.
// Uniqueness against stored slugs is resolved by the service layer.

// Fallback is used when normalization leaves nothing usable.
const Fallback = "recipe"

// Normalize lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen, and strips leading/trailing hyphens. An empty result
// falls back to Fallback.
func Normalize(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	out := b.String()
	if out == "" {
		return Fallback
	}
	return out
}
