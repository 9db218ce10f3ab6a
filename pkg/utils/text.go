package utils

import "unicode/utf8"

// Clip shortens s to at most maxRunes runes for log output, marking the cut
// with "...". It never splits a multi-byte character.
func Clip(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
