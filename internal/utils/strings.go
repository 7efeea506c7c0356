package utils

import "unicode/utf8"

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// MaskSecret hides s behind a fixed-width mask so its length is not revealed.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
