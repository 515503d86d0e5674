package util

import "strings"

// Preview trims body and cuts it to max runes, marking the cut with "...".
func Preview(body string, max int) string {
	trimmed := strings.TrimSpace(body)
	runes := []rune(trimmed)
	if len(runes) <= max {
		return trimmed
	}
	return string(runes[:max]) + "..."
}
