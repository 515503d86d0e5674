package domain

import (
	"strconv"
	"strings"
)

// NormalizeID converts an order or product identifier to its canonical
// string form: surrounding whitespace and a leading '#' are removed.
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	id = strings.TrimPrefix(id, "#")
	return strings.TrimSpace(id)
}

// IDFromInt renders a numeric identifier in canonical form.
func IDFromInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
