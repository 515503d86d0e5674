// Package policy holds the static return-policy table.
package policy

import (
	"sort"
	"strings"
)

// Default is returned for any category without a dedicated entry.
const Default = "Standard 30-day return policy applies"

var table = map[string]string{
	"electronics": "30-day return window, must include original packaging",
	"clothing":    "60-day return window, must have tags attached",
	"furniture":   "14-day return window, assembly affects eligibility",
}

// Lookup returns the return policy for a product category. The category is
// trimmed and lower-cased before the exact table match, so "Clothing " finds
// the clothing entry. It never fails: unknown categories get Default.
func Lookup(category string) string {
	if text, ok := table[strings.ToLower(strings.TrimSpace(category))]; ok {
		return text
	}
	return Default
}

// Categories lists the categories with a dedicated policy, sorted.
func Categories() []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
