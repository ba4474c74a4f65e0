package locator

import (
	"encoding/json"
	"strings"
)

// DecodeList decodes a string-encoded list of strings.
// A JSON array is tried first when s starts with "[". Otherwise one pair of surrounding brackets is
// stripped and the rest split on commas; tokens are trimmed (including quotes)
// and empty tokens dropped.
func DecodeList(s string) []string {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	var result []string
	for _, token := range strings.Split(trimmed, ",") {
		token = strings.TrimSpace(token)
		token = strings.Trim(token, `"'`)
		token = strings.TrimSpace(token)
		if token != "" {
			result = append(result, token)
		}
	}
	return result
}

// ParseBool reports whether s is "true", ignoring case and surrounding space.
// Anything else is false.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// IsAbsentToken reports whether an expected string value matches a missing attribute.
func IsAbsentToken(s string) bool {
	return s == "" || s == NotAvailable || strings.EqualFold(s, "nil")
}

// StringSet collapses a list into a set.
func StringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// SameSet reports whether a and b contain the same distinct strings.
func SameSet(a, b []string) bool {
	setA, setB := StringSet(a), StringSet(b)
	if len(setA) != len(setB) {
		return false
	}
	for k := range setA {
		if _, ok := setB[k]; !ok {
			return false
		}
	}
	return true
}
