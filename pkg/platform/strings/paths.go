// Package strings holds the small string helpers shared by config and
// middleware.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each value and drops empties and repeats, keeping the
// first occurrence.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// NormalizePathPrefixes turns configured URL path prefixes into one canonical
// form: a leading "/", no trailing "/", no duplicates. The root prefix is
// dropped; it would match every path.
//
//	NormalizePathPrefixes([]string{" assets/ ", "/assets", "/", "_next"})
//	// Returns: []string{"/assets", "/_next"}
func NormalizePathPrefixes(values []string) []string {
	canonical := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.Trim(strings.TrimSpace(v), "/")
		if v == "" {
			continue
		}
		canonical = append(canonical, "/"+v)
	}
	return DedupeAndTrim(canonical)
}
