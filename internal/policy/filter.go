package policy

import (
	"path/filepath"
	"strings"
)

// MatchName reports whether a "Class.test" name matches pattern.
// Supports patterns like "CartTest.*", "*checkout*" or a plain substring.
func MatchName(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// "*Payment*" style patterns: every non-empty part must appear in order
	if strings.Contains(pattern, "*") {
		rest := name
		hasPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasPart = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return hasPart
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
