package domain

import "regexp"

// APIKey is a Google Maps Platform API key as observed in traffic.
// Identity is the exact string value; a key is never rewritten once captured.
type APIKey string

// keyPattern matches Google API keys: "AIza" followed by 35 alphanumeric,
// dash or underscore characters. This single pattern covers all Google API
// key formats in the wild.
var keyPattern = regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`)

// anchoredKeyPattern matches a full string that is exactly one key.
var anchoredKeyPattern = regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`)

// IsWellFormed reports whether the key matches the Maps key shape.
// It says nothing about whether the key is live or restricted.
func (k APIKey) IsWellFormed() bool {
	return anchoredKeyPattern.MatchString(string(k))
}

// Redacted returns a log-safe prefix of the key.
// Example: "AIzaSyA4f8bQ...", enough to correlate, not enough to abuse.
func (k APIKey) Redacted() string {
	if len(k) <= 12 {
		return string(k)
	}
	return string(k[:12]) + "..."
}

// ExtractKeys scans free text (typically an HTTP response body) for candidate
// API keys. Duplicates are collapsed, keeping the order of first appearance.
func ExtractKeys(body string) []APIKey {
	matches := keyPattern.FindAllString(body, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	keys := make([]APIKey, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		keys = append(keys, APIKey(m))
	}
	return keys
}
