package authclient

import "strings"

// DeriveUsername synthesizes a username from name parts when the backend
// requires one but the caller only supplies names: parts are lower-cased,
// inner whitespace collapsed to hyphens, empties dropped, and the remainder
// hyphen-joined. DeriveUsername("Jane", "Doe") is "jane-doe". Pure, no I/O.
func DeriveUsername(parts ...string) string {
	joined := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		joined = append(joined, strings.Join(strings.Fields(part), "-"))
	}
	return strings.Join(joined, "-")
}
