package validators

import (
	"net/http"
	"strings"
)

// ExtractBearerToken pulls the raw JWT out of the Authorization header.
// Returns "" when no credentials were supplied.
func ExtractBearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
