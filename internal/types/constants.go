package types

import (
	"os"
	"strings"
)

// ContextUserKey is the gin context key the auth middleware stores the
// request principal under.
const ContextUserKey = "user"

// AllowedOrigins drives both the CORS config and the websocket origin
// check. The default covers the Next.js dev server; deployed origins come
// from CLIENT_URL plus the comma-separated ALLOWED_ORIGINS.
var AllowedOrigins = buildAllowedOrigins(os.Getenv("CLIENT_URL"), os.Getenv("ALLOWED_ORIGINS"))

func buildAllowedOrigins(clientURL, extra string) []string {
	origins := []string{"http://localhost:3000"}

	if clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(extra, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
