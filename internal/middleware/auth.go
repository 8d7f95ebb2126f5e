package middleware

import (
	"net/http"

	"github.com/agentic-insurtech/insurtech/internal/models"
	"github.com/agentic-insurtech/insurtech/internal/security"
)

var publicPaths = map[string]bool{
	"/":       true,
	"/health": true,
}

// Auth requires a known API key in headerName (or the api_key cookie) on every
// non-public path and stores the key in the request context.
func Auth(apiKeys []string, headerName string) func(http.Handler) http.Handler {
	keySet := make(map[string]bool, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keySet[k] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(headerName)
			if key == "" {
				if c, err := r.Cookie("api_key"); err == nil {
					key = c.Value
				}
			}

			if key == "" {
				models.WriteError(w, http.StatusUnauthorized, "API key required")
				return
			}
			if !keySet[key] {
				models.WriteError(w, http.StatusForbidden, "invalid API key")
				return
			}

			next.ServeHTTP(w, r.WithContext(security.WithAPIKey(r.Context(), key)))
		})
	}
}

// APIKeyContext stores the API key from headerName in the request context
// without enforcing it. Used when authentication is disabled so audit logs
// still see the caller.
func APIKeyContext(headerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get(headerName); key != "" {
				r = r.WithContext(security.WithAPIKey(r.Context(), key))
			}
			next.ServeHTTP(w, r)
		})
	}
}
