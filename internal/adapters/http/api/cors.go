package api

import (
	"net/http"
	"slices"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Request-ID"
)

// CORS wraps a handler with CORS headers. A "*" entry allows any origin
// without credentials; otherwise a listed origin is echoed back with
// credentials allowed. Preflight requests are answered with 204.
func CORS(next http.Handler, allowedOrigins ...string) http.Handler {
	wildcard := slices.Contains(allowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := false
		switch {
		case origin == "":
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
			allowed = true
		case slices.Contains(allowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
			allowed = true
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
