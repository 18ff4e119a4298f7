package middleware

import (
	"log/slog"
	"net/http"
)

// InternalTokenHeader carries the shared secret identifying internal
// callers such as the authentication service.
const InternalTokenHeader = "X-Internal-Token"

// Internal gates a route to internal callers. The check compares the
// X-Internal-Token header against the configured shared secret. It is
// skipped in the development and testing environments; an unset
// environment is a server misconfiguration.
func Internal(env, secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if env == "" {
				logger.Error("APP_ENV is not set, cannot validate internal request")
				http.Error(w, "Server configuration error", http.StatusInternalServerError)
				return
			}

			if env == "development" || env == "testing" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(InternalTokenHeader)
			if token == "" {
				logger.Error("internal request token is missing", "path", r.URL.Path)
				http.Error(w, "Internal request token is missing", http.StatusUnauthorized)
				return
			}
			if token != secret {
				logger.Error("invalid internal request token", "path", r.URL.Path)
				http.Error(w, "Invalid internal request token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
