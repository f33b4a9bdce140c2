package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// RequireAdmin guards admin endpoints with a shared token sent in the
// X-Admin-Token header. With no token configured every request is refused.
func RequireAdmin(adminToken string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get("X-Admin-Token")
			if adminToken == "" || subtle.ConstantTimeCompare([]byte(given), []byte(adminToken)) != 1 {
				slog.Warn("admin access denied", "path", r.URL.Path, "ip", getClientIP(r))
				writeError(w, http.StatusUnauthorized, "Admin access required")
				return
			}

			next(w, r)
		}
	}
}
