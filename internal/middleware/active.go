package middleware

import (
	"net/http"

	"github.com/jobpilot/jobpilot/internal/auth"
)

// RequireActive rejects deactivated accounts with 403.
// Must be applied after Auth middleware.
func RequireActive() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := auth.AuthFromContext(r.Context())
			if authCtx == nil {
				writeAuthError(w)
				return
			}

			if !authCtx.IsActive {
				writeError(w, http.StatusForbidden, "INACTIVE_USER", "User account is inactive")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
