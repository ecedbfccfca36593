package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobpilot/jobpilot/internal/auth"
	"github.com/jobpilot/jobpilot/internal/metrics"
	"github.com/jobpilot/jobpilot/internal/model"
)

// unauthorizedMessage is shared by every bearer failure to prevent enumeration.
const unauthorizedMessage = "Could not validate credentials"

// Resolver turns a bearer token into a user. *auth.SessionResolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, bearer string) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Resolver Resolver
	Metrics  metrics.Recorder
}

// Auth returns a middleware that authenticates requests with a bearer
// access token and injects the resolved user into the request context.
//
// Every authentication failure gets the same 401. A store failure during
// resolution gets 503 so clients retry instead of discarding the token.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)

			user, err := cfg.Resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrUnavailable) {
					cfg.Logger.Error("authentication unavailable",
						slog.String("error", err.Error()),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Authentication temporarily unavailable")
					return
				}

				reason := "invalid_token"
				if token == "" {
					reason = "missing_token"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthRejected()
				writeAuthError(w)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", user.ID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			setLogUserID(r.Context(), user.ID)
			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearer returns the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func extractBearer(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", unauthorizedMessage)
}
