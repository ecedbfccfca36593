package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	// AllowedOrigins lists exact origins ("https://app.jobpilot.io") and
	// subdomain patterns ("*.jobpilot.app"). Empty means no cross-origin access.
	AllowedOrigins []string

	// AllowedMethods is sent in Access-Control-Allow-Methods on preflight.
	AllowedMethods []string

	// AllowedHeaders is sent in Access-Control-Allow-Headers on preflight.
	AllowedHeaders []string

	// ExposedHeaders are readable by frontend code, e.g. the rate limit headers.
	ExposedHeaders []string

	// AllowCredentials lets the frontend send the bearer token with
	// credentials mode "include". The request origin is echoed, never "*".
	AllowCredentials bool

	// MaxAge is how long, in seconds, a browser may cache a preflight result.
	MaxAge int
}

// DefaultCORSConfig returns the settings the web frontend needs. The
// allowed origins come from CORS_ALLOWED_ORIGINS.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Request-ID",
			"Accept",
			"Accept-Language",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// originMatcher holds the lowered exact origins and the pattern suffixes
// (".jobpilot.app" for "*.jobpilot.app").
type originMatcher struct {
	exact    map[string]struct{}
	suffixes []string
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.ToLower(o)
		if rest, ok := strings.CutPrefix(o, "*"); ok && strings.HasPrefix(rest, ".") {
			m.suffixes = append(m.suffixes, rest)
			continue
		}
		m.exact[o] = struct{}{}
	}
	return m
}

// allows reports whether origin is listed. A pattern needs a non-empty
// subdomain: "*.jobpilot.app" admits "https://app.jobpilot.app" and
// rejects both "https://jobpilot.app" and "https://notjobpilot.app".
func (m originMatcher) allows(origin string) bool {
	origin = strings.ToLower(origin)
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, suffix := range m.suffixes {
		host, ok := strings.CutSuffix(origin, suffix)
		if !ok {
			continue
		}
		if _, sub, found := strings.Cut(host, "://"); found && sub != "" {
			return true
		}
	}
	return false
}

// CORS answers preflight requests and decorates responses for listed
// origins. Requests without an Origin header pass through untouched.
// Unlisted origins get a 403 on preflight; their other requests are
// served without CORS headers so the browser withholds the response.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	matcher := newOriginMatcher(cfg.AllowedOrigins)

	preflight := http.Header{}
	preflight.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
	preflight.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
	if cfg.MaxAge > 0 {
		preflight.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
	}
	exposed := strings.Join(cfg.ExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			isPreflight := r.Method == http.MethodOptions
			if !matcher.allows(origin) {
				if isPreflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if isPreflight {
				for k := range preflight {
					h.Set(k, preflight.Get(k))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
