package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobpilot/jobpilot/internal/auth"
	"github.com/jobpilot/jobpilot/internal/config"
	"github.com/jobpilot/jobpilot/internal/handler"
	"github.com/jobpilot/jobpilot/internal/health"
	"github.com/jobpilot/jobpilot/internal/metrics"
	"github.com/jobpilot/jobpilot/internal/middleware"
	"github.com/jobpilot/jobpilot/internal/model"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://app:s3cret@db:5432/jobpilot", "postgres://app@db:5432/jobpilot"},
		{"redis://:s3cret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"redis://cache:6379", "redis://cache:6379"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://app:s3cret@db:5432/jobpilot"
	err := errors.New("connect " + dsn + ": failed; password=s3cret")

	got := sanitizeError(err, dsn)
	if strings.Contains(got, "s3cret") {
		t.Errorf("secret leaked: %s", got)
	}
	if !strings.Contains(got, "password=redacted") {
		t.Errorf("expected password= redaction, got %s", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

type denyResolver struct{}

func (denyResolver) Resolve(context.Context, string) (*model.User, error) {
	return nil, auth.ErrUnauthenticated
}

func TestSetupRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewInMemory()
	cfg := &config.Config{
		AppEnv:             "test",
		CORSAllowedOrigins: "http://localhost:3000",
		MaxRequestBodySize: 1 << 20,
	}

	r := setupRouter(routes{
		root:    handler.New("1.2.3", "test"),
		health:  handler.NewHealthHandler(health.NewAggregator(nil, health.WithBuildInfo("1.2.3", "test")), recorder),
		users:   handler.NewUserHandler(nil, logger),
		career:  handler.NewCareerHandler(nil, logger),
		metrics: handler.NewMetricsHandler(recorder),
		auth:    middleware.AuthConfig{Logger: logger, Resolver: denyResolver{}, Metrics: recorder},
		rateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Enabled: false,
		},
	}, cfg, logger)

	tests := []struct {
		method, path string
		wantStatus   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/health/live", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/users/me", http.StatusUnauthorized},
		{http.MethodPut, "/api/v1/users/me/profile", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/users/me/skills", http.StatusUnauthorized},
		{http.MethodDelete, "/api/v1/users/me/experiences/abc", http.StatusUnauthorized},
		{http.MethodPatch, "/api/v1/users/me/skills/abc", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/users/me", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}

	t.Run("root describes the build", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "1.2.3", body["version"])
		assert.Equal(t, "/api/v1/health", body["health_check"])
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/users/login", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
