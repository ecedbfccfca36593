package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobpilot/jobpilot/internal/metrics"
)

func TestMetricsHandler(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncLoginSucceeded()
	rec.IncLoginFailed()
	rec.IncLoginFailed()
	rec.ObserveHealthCheck("healthy", 1500*time.Millisecond)

	h := NewMetricsHandler(rec)

	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected Content-Type: %s", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		`jobpilot_logins_total{result="success"} 1`,
		`jobpilot_logins_total{result="invalid_credentials"} 2`,
		`jobpilot_health_checks_total{status="healthy"} 1`,
		`jobpilot_health_check_duration_seconds_sum 1.500000`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}
