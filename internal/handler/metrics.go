package handler

import (
	"fmt"
	"net/http"

	"github.com/jobpilot/jobpilot/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "jobpilot_logins_total{result=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "jobpilot_logins_total{result=\"invalid_credentials\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "jobpilot_logins_total{result=\"inactive\"} %d\n", snap.LoginsInactive)
	writeMetric(w, "jobpilot_registrations_total %d\n", snap.Registrations)
	writeMetric(w, "jobpilot_auth_rejected_total %d\n", snap.AuthRejected)
	writeMetric(w, "jobpilot_rate_limited_total %d\n", snap.RateLimited)

	writeMetric(w, "jobpilot_profile_cache_hits_total %d\n", snap.ProfileCacheHits)
	writeMetric(w, "jobpilot_profile_cache_misses_total %d\n", snap.ProfileCacheMisses)

	writeMetric(w, "jobpilot_health_checks_total{status=\"healthy\"} %d\n", snap.HealthChecksHealthy)
	writeMetric(w, "jobpilot_health_checks_total{status=\"degraded\"} %d\n", snap.HealthChecksDegraded)
	writeMetric(w, "jobpilot_health_checks_total{status=\"unhealthy\"} %d\n", snap.HealthChecksUnhealthy)
	writeMetric(w, "jobpilot_health_check_duration_seconds_count %d\n", snap.HealthChecks())
	writeMetric(w, "jobpilot_health_check_duration_seconds_sum %.6f\n", float64(snap.HealthCheckTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
