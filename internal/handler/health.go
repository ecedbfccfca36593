package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jobpilot/jobpilot/internal/health"
	"github.com/jobpilot/jobpilot/internal/metrics"
)

// HealthAggregator probes dependencies. *health.Aggregator satisfies it.
type HealthAggregator interface {
	CheckAll(ctx context.Context) health.CompositeHealth
	Ready(h health.CompositeHealth) bool
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	agg     HealthAggregator
	metrics metrics.Recorder
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(agg HealthAggregator, recorder metrics.Recorder) *HealthHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &HealthHandler{
		agg:     agg,
		metrics: recorder,
		now:     time.Now,
	}
}

// ReadinessResponse is the body of the readiness probe.
type ReadinessResponse struct {
	Status   string                          `json:"status"`
	Services map[string]health.ServiceHealth `json:"services,omitempty"`
}

// LivenessResponse is the body of the liveness probe.
type LivenessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports the composite health of all dependencies.
// The status code is always 200; the body carries the verdict.
//
// GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.check(r.Context()))
}

// Ready is a readiness probe endpoint.
// It returns 200 only when the database and cache are healthy, so a
// failing instance is taken out of the load balancer.
//
// GET /api/v1/health/ready, GET /readyz
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	composite := h.check(r.Context())

	if !h.agg.Ready(composite) {
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{
			Status:   "not_ready",
			Services: composite.Services,
		})
		return
	}

	writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready"})
}

// Live is a liveness probe endpoint.
// No dependency checks - it only proves the process serves requests.
//
// GET /api/v1/health/live, GET /healthz
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:    "alive",
		Timestamp: h.now().UTC(),
	})
}

func (h *HealthHandler) check(ctx context.Context) health.CompositeHealth {
	start := time.Now()
	composite := h.agg.CheckAll(ctx)
	h.metrics.ObserveHealthCheck(string(composite.Status), time.Since(start))
	return composite
}
