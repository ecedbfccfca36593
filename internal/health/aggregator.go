// Package health probes the service's dependencies and folds their
// results into one composite status.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the health of a single dependency or of the whole service.
type Status string

const (
	StatusHealthy       Status = "healthy"
	StatusDegraded      Status = "degraded"
	StatusUnhealthy     Status = "unhealthy"
	StatusNotConfigured Status = "not_configured"
	StatusConfigured    Status = "configured"
)

// DefaultProbeTimeout bounds a single probe when none is configured.
const DefaultProbeTimeout = 2 * time.Second

// ProbeResult is what a Prober reports. Latency is filled in by the
// Aggregator.
type ProbeResult struct {
	Status  Status
	Details map[string]any
}

// Prober checks one dependency.
type Prober interface {
	Name() string
	Probe(ctx context.Context) ProbeResult
}

// ServiceHealth is the recorded outcome of one probe.
type ServiceHealth struct {
	Status         Status         `json:"status"`
	ResponseTimeMs float64        `json:"response_time_ms"`
	Details        map[string]any `json:"details"`
}

// CompositeHealth is the folded health of all probed dependencies.
type CompositeHealth struct {
	Status      Status                   `json:"status"`
	Timestamp   time.Time                `json:"timestamp"`
	Version     string                   `json:"version"`
	Environment string                   `json:"environment"`
	Services    map[string]ServiceHealth `json:"services"`
}

// Aggregator runs all probers concurrently and folds their results.
type Aggregator struct {
	probers     []Prober
	critical    map[string]bool
	timeout     time.Duration
	version     string
	environment string
	logger      *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTimeout sets the per-probe deadline.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithCritical marks probers whose health gates readiness.
func WithCritical(names ...string) Option {
	return func(a *Aggregator) {
		for _, n := range names {
			a.critical[n] = true
		}
	}
}

// WithBuildInfo sets the version and environment echoed in results.
func WithBuildInfo(version, environment string) Option {
	return func(a *Aggregator) {
		a.version = version
		a.environment = environment
	}
}

// WithLogger sets the logger used for failed probes.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an Aggregator over probers.
func NewAggregator(probers []Prober, opts ...Option) *Aggregator {
	a := &Aggregator{
		probers:  probers,
		critical: make(map[string]bool),
		timeout:  DefaultProbeTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CheckAll probes every dependency in parallel and returns the composite.
// It never fails: probe errors, panics and timeouts become unhealthy
// entries.
func (a *Aggregator) CheckAll(ctx context.Context) CompositeHealth {
	results := make([]ServiceHealth, len(a.probers))

	var g errgroup.Group
	for i, p := range a.probers {
		g.Go(func() error {
			results[i] = a.run(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	services := make(map[string]ServiceHealth, len(a.probers))
	for i, p := range a.probers {
		services[p.Name()] = results[i]
		if results[i].Status == StatusUnhealthy {
			a.logger.WarnContext(ctx, "dependency unhealthy",
				slog.String("service", p.Name()),
				slog.Any("details", results[i].Details),
			)
		}
	}

	return CompositeHealth{
		Status:      Fold(services),
		Timestamp:   time.Now().UTC(),
		Version:     a.version,
		Environment: a.environment,
		Services:    services,
	}
}

// Ready reports whether every critical dependency in h is healthy.
func (a *Aggregator) Ready(h CompositeHealth) bool {
	for name := range a.critical {
		s, ok := h.Services[name]
		if !ok || s.Status != StatusHealthy {
			return false
		}
	}
	return true
}

// run executes one probe under its own deadline. The probe runs in a
// separate goroutine so a prober that ignores ctx cannot hold up the
// aggregate.
func (a *Aggregator) run(ctx context.Context, p Prober) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan ProbeResult, 1)

	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				done <- ProbeResult{
					Status:  StatusUnhealthy,
					Details: map[string]any{"error": fmt.Sprint(rvr)},
				}
			}
		}()
		done <- p.Probe(ctx)
	}()

	var res ProbeResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = ProbeResult{
			Status:  StatusUnhealthy,
			Details: map[string]any{"error": "probe timed out"},
		}
	}

	if res.Details == nil {
		res.Details = map[string]any{}
	}

	return ServiceHealth{
		Status:         res.Status,
		ResponseTimeMs: roundMs(time.Since(start)),
		Details:        res.Details,
	}
}

// Fold reduces per-service statuses: any unhealthy wins, then any
// degraded or not_configured, otherwise healthy.
func Fold(services map[string]ServiceHealth) Status {
	overall := StatusHealthy
	for _, s := range services {
		switch s.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded, StatusNotConfigured:
			overall = StatusDegraded
		}
	}
	return overall
}

func roundMs(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/10) / 100
}
