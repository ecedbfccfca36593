package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginsSucceeded       uint64
	LoginsFailed          uint64
	LoginsInactive        uint64
	Registrations         uint64
	AuthRejected          uint64
	RateLimited           uint64
	ProfileCacheHits      uint64
	ProfileCacheMisses    uint64
	HealthChecksHealthy   uint64
	HealthChecksDegraded  uint64
	HealthChecksUnhealthy uint64
	HealthCheckTotalNs    int64
}

// HealthChecks returns the total number of health checks observed.
func (s Snapshot) HealthChecks() uint64 {
	return s.HealthChecksHealthy + s.HealthChecksDegraded + s.HealthChecksUnhealthy
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	loginsSucceeded       uint64
	loginsFailed          uint64
	loginsInactive        uint64
	registrations         uint64
	authRejected          uint64
	rateLimited           uint64
	profileCacheHits      uint64
	profileCacheMisses    uint64
	healthChecksHealthy   uint64
	healthChecksDegraded  uint64
	healthChecksUnhealthy uint64
	healthCheckTotalNs    int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LoginsSucceeded:       atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:          atomic.LoadUint64(&m.loginsFailed),
		LoginsInactive:        atomic.LoadUint64(&m.loginsInactive),
		Registrations:         atomic.LoadUint64(&m.registrations),
		AuthRejected:          atomic.LoadUint64(&m.authRejected),
		RateLimited:           atomic.LoadUint64(&m.rateLimited),
		ProfileCacheHits:      atomic.LoadUint64(&m.profileCacheHits),
		ProfileCacheMisses:    atomic.LoadUint64(&m.profileCacheMisses),
		HealthChecksHealthy:   atomic.LoadUint64(&m.healthChecksHealthy),
		HealthChecksDegraded:  atomic.LoadUint64(&m.healthChecksDegraded),
		HealthChecksUnhealthy: atomic.LoadUint64(&m.healthChecksUnhealthy),
		HealthCheckTotalNs:    atomic.LoadInt64(&m.healthCheckTotalNs),
	}
}

// IncLoginSucceeded increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSucceeded() {
	atomic.AddUint64(&m.loginsSucceeded, 1)
}

// IncLoginFailed increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncLoginInactive counts logins refused for deactivated accounts.
func (m *InMemoryRecorder) IncLoginInactive() {
	atomic.AddUint64(&m.loginsInactive, 1)
}

// IncRegistration increments the registration counter.
func (m *InMemoryRecorder) IncRegistration() {
	atomic.AddUint64(&m.registrations, 1)
}

// IncAuthRejected counts bearer tokens rejected by the auth middleware.
func (m *InMemoryRecorder) IncAuthRejected() {
	atomic.AddUint64(&m.authRejected, 1)
}

// IncRateLimited counts throttled requests.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// IncProfileCacheHit increments the profile cache hit counter.
func (m *InMemoryRecorder) IncProfileCacheHit() {
	atomic.AddUint64(&m.profileCacheHits, 1)
}

// IncProfileCacheMiss increments the profile cache miss counter.
func (m *InMemoryRecorder) IncProfileCacheMiss() {
	atomic.AddUint64(&m.profileCacheMisses, 1)
}

// ObserveHealthCheck records the outcome and duration of a composite health check.
func (m *InMemoryRecorder) ObserveHealthCheck(status string, duration time.Duration) {
	switch status {
	case "healthy":
		atomic.AddUint64(&m.healthChecksHealthy, 1)
	case "degraded":
		atomic.AddUint64(&m.healthChecksDegraded, 1)
	default:
		atomic.AddUint64(&m.healthChecksUnhealthy, 1)
	}
	atomic.AddInt64(&m.healthCheckTotalNs, duration.Nanoseconds())
}
