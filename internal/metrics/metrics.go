// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Authentication metrics
	IncLoginSucceeded()
	IncLoginFailed()
	IncLoginInactive()
	IncRegistration()
	IncAuthRejected()
	IncRateLimited()

	// Profile cache metrics
	IncProfileCacheHit()
	IncProfileCacheMiss()

	// Health metrics
	ObserveHealthCheck(status string, duration time.Duration) // status: "healthy", "degraded", "unhealthy"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
