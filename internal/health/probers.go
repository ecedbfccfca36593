package health

import (
	"context"
)

// Pinger is satisfied by the database and cache clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingProber reports healthy when Ping succeeds.
type PingProber struct {
	name   string
	pinger Pinger
}

// NewPingProber creates a prober named name around p.
func NewPingProber(name string, p Pinger) *PingProber {
	return &PingProber{name: name, pinger: p}
}

// Name returns the service name.
func (p *PingProber) Name() string { return p.name }

// Probe pings the dependency once.
func (p *PingProber) Probe(ctx context.Context) ProbeResult {
	if p.pinger == nil {
		return ProbeResult{
			Status:  StatusUnhealthy,
			Details: map[string]any{"error": "not connected"},
		}
	}
	if err := p.pinger.Ping(ctx); err != nil {
		return ProbeResult{
			Status:  StatusUnhealthy,
			Details: map[string]any{"error": err.Error()},
		}
	}
	return ProbeResult{
		Status:  StatusHealthy,
		Details: map[string]any{"connection": "successful"},
	}
}

// ConfiguredProber reports whether an external integration has
// credentials. It never calls out.
type ConfiguredProber struct {
	name       string
	configured bool
}

// NewConfiguredProber creates a prober for an optional integration.
func NewConfiguredProber(name string, configured bool) *ConfiguredProber {
	return &ConfiguredProber{name: name, configured: configured}
}

// Name returns the integration name.
func (p *ConfiguredProber) Name() string { return p.name }

// Probe returns configured or not_configured.
func (p *ConfiguredProber) Probe(context.Context) ProbeResult {
	if p.configured {
		return ProbeResult{
			Status:  StatusConfigured,
			Details: map[string]any{"api_key": "present"},
		}
	}
	return ProbeResult{
		Status:  StatusNotConfigured,
		Details: map[string]any{"api_key": "missing"},
	}
}
