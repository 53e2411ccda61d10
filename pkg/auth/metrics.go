package auth

import (
	"time"

	"github.com/graphmesh/graphmesh/pkg/observability"
)

// MetricsCollector records authentication and authorization metrics.
type MetricsCollector struct {
	metrics observability.MetricsClient
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(metrics observability.MetricsClient) *MetricsCollector {
	if metrics == nil {
		metrics = observability.NewNoopMetricsClient()
	}
	return &MetricsCollector{metrics: metrics}
}

// RecordDecision records the outcome of a boolean authorization check.
func (mc *MetricsCollector) RecordDecision(operation string, allowed bool) {
	mc.metrics.RecordCounter("authz_decisions_total", 1.0, map[string]string{
		"operation": operation,
		"allowed":   boolLabel(allowed),
	})
}

// RecordLogin records a login attempt, its resulting state, and how long
// credential verification took.
func (mc *MetricsCollector) RecordLogin(state AuthenticationState, duration time.Duration) {
	labels := map[string]string{"state": state.String()}
	mc.metrics.RecordCounter("auth_login_attempts_total", 1.0, labels)
	mc.metrics.RecordHistogram("auth_login_duration_seconds", duration.Seconds(), labels)
}

// RecordViolation records a denial reported through OnViolation.
func (mc *MetricsCollector) RecordViolation(kind string) {
	mc.metrics.RecordCounter("authz_violations_total", 1.0, map[string]string{
		"kind": kind,
	})
}

// RecordRateLimitExceeded records a login attempt rejected by the rate
// limiter.
func (mc *MetricsCollector) RecordRateLimitExceeded() {
	mc.metrics.RecordCounter("auth_rate_limit_exceeded_total", 1.0, nil)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
