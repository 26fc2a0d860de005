package metrics

import (
	"strconv"
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/core"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m core.Recorder) gin.HandlerFunc {
	// Type assert to concrete Metrics for Prometheus access
	metrics, ok := m.(*Metrics)
	if !ok {
		// NoopMetrics or unknown implementation
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := normalizePath(c.FullPath()) // Use route pattern, not actual path
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// normalizePath converts the actual request path to route pattern
// Returns the route pattern (e.g., "/api/v1/users/:uid") or "unknown" if no route matched
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

// RecordLogin records a password check outcome
func (m *Metrics) RecordLogin(result string, duration time.Duration) {
	m.AuthLoginTotal.WithLabelValues(result).Inc()
	m.AuthLoginDuration.Observe(duration.Seconds())
}

// RecordCandidates records how many identities a login name resolved to
func (m *Metrics) RecordCandidates(count int) {
	m.AuthCandidates.Observe(float64(count))
}

// RecordPasswordChange records a password change attempt
func (m *Metrics) RecordPasswordChange(success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.PasswordChangesTotal.WithLabelValues(result).Inc()
}

// RecordRemoteCall records a remote API call
func (m *Metrics) RecordRemoteCall(method string, success bool, duration time.Duration) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.RemoteCallsTotal.WithLabelValues(method, result).Inc()
	m.RemoteCallDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordRemoteSession tracks remote sessions being opened and closed
func (m *Metrics) RecordRemoteSession(opened bool) {
	if opened {
		m.RemoteSessionsOpenedTotal.Inc()
		m.RemoteSessionsActive.Inc()
		return
	}
	m.RemoteSessionsActive.Dec()
}

// RecordProvision records a local account provisioning outcome
func (m *Metrics) RecordProvision(result string) {
	m.AccountsProvisionedTotal.WithLabelValues(result).Inc()
}

// RecordAccountDeleted records a local account deletion
func (m *Metrics) RecordAccountDeleted() {
	m.AccountsDeletedTotal.Inc()
}

// SetLocalAccountsCount sets the current count of local accounts (for periodic updates)
func (m *Metrics) SetLocalAccountsCount(count int) {
	m.LocalAccounts.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}

// String formats the metrics for logging
func (m *Metrics) String() string {
	return "Metrics{Logins: enabled, Remote: enabled, HTTP: enabled}"
}
