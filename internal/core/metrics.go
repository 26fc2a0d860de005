package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Authentication
	RecordLogin(result string, duration time.Duration)
	RecordCandidates(count int)
	RecordPasswordChange(success bool)

	// Remote panel
	RecordRemoteCall(method string, success bool, duration time.Duration)
	RecordRemoteSession(opened bool)

	// Local accounts
	RecordProvision(result string)
	RecordAccountDeleted()
	SetLocalAccountsCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}
