package metrics

import (
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/core"
)

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

// Authentication - noop implementations
func (n *NoopMetrics) RecordLogin(result string, duration time.Duration) {}
func (n *NoopMetrics) RecordCandidates(count int)                        {}
func (n *NoopMetrics) RecordPasswordChange(success bool)                 {}

// Remote panel - noop implementations
func (n *NoopMetrics) RecordRemoteCall(method string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordRemoteSession(opened bool)                                     {}

// Local accounts - noop implementations
func (n *NoopMetrics) RecordProvision(result string)   {}
func (n *NoopMetrics) RecordAccountDeleted()           {}
func (n *NoopMetrics) SetLocalAccountsCount(count int) {}

// Database Operations - noop implementations
func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
