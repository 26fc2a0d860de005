package metrics

import (
	"sync"

	"github.com/go-authgate/ispconfig-auth/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication Metrics
	AuthLoginTotal       *prometheus.CounterVec
	AuthLoginDuration    prometheus.Histogram
	AuthCandidates       prometheus.Histogram
	PasswordChangesTotal *prometheus.CounterVec

	// Remote Panel Metrics
	RemoteCallsTotal          *prometheus.CounterVec
	RemoteCallDuration        *prometheus.HistogramVec
	RemoteSessionsActive      prometheus.Gauge
	RemoteSessionsOpenedTotal prometheus.Counter

	// Local Account Metrics
	AccountsProvisionedTotal *prometheus.CounterVec
	AccountsDeletedTotal     prometheus.Counter
	LocalAccounts            prometheus.Gauge

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	m := &Metrics{
		// Authentication Metrics
		AuthLoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ispconfig_auth_logins_total",
				Help: "Total number of password checks",
			},
			[]string{"result"}, // success, invalid_credentials, unavailable, error
		),
		AuthLoginDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ispconfig_auth_login_duration_seconds",
				Help:    "Time taken to check a password against the panel",
				Buckets: prometheus.DefBuckets,
			},
		),
		AuthCandidates: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ispconfig_auth_login_candidates",
				Help:    "Number of identity candidates derived from a login name",
				Buckets: []float64{0, 1, 2, 3, 5, 10},
			},
		),
		PasswordChangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ispconfig_auth_password_changes_total",
				Help: "Total number of password change attempts",
			},
			[]string{"result"}, // success, failure
		),

		// Remote Panel Metrics
		RemoteCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ispconfig_remote_calls_total",
				Help: "Total number of remote API calls",
			},
			[]string{"method", "result"},
		),
		RemoteCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ispconfig_remote_call_duration_seconds",
				Help:    "Remote API call latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RemoteSessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ispconfig_remote_sessions_active",
				Help: "Current number of open remote sessions",
			},
		),
		RemoteSessionsOpenedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ispconfig_remote_sessions_opened_total",
				Help: "Total number of remote sessions opened",
			},
		),

		// Local Account Metrics
		AccountsProvisionedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ispconfig_accounts_provisioned_total",
				Help: "Total number of local account provisioning attempts",
			},
			[]string{"result"}, // created, existing, error
		),
		AccountsDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ispconfig_accounts_deleted_total",
				Help: "Total number of local accounts deleted",
			},
		),
		LocalAccounts: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ispconfig_accounts_local",
				Help: "Current number of provisioned local accounts",
			},
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		// Database Query Metrics
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"}, // count_accounts, provision, delete_account
		),
	}

	return m
}
