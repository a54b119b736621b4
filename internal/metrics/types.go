package metrics

import (
	"database/sql"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	ResultsRecorded    prometheus.Counter
	SchedulesGenerated *prometheus.CounterVec
	PairingFallbacks   prometheus.Counter
	SessionsClosed     prometheus.Counter
	ReportDuration     prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Usage counter keys.
const (
	KeySessionsCreated    = "sessions_created"
	KeyResultsRecorded    = "results_recorded"
	KeySchedulesGenerated = "schedules_generated"
	KeySessionsClosed     = "sessions_closed"
	KeyReportsExported    = "reports_exported"
)

// usageStore handles usage counter database operations.
type usageStore struct {
	db *sql.DB
	mu sync.Mutex
}
