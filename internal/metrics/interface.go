package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncResultsRecorded()
	IncSchedulesGenerated(mode string)
	IncPairingFallbacks()
	IncSessionsClosed()
	ObserveReportDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// UsageStore keeps lifetime usage counters in the database so they survive
// restarts, unlike the Prometheus series.
type UsageStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
