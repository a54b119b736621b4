package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ResultsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_results_recorded_total",
			Help: "The total number of win/loss results recorded on participants.",
		}),
		SchedulesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_schedules_generated_total",
			Help: "The total number of match schedules generated, by pairing mode actually used.",
		}, []string{"mode"}),
		PairingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_pairing_fallbacks_total",
			Help: "The total number of balanced pairings that fell back to random pairing.",
		}),
		SessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_sessions_closed_total",
			Help: "The total number of sessions closed.",
		}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_report_duration_seconds",
			Help:    "The duration of building a session report.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ResultsRecorded,
		s.SchedulesGenerated,
		s.PairingFallbacks,
		s.SessionsClosed,
		s.ReportDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncResultsRecorded() {
	s.ResultsRecorded.Inc()
}

func (s *Service) IncSchedulesGenerated(mode string) {
	s.SchedulesGenerated.WithLabelValues(mode).Inc()
}

func (s *Service) IncPairingFallbacks() {
	s.PairingFallbacks.Inc()
}

func (s *Service) IncSessionsClosed() {
	s.SessionsClosed.Inc()
}

func (s *Service) ObserveReportDuration(duration float64) {
	s.ReportDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
