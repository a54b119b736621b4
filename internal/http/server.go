package http

import (
	"net/http"

	"github.com/mauv0809/court-ledger/internal/club"
	"github.com/mauv0809/court-ledger/internal/config"
	"github.com/mauv0809/court-ledger/internal/http/handlers"
	"github.com/mauv0809/court-ledger/internal/notifier"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/session"
)

// NewServer wires the routes. notifier may be nil when Slack is disabled.
func NewServer(players club.PlayerStore, sessions session.Store, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor) *Server {
	server := &Server{
		Players:        players,
		Sessions:       sessions,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(handler, paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(handlers.StatsHandler(s.Processor), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Players), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(handlers.CreatePlayerHandler(s.Players), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(handlers.DeletePlayerHandler(s.Players), paramsMiddleware))

	s.Router.Handle("GET /sessions", Chain(handlers.ListSessionsHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions", Chain(handlers.CreateSessionHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}", Chain(handlers.GetSessionHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("PATCH /sessions/{id}", Chain(handlers.UpdateSessionHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/participants", Chain(handlers.ListParticipantsHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/participants", Chain(handlers.AddParticipantHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("PATCH /sessions/{id}/participants", Chain(handlers.UpdateAllFeesHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("PATCH /sessions/{id}/participants/{pid}", Chain(handlers.UpdateParticipantHandler(s.Sessions, s.Processor), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}/participants/{pid}", Chain(handlers.DeleteParticipantHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/summary", Chain(handlers.SessionSummaryHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/schedule", Chain(handlers.ScheduleHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/close", Chain(handlers.CloseSessionHandler(s.Processor), paramsMiddleware))

	s.Router.Handle("GET /leaderboard", Chain(handlers.LeaderboardHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /leaderboard/chart.png", Chain(handlers.LeaderboardChartHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /leaderboard/post", Chain(handlers.PostLeaderboardHandler(s.Processor), paramsMiddleware))

	s.Router.Handle("GET /reports/{type}", Chain(handlers.ReportsHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /reports/{type}/export.xlsx", Chain(handlers.ExportReportsHandler(s.Processor), paramsMiddleware))

	s.Router.Handle("POST /pubsub/session-closed", Chain(handlers.SessionClosedHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(s.Processor, s.Notifier), paramsMiddleware, s.slackVerifyMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
