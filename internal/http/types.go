package http

import (
	"net/http"

	"github.com/mauv0809/court-ledger/internal/club"
	"github.com/mauv0809/court-ledger/internal/config"
	"github.com/mauv0809/court-ledger/internal/notifier"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/session"
)

type Server struct {
	Players        club.PlayerStore
	Sessions       session.Store
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
}
