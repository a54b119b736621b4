package notifier

import (
	"github.com/mauv0809/court-ledger/internal/ledger"
	"github.com/mauv0809/court-ledger/internal/pairing"
	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/mauv0809/court-ledger/internal/session"
)

// Notifier defines a high-level interface for sending notifications about business events.
type Notifier interface {
	SendLeaderboard(entries []ranking.Entry, period ranking.Period, dryRun bool) error
	SendSchedule(sess session.Session, plan pairing.Plan, dryRun bool) error
	// For closed sessions
	SendSessionReport(report ledger.SessionReport, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []ranking.Entry, period ranking.Period) (any, error)
	FormatPlayerStatsResponse(entry *ranking.Entry, period ranking.Period) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
