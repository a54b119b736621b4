package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/processor"
)

// PostLeaderboardHandler posts the month's leaderboard to the Slack channel.
// It is meant to be triggered by a scheduler.
func PostLeaderboardHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, ok := periodFromQuery(r, processor.CurrentPeriod())
		if !ok {
			http.Error(w, "month must be 1-12 and year positive", http.StatusBadRequest)
			return
		}

		isDryRun := IsDryRunFromContext(r)
		log.Info("Posting leaderboard", "month", period.Month, "year", period.Year, "dryRun", isDryRun)
		if err := processor.PostLeaderboard(period, isDryRun); err != nil {
			writeError(w, "Failed to post leaderboard", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Leaderboard posted")
	}
}
