package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/notifier"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/slack-go/slack"
)

// LeaderboardCommandHandler answers the /leaderboard slash command. Without
// text it returns the month's leaderboard; with text it returns the stats of
// the first player whose name contains it.
func LeaderboardCommandHandler(processor *processor.Processor, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notifier == nil {
			http.Error(w, "Slack is not configured", http.StatusServiceUnavailable)
			return
		}

		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			log.Error("Failed to parse slash command", "error", err)
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		period := processor.CurrentPeriod()
		query := strings.TrimSpace(cmd.Text)
		log.Info("Received leaderboard command", "user", cmd.UserName, "text", query)

		var msg any
		if query == "" {
			entries, err := processor.Leaderboard(period)
			if err != nil {
				writeError(w, "Failed to build leaderboard", err)
				return
			}
			msg, err = notifier.FormatLeaderboardResponse(entries, period)
			if err != nil {
				writeError(w, "Failed to format leaderboard", err)
				return
			}
			respondWithSlackMsg(w, msg)
			return
		}

		entry, err := processor.FindPlayerEntry(query, period)
		if err != nil {
			writeError(w, "Failed to look up player", err)
			return
		}
		if entry == nil {
			log.Warn("Could not find player on leaderboard", "query", query)
			msg, err = notifier.FormatPlayerNotFoundResponse(query)
		} else {
			msg, err = notifier.FormatPlayerStatsResponse(entry, period)
		}
		if err != nil {
			writeError(w, "Failed to format player stats", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
