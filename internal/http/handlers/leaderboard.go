package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/report"
)

func LeaderboardHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, ok := periodFromQuery(r, processor.CurrentPeriod())
		if !ok {
			http.Error(w, "month must be 1-12 and year positive", http.StatusBadRequest)
			return
		}

		entries, err := processor.Leaderboard(period)
		if err != nil {
			writeError(w, "Failed to build leaderboard", err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// LeaderboardChartHandler renders the month's win rates as a PNG.
func LeaderboardChartHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, ok := periodFromQuery(r, processor.CurrentPeriod())
		if !ok {
			http.Error(w, "month must be 1-12 and year positive", http.StatusBadRequest)
			return
		}

		entries, err := processor.Leaderboard(period)
		if err != nil {
			writeError(w, "Failed to build leaderboard", err)
			return
		}

		title := fmt.Sprintf("Win rates %s %d", time.Month(period.Month), period.Year)
		img, err := report.WinRateChart(entries, title)
		if err != nil {
			writeError(w, "Failed to render chart", err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(img); err != nil {
			log.Error("Failed to write chart", "error", err)
		}
	}
}
