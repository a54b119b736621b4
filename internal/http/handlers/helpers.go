package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/club"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/mauv0809/court-ledger/internal/session"
	"github.com/slack-go/slack"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, club.ErrPlayerNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrAlreadyInSession):
		return http.StatusConflict
	case errors.Is(err, club.ErrEmptyName),
		errors.Is(err, session.ErrUnknownPlayer),
		errors.Is(err, session.ErrNameRequired),
		errors.Is(err, session.ErrInvalidDate),
		errors.Is(err, session.ErrInvalidScore),
		errors.Is(err, session.ErrInvalidFee),
		errors.Is(err, processor.ErrUnknownAction),
		errors.Is(err, processor.ErrUnknownReportType),
		errors.Is(err, processor.ErrInvalidReportQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it with the status matching its kind.
// Internal errors are not echoed to the client.
func writeError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err)
		http.Error(w, msg, status)
		return
	}
	log.Warn(msg, "error", err, "status", status)
	http.Error(w, err.Error(), status)
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	writeJSON(w, http.StatusOK, slackMsg)
}

// periodFromQuery reads month and year query parameters, defaulting to the
// processor's current month.
func periodFromQuery(r *http.Request, current ranking.Period) (ranking.Period, bool) {
	period := current
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return period, false
		}
		period.Month = m
	}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return period, false
		}
		period.Year = y
	}
	return period, true
}
