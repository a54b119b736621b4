package handlers

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/pairing"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/session"
)

// ListSessionsHandler returns the session held on ?date=, or every session
// between ?from= and ?to= when no date is given.
func ListSessionsHandler(store session.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if date := q.Get("date"); date != "" {
			sess, err := store.FindByDate(date)
			if err != nil {
				writeError(w, "Failed to find session", err)
				return
			}
			writeJSON(w, http.StatusOK, sess)
			return
		}

		sessions, err := store.ListSessions(q.Get("from"), q.Get("to"))
		if err != nil {
			writeError(w, "Failed to list sessions", err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

func CreateSessionHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Date           string   `json:"date"`
			ServiceFee     *float64 `json:"serviceFee"`
			PerMatchReward *float64 `json:"perMatchReward"`
		}
		if err := decodeJSON(r, &body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		sess, err := processor.CreateSession(body.Date, body.ServiceFee, body.PerMatchReward)
		if err != nil {
			writeError(w, "Failed to create session", err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func GetSessionHandler(store session.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.GetSession(r.PathValue("id"))
		if err != nil {
			writeError(w, "Failed to get session", err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// UpdateSessionHandler changes the session's amounts. A new service fee is
// applied to its temporary participants too.
func UpdateSessionHandler(store session.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ServiceFee     *float64 `json:"serviceFee"`
			PerMatchReward *float64 `json:"perMatchReward"`
		}
		if err := decodeJSON(r, &body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		sess, err := store.UpdateSession(r.PathValue("id"), session.SessionUpdate{
			ServiceFee:     body.ServiceFee,
			PerMatchReward: body.PerMatchReward,
		})
		if err != nil {
			writeError(w, "Failed to update session", err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// SessionSummaryHandler returns the session's settlement sheet.
func SessionSummaryHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := processor.SessionReport(r.PathValue("id"))
		if err != nil {
			writeError(w, "Failed to build session summary", err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// ScheduleHandler pairs the session's roster and returns the match order.
// With post=true the schedule is also posted to Slack.
func ScheduleHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		mode := pairing.ModeRandom
		if v := q.Get("mode"); v != "" {
			parsed, ok := pairing.ParseMode(v)
			if !ok {
				http.Error(w, "mode must be random or balanced", http.StatusBadRequest)
				return
			}
			mode = parsed
		}

		var seed *uint64
		if v := q.Get("seed"); v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				http.Error(w, "seed must be a non-negative integer", http.StatusBadRequest)
				return
			}
			seed = &n
		}

		sess, plan, err := processor.GeneratePlan(r.PathValue("id"), mode, seed)
		if err != nil {
			writeError(w, "Failed to generate schedule", err)
			return
		}

		if q.Get("post") == "true" {
			if err := processor.AnnounceSchedule(sess, plan, IsDryRunFromContext(r)); err != nil {
				// The schedule itself is still valid.
				log.Error("Failed to post schedule", "sessionID", sess.ID, "error", err)
			}
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

// CloseSessionHandler publishes the session-closed event.
func CloseSessionHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := processor.CloseSession(id, IsDryRunFromContext(r)); err != nil {
			writeError(w, "Failed to close session", err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "closed", "session_id": id})
	}
}
