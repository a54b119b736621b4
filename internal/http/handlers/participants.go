package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/session"
)

func ListParticipantsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, err := store.GetSession(id); err != nil {
			writeError(w, "Failed to get session", err)
			return
		}
		participants, err := store.ListParticipants(id)
		if err != nil {
			writeError(w, "Failed to list participants", err)
			return
		}
		writeJSON(w, http.StatusOK, participants)
	}
}

// AddParticipantHandler adds a registered player (playerId) or a temporary
// participant (name, optional fee).
func AddParticipantHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string   `json:"playerId"`
			Name     string   `json:"name"`
			Fee      *float64 `json:"fee"`
		}
		if err := decodeJSON(r, &body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		p, err := proc.AddParticipant(r.PathValue("id"), session.NewParticipant{
			PlayerID: body.PlayerID,
			Name:     body.Name,
			Fee:      body.Fee,
		})
		if err != nil {
			writeError(w, "Failed to add participant", err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// UpdateAllFeesHandler sets one fee on every temporary participant.
func UpdateAllFeesHandler(store session.ParticipantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fee *float64 `json:"fee"`
		}
		if err := decodeJSON(r, &body); err != nil || body.Fee == nil {
			http.Error(w, "Body must be JSON with a fee", http.StatusBadRequest)
			return
		}

		updated, err := store.UpdateAllFees(r.PathValue("id"), *body.Fee)
		if err != nil {
			writeError(w, "Failed to update fees", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
	}
}

// UpdateParticipantHandler applies one action (win, loss, set_wins,
// set_losses, set_fee, set_paid) to a participant of the session.
func UpdateParticipantHandler(store session.Store, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Action string          `json:"action"`
			Value  json.RawMessage `json:"value"`
		}
		if err := decodeJSON(r, &body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		action, err := parseAction(body.Action, body.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		sessionID, participantID := r.PathValue("id"), r.PathValue("pid")
		if err := ensureInSession(store, sessionID, participantID); err != nil {
			writeError(w, "Failed to find participant", err)
			return
		}

		p, err := proc.ApplyAction(participantID, action)
		if err != nil {
			writeError(w, "Failed to update participant", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func DeleteParticipantHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, participantID := r.PathValue("id"), r.PathValue("pid")
		if err := ensureInSession(store, sessionID, participantID); err != nil {
			writeError(w, "Failed to find participant", err)
			return
		}
		if err := store.DeleteParticipant(participantID); err != nil {
			writeError(w, "Failed to delete participant", err)
			return
		}
		log.Debug("Deleted participant via API", "sessionID", sessionID, "participantID", participantID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseAction(kind string, value json.RawMessage) (processor.Action, error) {
	a := processor.Action{Kind: processor.ActionKind(kind)}
	switch a.Kind {
	case processor.ActionWin, processor.ActionLoss:
		return a, nil
	case processor.ActionSetPaid:
		if err := json.Unmarshal(value, &a.Flag); err != nil {
			return a, fmt.Errorf("set_paid needs a boolean value")
		}
		return a, nil
	case processor.ActionSetWins, processor.ActionSetLosses, processor.ActionSetFee:
		if err := json.Unmarshal(value, &a.Number); err != nil {
			return a, fmt.Errorf("%s needs a numeric value", kind)
		}
		return a, nil
	default:
		return a, fmt.Errorf("unknown action %q", kind)
	}
}

func ensureInSession(store session.Store, sessionID, participantID string) error {
	participants, err := store.ListParticipants(sessionID)
	if err != nil {
		return err
	}
	for _, p := range participants {
		if p.ID == participantID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in session %s", session.ErrParticipantNotFound, participantID, sessionID)
}
