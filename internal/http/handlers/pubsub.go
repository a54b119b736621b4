package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/pubsub"
	"github.com/mauv0809/court-ledger/internal/session"
)

// SessionClosedHandler is the push endpoint of the session-closed subscription.
func SessionClosedHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received session-closed message", "body", string(bodyBytes))

		rawData, err := pubsub.DecodePush(bodyBytes)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		if err := processor.HandleSessionClosed(rawData); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				// Acknowledge so Pub/Sub does not redeliver an event that can never succeed.
				log.Warn("Dropping session-closed event for unknown session", "error", err)
				w.Write([]byte("OK"))
				return
			}
			log.Error("Failed to handle session-closed event", "error", err)
			http.Error(w, "Failed to handle session-closed event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
