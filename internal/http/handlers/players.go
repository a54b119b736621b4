package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/club"
)

func ListPlayersHandler(store club.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListPlayers()
		if err != nil {
			writeError(w, "Failed to get players", err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func CreatePlayerHandler(store club.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		player, err := store.CreatePlayer(body.Name)
		if err != nil {
			writeError(w, "Failed to create player", err)
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func DeletePlayerHandler(store club.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := store.DeletePlayer(id); err != nil {
			writeError(w, "Failed to delete player", err)
			return
		}
		log.Debug("Deleted player via API", "playerID", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
