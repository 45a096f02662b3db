// internal/httpserver/routes_leaderboard.go
//
// Leaderboard endpoints.
//   - GET  /leaderboard         → top 100 entries, total score descending.
//   - POST /leaderboard         → append an entry (defaults for missing fields).
//   - DELETE /leaderboard/{rank}, DELETE /leaderboard → admin curation.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"whenwasit/internal/leaderboard"
)

func (s *Server) handleLeaderboardList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lb.List(r.Context())
	if err != nil {
		// Degrade to an empty board rather than erroring at the player.
		log.Warn().Err(err).Msg("list leaderboard")
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLeaderboardSubmit(w http.ResponseWriter, r *http.Request) {
	var entry leaderboard.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.lb.Submit(r.Context(), entry); err != nil {
		log.Error().Err(err).Msg("submit leaderboard entry")
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleLeaderboardDelete removes one entry by its rank position in the
// sorted listing.
func (s *Server) handleLeaderboardDelete(w http.ResponseWriter, r *http.Request) {
	rank, err := strconv.Atoi(chi.URLParam(r, "rank"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "rank must be an integer")
		return
	}
	if err := s.lb.DeleteAt(r.Context(), rank); err != nil {
		if errors.Is(err, leaderboard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no entry at that rank")
			return
		}
		log.Error().Err(err).Int("rank", rank).Msg("delete leaderboard entry")
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLeaderboardClear(w http.ResponseWriter, r *http.Request) {
	if err := s.lb.Clear(r.Context()); err != nil {
		log.Error().Err(err).Msg("clear leaderboard")
		writeError(w, http.StatusInternalServerError, "failed to clear leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
