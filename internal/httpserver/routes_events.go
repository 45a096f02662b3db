// internal/httpserver/routes_events.go
//
// Event catalog endpoints.
//   - GET /events               → today's 5 playable events.
//   - GET /events?checkAdmin=1  → full catalog + today's stored selection ids.
//   - POST/PATCH/DELETE /events → admin CRUD (mounted behind requireAdmin).
//
// Reads degrade to the bundled catalog when the database is unreachable.
// Deleting an event also strips the id from today's selection row, since the
// selection store does not cascade on its own.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"whenwasit/internal/daily"
	"whenwasit/internal/events"
)

// handleEvents serves the playable round, or the admin catalog view when
// checkAdmin=1.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if r.URL.Query().Get("checkAdmin") == "1" {
		date := daily.DateKey(now)
		all, err := s.catalog.List(r.Context())
		if err != nil || len(all) == 0 {
			all = events.Fallback()
		}
		ids := []string{}
		if sel, ok := s.resolver.DailyIDs(r.Context(), date); ok {
			ids = sel.EventIDs
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"date":          date,
			"events":        all,
			"dailyEventIds": ids,
		})
		return
	}

	date, evs := s.resolver.EventsFor(r.Context(), now)
	writeJSON(w, http.StatusOK, map[string]any{
		"date":   date,
		"events": evs,
	})
}

type eventCreateReq struct {
	Name  string `json:"name"`
	Year  *int   `json:"year"`
	Emoji string `json:"emoji"`
}

// handleEventCreate inserts a catalog event with a fresh id.
func (s *Server) handleEventCreate(w http.ResponseWriter, r *http.Request) {
	var req eventCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" || req.Year == nil {
		writeError(w, http.StatusBadRequest, "name and year are required")
		return
	}
	ev, err := s.catalog.Create(r.Context(), req.Name, *req.Year, req.Emoji)
	if err != nil {
		log.Error().Err(err).Msg("create event")
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

type eventUpdateReq struct {
	Name  *string `json:"name"`
	Year  *int    `json:"year"`
	Emoji *string `json:"emoji"`
}

// handleEventUpdate applies a partial update; unknown ids are a silent no-op.
func (s *Server) handleEventUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req eventUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	err := s.catalog.Update(r.Context(), id, events.Patch{
		Name: req.Name, Year: req.Year, Emoji: req.Emoji,
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("update event")
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleEventDelete removes an event and strips it from today's selection.
func (s *Server) handleEventDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("delete event")
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	today := daily.DateKey(time.Now())
	if err := s.daily.StripID(r.Context(), today, id); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("strip id from daily selection")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
