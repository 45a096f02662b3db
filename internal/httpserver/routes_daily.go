// internal/httpserver/routes_daily.go
//
// Daily selection admin endpoints.
//   - GET /daily-events → full catalog + the stored selection row, verbatim.
//   - PUT /daily-events → admin override: upsert up to 5 event ids for a date.
//
// The PUT payload is shape-validated only (must be an array, at most 5 ids);
// ids are deliberately NOT checked against the catalog so an admin can stage
// a selection before creating its events. Fewer than 5 ids means "not yet
// finalized" and the player read path will regenerate.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"whenwasit/internal/daily"
	"whenwasit/internal/events"
)

// handleDailyGet returns the admin view of today's selection.
func (s *Server) handleDailyGet(w http.ResponseWriter, r *http.Request) {
	selectedFor := daily.DateKey(time.Now())

	evs, err := s.catalog.List(r.Context())
	if err != nil || len(evs) == 0 {
		evs = events.Fallback()
	}

	ids := []string{}
	var lastUpdated any
	if sel, ok := s.resolver.DailyIDs(r.Context(), selectedFor); ok {
		ids = sel.EventIDs
		if !sel.UpdatedAt.IsZero() {
			lastUpdated = sel.UpdatedAt.UTC().Format(time.RFC3339)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":        evs,
		"dailyEventIds": ids,
		"lastUpdated":   lastUpdated,
		"selectedFor":   selectedFor,
	})
}

type dailyPutReq struct {
	EventIDs    json.RawMessage `json:"eventIds"`
	SelectedFor string          `json:"selectedFor"`
}

// handleDailyPut upserts the selection for a date (default today).
func (s *Server) handleDailyPut(w http.ResponseWriter, r *http.Request) {
	var req dailyPutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ids, ok := normalizeIDs(req.EventIDs)
	if !ok {
		writeError(w, http.StatusBadRequest, "eventIds must be an array")
		return
	}
	if len(ids) > daily.RoundSize {
		writeError(w, http.StatusBadRequest, "Select at most 5 events")
		return
	}

	selectedFor := req.SelectedFor
	if selectedFor == "" {
		selectedFor = daily.DateKey(time.Now())
	}
	updatedAt := time.Now().UTC()

	if err := s.daily.Set(r.Context(), selectedFor, ids, updatedAt); err != nil {
		log.Error().Err(err).Str("date", selectedFor).Msg("update daily selection")
		writeError(w, http.StatusInternalServerError, "Failed to update daily selection")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"eventIds":    ids,
		"updatedAt":   updatedAt.Format(time.RFC3339),
		"selectedFor": selectedFor,
	})
}

// normalizeIDs accepts a JSON array of strings or numbers and stringifies the
// elements. ok is false when the payload is missing or not an array.
func normalizeIDs(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var elems []any
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	ids := make([]string, 0, len(elems))
	for _, el := range elems {
		switch v := el.(type) {
		case string:
			ids = append(ids, v)
		case float64:
			ids = append(ids, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			return nil, false
		}
	}
	return ids, true
}
