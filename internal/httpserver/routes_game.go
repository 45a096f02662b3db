// internal/httpserver/routes_game.go
//
// HTTP surface for a server-held play-through.
//   - POST /game/new   → create a session over today's events.
//   - POST /game/start → instructions → countdown.
//   - POST /game/guess → score one event; on the last event the server
//     submits the leaderboard entry exactly once.
//   - POST /game/blur  → page-visibility-lost signal; flags, never blocks.
//
// Sessions are held in the in-memory store for the duration of one round.
// A failed leaderboard submission is logged and the player still gets their
// results.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"whenwasit/internal/game"
	"whenwasit/internal/leaderboard"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleGameNew)
		r.Post("/start", s.handleGameStart)
		r.Post("/guess", s.handleGameGuess)
		r.Post("/blur", s.handleGameBlur)
	})
}

type gameNewReq struct {
	Name string `json:"name"`
}

type gameNewRes struct {
	SessionID string      `json:"sessionId"`
	Date      string      `json:"date"`
	State     string      `json:"state"`
	Events    []eventView `json:"events"`
}

// eventView hides the answer year from the playing client.
type eventView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// handleGameNew creates a session over today's events.
func (s *Server) handleGameNew(w http.ResponseWriter, r *http.Request) {
	var req gameNewReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	date, evs := s.resolver.EventsFor(r.Context(), time.Now())
	if len(evs) == 0 {
		// No playable events anywhere; surface a blocked state, not an error.
		writeJSON(w, http.StatusOK, gameNewRes{Date: date, State: "blocked", Events: []eventView{}})
		return
	}

	sess := game.NewSession(req.Name, date, evs)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	views := make([]eventView, len(evs))
	for i, e := range evs {
		views[i] = eventView{ID: e.ID, Name: e.Name, Emoji: e.Emoji}
	}
	writeJSON(w, http.StatusOK, gameNewRes{
		SessionID: sess.ID,
		Date:      date,
		State:     string(sess.State),
		Events:    views,
	})
}

type gameRef struct {
	SessionID string `json:"sessionId"`
}

// handleGameStart begins the 3-2-1 countdown.
func (s *Server) handleGameStart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := sess.Start(time.Now()); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	_ = s.sessions.Save(r.Context(), sess)
	writeJSON(w, http.StatusOK, map[string]string{"state": string(sess.State)})
}

type gameGuessReq struct {
	SessionID string `json:"sessionId"`
	Year      int    `json:"year"`
}

type gameGuessRes struct {
	Result     leaderboard.GameResult `json:"result"`
	State      string                 `json:"state"`
	TotalScore int                    `json:"totalScore"`
	ShareText  string                 `json:"shareText,omitempty"`
}

// handleGameGuess scores the current event and advances the session.
func (s *Server) handleGameGuess(w http.ResponseWriter, r *http.Request) {
	var req gameGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "no session")
		return
	}

	now := time.Now()
	result, err := sess.Guess(now, req.Year)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = s.sessions.Save(r.Context(), sess)

	res := gameGuessRes{Result: result, State: string(sess.State), TotalScore: sess.TotalScore()}
	if sess.State == game.StateComplete {
		res.ShareText = game.ShareText(sess.Results, getEnv("SITE_URL", "http://localhost:3000"))
		if entry, err := sess.Entry(now); err == nil {
			if err := s.lb.Submit(r.Context(), entry); err != nil {
				// Non-fatal: the player still sees their results.
				log.Warn().Err(err).Msg("leaderboard submission failed")
			}
		}
		_ = s.sessions.Save(r.Context(), sess)
	}
	writeJSON(w, http.StatusOK, res)
}

// handleGameBlur records the visibility-lost cheat signal.
func (s *Server) handleGameBlur(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	sess.FlagBlur(time.Now())
	_ = s.sessions.Save(r.Context(), sess)
	writeJSON(w, http.StatusOK, map[string]bool{"flagged": sess.PotentialCheater})
}

// loadSession decodes a {sessionId} body and fetches the session.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	var ref gameRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil || ref.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId required")
		return nil, false
	}
	sess, err := s.sessions.Get(r.Context(), ref.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "no session")
		return nil, false
	}
	return sess, true
}
