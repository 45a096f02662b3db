// internal/httpserver/server.go
//
// HTTP server wiring for the WhenWasIt backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     Prometheus instrumentation).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Player endpoints: GET /events, GET/POST /leaderboard, /game/*.
//   - Admin endpoints (shared-password JWT): PUT /daily-events, event CRUD,
//     leaderboard deletion.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the admin cookie works).
//   - Every GET degrades to bundled/local data when SQLite is unreachable;
//     players never see raw backend errors.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"whenwasit/internal/daily"
	"whenwasit/internal/events"
	"whenwasit/internal/leaderboard"
	"whenwasit/internal/metrics"
	"whenwasit/internal/store"
)

// Server bundles the router, the SQLite-backed stores, and the in-memory
// session store.
type Server struct {
	r        *chi.Mux
	catalog  *events.Catalog
	daily    *daily.Store
	resolver *daily.Resolver
	lb       *leaderboard.Store
	sessions store.Store
}

// New constructs a Server, installs middleware, and registers routes.
// db may be nil; every store then runs in fallback mode.
func New(db *sql.DB, sessions store.Store) *Server {
	catalog := events.NewCatalog(db)
	dailyStore := daily.NewStore(db)
	s := &Server{
		r:        chi.NewRouter(),
		catalog:  catalog,
		daily:    dailyStore,
		resolver: daily.NewResolver(dailyStore, catalog),
		lb:       leaderboard.NewStore(db),
		sessions: sessions,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)
	s.r.Use(metrics.Middleware)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"whenwasit-go","endpoints":["/health","/events","/daily-events","/leaderboard","POST /game/new"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Player surface
	s.r.Get("/events", s.handleEvents)
	s.r.Get("/daily-events", s.handleDailyGet)
	s.r.Get("/leaderboard", s.handleLeaderboardList)
	s.r.Post("/leaderboard", s.handleLeaderboardSubmit)
	s.mountGame(s.r)

	// Admin surface
	s.r.Post("/admin/login", s.handleAdminLogin)
	s.r.Post("/admin/logout", s.handleAdminLogout)
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Put("/daily-events", s.handleDailyPut)
		r.Post("/events", s.handleEventCreate)
		r.Patch("/events/{id}", s.handleEventUpdate)
		r.Delete("/events/{id}", s.handleEventDelete)
		r.Delete("/leaderboard", s.handleLeaderboardClear)
		r.Delete("/leaderboard/{rank}", s.handleLeaderboardDelete)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:3000.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
