// internal/events/events.go
//
// Historical event catalog for the WhenWasIt game.
//
// Responsibilities:
//   - Define the Event record (id, name, year, emoji). Years are signed:
//     negative = BC, positive = AD.
//   - Load the bundled fallback catalog from an environment-provided JSON file
//     or the embedded default list.
//   - CRUD over the events table when SQLite is available.
//
// Initialization behavior (Init):
//   1. If EVENTS_FILE is set, load the catalog from that JSON file.
//   2. Otherwise fall back to the embedded default catalog.
//
// The fallback catalog is what the API serves when the database is
// unreachable; it is also used to seed an empty events table at startup.
//
// Constraints:
//   • Event ids are strings but kept numeric-friendly (time-derived) so the
//     deterministic daily selector can order them.
//   • Initialization is run once (sync.Once).

package events

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Event is a historical occurrence used as a trivia prompt.
type Event struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Year  int    `json:"year"` // negative = BC, positive = AD
	Emoji string `json:"emoji"`
}

//go:embed default_events.json
var embeddedEvents []byte

var (
	initOnce   sync.Once
	fallback   []Event
	initialErr error
)

// Init loads the fallback catalog. Safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		raw := embeddedEvents
		if path := os.Getenv("EVENTS_FILE"); path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("read %s: %w", path, err)
				return
			}
			raw = b
		}
		var evs []Event
		if err := json.Unmarshal(raw, &evs); err != nil {
			initialErr = fmt.Errorf("parse events: %w", err)
			return
		}
		if len(evs) == 0 {
			initialErr = errors.New("empty event catalog")
			return
		}
		fallback = evs
	})
	return initialErr
}

// Fallback returns a copy of the bundled catalog.
func Fallback() []Event {
	out := make([]Event, len(fallback))
	copy(out, fallback)
	return out
}
