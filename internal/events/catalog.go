// internal/events/catalog.go
//
// SQLite-backed catalog service.
//
// Notes:
//   - List orders by name ascending (the order the admin screen shows).
//   - Update/Delete of an unknown id is a no-op: the admin UI only ever edits
//     ids it already fetched, so a missing row is not an error.
//   - When constructed without a database handle every method reports
//     ErrUnavailable and callers degrade to the bundled catalog.

package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// ErrUnavailable is returned when no persistence backend is reachable.
var ErrUnavailable = errors.New("event catalog backend unavailable")

// Catalog provides read/write access to the master event list.
type Catalog struct {
	db *sql.DB

	mu     sync.Mutex
	lastID int64 // last issued time-derived id, for monotonic uniqueness
}

// NewCatalog wraps a database handle. db may be nil (fallback-only mode).
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// List returns every event ordered by name ascending.
func (c *Catalog) List(ctx context.Context) ([]Event, error) {
	if c.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, name, year, emoji FROM events ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Year, &e.Emoji); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts a new event with a fresh time-derived id.
func (c *Catalog) Create(ctx context.Context, name string, year int, emoji string) (Event, error) {
	if c.db == nil {
		return Event{}, ErrUnavailable
	}
	e := Event{ID: c.newID(), Name: name, Year: year, Emoji: emoji}
	if _, err := c.db.ExecContext(ctx,
		`INSERT INTO events (id, name, year, emoji) VALUES (?,?,?,?)`,
		e.ID, e.Name, e.Year, e.Emoji); err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

// Patch carries the mutable fields of an event; nil means "leave unchanged".
type Patch struct {
	Name  *string
	Year  *int
	Emoji *string
}

// Update applies a partial update. Unknown ids are ignored.
func (c *Catalog) Update(ctx context.Context, id string, p Patch) error {
	if c.db == nil {
		return ErrUnavailable
	}
	_, err := c.db.ExecContext(ctx,
		`UPDATE events
		 SET name  = COALESCE(?, name),
		     year  = COALESCE(?, year),
		     emoji = COALESCE(?, emoji)
		 WHERE id = ?`,
		p.Name, p.Year, p.Emoji, id)
	if err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	return nil
}

// Delete removes an event. Unknown ids are ignored. The caller is responsible
// for stripping the id from today's daily selection; the store does not
// cascade.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if c.db == nil {
		return ErrUnavailable
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// newID issues a millisecond-timestamp id, bumped past the previous one so
// two creates in the same millisecond stay distinct.
func (c *Catalog) newID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return strconv.FormatInt(id, 10)
}
