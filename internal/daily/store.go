package daily

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Selection is one persisted daily_event_selection row.
type Selection struct {
	Date      string    `json:"selectedFor"`
	EventIDs  []string  `json:"eventIds"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists the date → event-id selection. At most one row is meant to
// survive at any time; generating a new day's row prunes the rest.
type Store struct{ db *sql.DB }

// ErrUnavailable is returned when no persistence backend is reachable.
var ErrUnavailable = errors.New("daily selection backend unavailable")

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get loads the selection for a date. ok is false when no row exists.
func (s *Store) Get(ctx context.Context, date string) (sel Selection, ok bool, err error) {
	if s.db == nil {
		return Selection{}, false, ErrUnavailable
	}
	var idsRaw, updated string
	err = s.db.QueryRowContext(ctx,
		`SELECT event_ids, updated_at FROM daily_event_selection WHERE id=?`, date,
	).Scan(&idsRaw, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Selection{}, false, nil
	}
	if err != nil {
		return Selection{}, false, fmt.Errorf("get selection %s: %w", date, err)
	}
	sel.Date = date
	if err := json.Unmarshal([]byte(idsRaw), &sel.EventIDs); err != nil {
		// Corrupt row; treat as absent so the read path regenerates.
		return Selection{}, false, nil
	}
	sel.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return sel, true, nil
}

// Set upserts the selection for a date. A conflicting row for the same date
// is overwritten (last write wins).
func (s *Store) Set(ctx context.Context, date string, ids []string, updatedAt time.Time) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO daily_event_selection (id, event_ids, updated_at) VALUES (?,?,?)
		 ON CONFLICT(id) DO UPDATE SET event_ids=excluded.event_ids, updated_at=excluded.updated_at`,
		date, string(raw), updatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set selection %s: %w", date, err)
	}
	return nil
}

// PruneOther deletes every row whose date differs from keepDate. Idempotent.
func (s *Store) PruneOther(ctx context.Context, keepDate string) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM daily_event_selection WHERE id<>?`, keepDate); err != nil {
		return fmt.Errorf("prune selections: %w", err)
	}
	return nil
}

// StripID removes an event id from the stored selection for a date, if
// present. Used when an event is deleted from the catalog.
func (s *Store) StripID(ctx context.Context, date, eventID string) error {
	sel, ok, err := s.Get(ctx, date)
	if err != nil || !ok {
		return err
	}
	kept := sel.EventIDs[:0]
	removed := false
	for _, id := range sel.EventIDs {
		if id == eventID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return nil
	}
	return s.Set(ctx, date, kept, time.Now())
}
