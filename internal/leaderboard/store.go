// internal/leaderboard/store.go
//
// Append-only leaderboard over the leaderboard_entries table.
//
// Submission applies defaults instead of validating: a payload with missing
// fields is stored as name="Anonymous", totalScore=0, results=[], cheater
// flag false. Entries are never updated; the admin can delete one entry by
// its rank in the sorted listing, or clear everything.

package leaderboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GameResult is one answered event within a round.
type GameResult struct {
	EventID     string `json:"eventId"`
	GuessedYear int    `json:"guessedYear"`
	ActualYear  int    `json:"actualYear"`
	Score       int    `json:"score"`
	Emoji       string `json:"emoji"`
	TimeSpent   int    `json:"timeSpent"` // seconds
}

// Entry is one completed session's aggregated result.
type Entry struct {
	Name               string       `json:"name"`
	TotalScore         int          `json:"totalScore"`
	Date               time.Time    `json:"date"`
	Results            []GameResult `json:"results"`
	IsPotentialCheater bool         `json:"isPotentialCheater"`
}

// listLimit caps reads at the top 100 entries.
const listLimit = 100

var (
	// ErrUnavailable is returned when no persistence backend is reachable.
	ErrUnavailable = errors.New("leaderboard backend unavailable")
	// ErrNotFound is returned by DeleteAt for an out-of-range rank.
	ErrNotFound = errors.New("leaderboard entry not found")
)

// Store persists leaderboard entries.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Submit appends an entry, filling defaults for missing fields.
func (s *Store) Submit(ctx context.Context, e Entry) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if e.Name == "" {
		e.Name = "Anonymous"
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if e.Results == nil {
		e.Results = []GameResult{}
	}
	results, err := json.Marshal(e.Results)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leaderboard_entries (name, total_score, played_at, results, is_potential_cheater)
		 VALUES (?,?,?,?,?)`,
		e.Name, e.TotalScore, e.Date.UTC().Format(time.RFC3339), string(results), e.IsPotentialCheater)
	if err != nil {
		return fmt.Errorf("submit entry: %w", err)
	}
	return nil
}

// List returns up to the top 100 entries by total score descending.
// Ties keep insertion order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, total_score, played_at, results, is_potential_cheater
		 FROM leaderboard_entries
		 ORDER BY total_score DESC, id ASC
		 LIMIT ?`, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			played  string
			results string
		)
		if err := rows.Scan(&e.Name, &e.TotalScore, &played, &results, &e.IsPotentialCheater); err != nil {
			return nil, err
		}
		e.Date, _ = time.Parse(time.RFC3339, played)
		if err := json.Unmarshal([]byte(results), &e.Results); err != nil || e.Results == nil {
			e.Results = []GameResult{}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteAt removes the entry at a zero-based rank position of the sorted
// listing.
func (s *Store) DeleteAt(ctx context.Context, rank int) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if rank < 0 {
		return ErrNotFound
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM leaderboard_entries
		 ORDER BY total_score DESC, id ASC
		 LIMIT 1 OFFSET ?`, rank).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find entry at rank %d: %w", rank, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM leaderboard_entries WHERE id=?`, id); err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}
