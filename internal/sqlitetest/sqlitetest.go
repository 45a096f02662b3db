// Package sqlitetest opens throwaway in-memory databases with the server
// schema applied, for store and handler tests.
package sqlitetest

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// schema mirrors sql/001_init.sql.
const schema = `
CREATE TABLE IF NOT EXISTS events (
  id    TEXT PRIMARY KEY,
  name  TEXT NOT NULL,
  year  INTEGER NOT NULL,
  emoji TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS daily_event_selection (
  id         TEXT PRIMARY KEY,
  event_ids  TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS leaderboard_entries (
  id                   INTEGER PRIMARY KEY AUTOINCREMENT,
  name                 TEXT NOT NULL DEFAULT 'Anonymous',
  total_score          INTEGER NOT NULL DEFAULT 0,
  played_at            TEXT NOT NULL,
  results              TEXT NOT NULL DEFAULT '[]',
  is_potential_cheater INTEGER NOT NULL DEFAULT 0
);
`

// Open returns an in-memory SQLite handle with the schema applied.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// :memory: databases are per-connection; keep the pool at one.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
