package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/atikulmunna/gastroguard/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	logged_at   INTEGER NOT NULL,
	ingested_at INTEGER NOT NULL,
	meal        TEXT    NOT NULL,
	pain        INTEGER NOT NULL CHECK (pain BETWEEN 0 AND 10),
	stress      INTEGER NOT NULL CHECK (stress BETWEEN 0 AND 10),
	remedy      TEXT    NOT NULL DEFAULT '',
	condition   TEXT    NOT NULL DEFAULT '',
	notes       TEXT    NOT NULL DEFAULT ''
);`

// SQLite persists entries in a single-file database so they survive
// between CLI invocations. Timestamps are stored as Unix nanoseconds and
// read back in the local zone.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// One writer at a time; the driver serializes access on a single conn.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, e model.LogEntry) error {
	ingested := e.IngestedAt
	if ingested.IsZero() {
		ingested = e.LoggedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (logged_at, ingested_at, meal, pain, stress, remedy, condition, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.LoggedAt.UnixNano(), ingested.UnixNano(), e.Meal, e.PainLevel, e.StressLevel, e.Remedy, e.Condition, e.Notes)
	if err != nil {
		return fmt.Errorf("sqlite store: append: %w", err)
	}
	return nil
}

func (s *SQLite) All(ctx context.Context) ([]model.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT logged_at, ingested_at, meal, pain, stress, remedy, condition, notes
		 FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: query: %w", err)
	}
	defer rows.Close()

	var out []model.LogEntry
	for rows.Next() {
		var (
			e                  model.LogEntry
			logged, ingestedAt int64
		)
		if err := rows.Scan(&logged, &ingestedAt, &e.Meal, &e.PainLevel, &e.StressLevel, &e.Remedy, &e.Condition, &e.Notes); err != nil {
			return nil, fmt.Errorf("sqlite store: scan: %w", err)
		}
		e.LoggedAt = time.Unix(0, logged)
		e.IngestedAt = time.Unix(0, ingestedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite store: count: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
