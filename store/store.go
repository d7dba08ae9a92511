// Package store keeps a history of batch summaries in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/montyhall/report"
)

const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
	id         TEXT PRIMARY KEY,
	created    INTEGER NOT NULL,
	trials     INTEGER NOT NULL,
	threads    INTEGER NOT NULL,
	seed       TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	rows_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS summaries_created ON summaries (created);
`

var errNoID = errors.New("summary has no id")

// Store is SQLite-backed persistence for batch summaries.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path. Use MemoryPath for a
// throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := MemoryPath
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection, so a :memory: database is the same for every query.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("store-opened")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveSummary(ctx context.Context, sum report.Summary) error {
	if sum.ID == "" {
		return errNoID
	}
	rows, err := json.Marshal(sum.Rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO summaries (id, created, trials, threads, seed, elapsed_ms, rows_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created = excluded.created,
			trials = excluded.trials,
			threads = excluded.threads,
			seed = excluded.seed,
			elapsed_ms = excluded.elapsed_ms,
			rows_json = excluded.rows_json`,
		sum.ID, sum.Created.UTC().UnixMilli(), sum.Trials, sum.Threads, sum.Seed,
		sum.ElapsedMS, string(rows))
	if err != nil {
		return fmt.Errorf("save summary %s: %w", sum.ID, err)
	}
	return nil
}

// ListSummaries returns up to limit summaries, newest first.
func (s *Store) ListSummaries(ctx context.Context, limit int) ([]report.Summary, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created, trials, threads, seed, elapsed_ms, rows_json
		FROM summaries ORDER BY created DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var sums []report.Summary
	for rows.Next() {
		var (
			sum      report.Summary
			created  int64
			rowsJSON string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.Trials, &sum.Threads, &sum.Seed,
			&sum.ElapsedMS, &rowsJSON); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.Created = time.UnixMilli(created).UTC()
		if err := json.Unmarshal([]byte(rowsJSON), &sum.Rows); err != nil {
			return nil, fmt.Errorf("unmarshal rows of %s: %w", sum.ID, err)
		}
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}
