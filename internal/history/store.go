// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists pipeline runs in a local SQLite database. History
// is telemetry, not pipeline state: callers record best-effort and must not
// let a history failure change a run's outcome.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gabcplay/pkg/types"
)

const defaultMaxResults = 20

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at   TEXT    NOT NULL,
	input        TEXT    NOT NULL,
	options      TEXT    NOT NULL DEFAULT '[]',
	status       TEXT    NOT NULL,
	failed_stage TEXT    NOT NULL DEFAULT '',
	exit_code    INTEGER NOT NULL DEFAULT 0,
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	source_file  TEXT    NOT NULL DEFAULT '',
	score_file   TEXT    NOT NULL DEFAULT '',
	audio_file   TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.DBPath, creating parent
// directories and the schema as needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("history database path not set")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run and returns its assigned ID.
func (s *Store) Record(ctx context.Context, run types.Run) (int64, error) {
	opts, err := json.Marshal(run.Options)
	if err != nil {
		return 0, fmt.Errorf("encoding options: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, input, options, status, failed_stage,
		                  exit_code, duration_ms, source_file, score_file, audio_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Input,
		string(opts),
		string(run.Status),
		run.FailedStage,
		run.ExitCode,
		run.Duration.Milliseconds(),
		run.SourceFile,
		run.ScoreFile,
		run.AudioFile,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// List returns runs most-recent-first. limit <= 0 uses the configured
// maximum.
func (s *Store) List(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, input, options, status, failed_stage,
		       exit_code, duration_ms, source_file, score_file, audio_file
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var (
			run        types.Run
			startedAt  string
			optsJSON   string
			durationMS int64
			status     string
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.Input, &optsJSON, &status,
			&run.FailedStage, &run.ExitCode, &durationMS,
			&run.SourceFile, &run.ScoreFile, &run.AudioFile); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Status = types.RunStatus(status)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parsing run %d timestamp: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(optsJSON), &run.Options); err != nil {
			return nil, fmt.Errorf("decoding run %d options: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
