// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records batch runs in a local SQLite database so past
// extraction activity can be inspected after the summary artifact has been
// overwritten by a newer run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"featex/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			total_files INTEGER NOT NULL,
			processed_files INTEGER NOT NULL,
			success_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			success_rate REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			file TEXT NOT NULL,
			success INTEGER NOT NULL,
			features_found INTEGER NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record persists one batch summary and its per-file outcomes atomically.
func (s *Store) Record(ctx context.Context, summary types.BatchSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, total_files, processed_files, success_count, error_count, success_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.StartedAt.Format(time.RFC3339Nano),
		summary.FinishedAt.Format(time.RFC3339Nano),
		summary.TotalFiles,
		summary.ProcessedFiles,
		summary.SuccessCount,
		summary.ErrorCount,
		summary.SuccessRate,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, o := range summary.Files {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, file, success, features_found, error)
			 VALUES (?, ?, ?, ?, ?)`,
			summary.RunID, o.File, o.Success, o.FeaturesFound, o.Error,
		)
		if err != nil {
			return fmt.Errorf("inserting outcome for %s: %w", o.File, err)
		}
	}

	return tx.Commit()
}

// Recent returns the most recent runs, newest first, without per-file
// outcomes. n <= 0 means all runs.
func (s *Store) Recent(ctx context.Context, n int) ([]types.BatchSummary, error) {
	query := `SELECT id, started_at, finished_at, total_files, processed_files, success_count, error_count, success_rate
	          FROM runs ORDER BY started_at DESC`
	args := []any{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.BatchSummary
	for rows.Next() {
		var r types.BatchSummary
		var started, finished string
		if err := rows.Scan(&r.RunID, &started, &finished, &r.TotalFiles, &r.ProcessedFiles, &r.SuccessCount, &r.ErrorCount, &r.SuccessRate); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the per-file outcomes recorded for one run.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]types.ProcessingOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file, success, features_found, error FROM outcomes WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []types.ProcessingOutcome
	for rows.Next() {
		var o types.ProcessingOutcome
		var errText sql.NullString
		if err := rows.Scan(&o.File, &o.Success, &o.FeaturesFound, &errText); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Error = errText.String
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
