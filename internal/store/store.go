// Package store keeps a sqlite ledger of translation runs: which file was
// translated into which language, how many lines changed, and whether the
// run completed or was interrupted. Recording is best-effort; a broken
// ledger never blocks a translation.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning     = "running"
	StatusCompleted   = "completed"
	StatusInterrupted = "interrupted"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		lines_total INTEGER DEFAULT 0,
		lines_changed INTEGER DEFAULT 0,
		cache_entries INTEGER DEFAULT 0,
		status TEXT DEFAULT 'running',
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_file, target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

// StartRun records the beginning of a translation run.
func (s *Store) StartRun(ctx context.Context, id, inputFile, outputFile, targetLang string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, output_file, target_lang, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, inputFile, outputFile, targetLang, StatusRunning, time.Now())
	return err
}

// FinishRun closes a run with its final counters and status
// (StatusCompleted or StatusInterrupted).
func (s *Store) FinishRun(ctx context.Context, id, status string, linesTotal, linesChanged, cacheEntries int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, lines_total = ?, lines_changed = ?, cache_entries = ?, finished_at = ? WHERE id = ?`,
		status, linesTotal, linesChanged, cacheEntries, time.Now(), id)
	return err
}

// Run is a row from the runs table.
type Run struct {
	ID           string
	InputFile    string
	OutputFile   string
	TargetLang   string
	LinesTotal   int
	LinesChanged int
	CacheEntries int
	Status       string
	StartedAt    time.Time
	FinishedAt   sql.NullTime
}

// ListRuns returns all recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_file, output_file, target_lang, lines_total, lines_changed, cache_entries, status, started_at, finished_at
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.InputFile, &r.OutputFile, &r.TargetLang,
			&r.LinesTotal, &r.LinesChanged, &r.CacheEntries, &r.Status,
			&r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// RunStats summarises the ledger.
type RunStats struct {
	TotalRuns    int
	Completed    int
	Interrupted  int
	LinesTotal   int
	LinesChanged int
}

// Stats returns summary statistics over all recorded runs.
func (s *Store) Stats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'interrupted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(lines_total), 0),
			COALESCE(SUM(lines_changed), 0)
		FROM runs`).Scan(
		&stats.TotalRuns,
		&stats.Completed,
		&stats.Interrupted,
		&stats.LinesTotal,
		&stats.LinesChanged,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ClearRuns removes all recorded runs.
func (s *Store) ClearRuns(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}
