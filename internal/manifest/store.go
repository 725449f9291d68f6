// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest keeps a SQLite ledger of export runs and the units they
// produced, so a target judge serial can be traced back to the source
// problem it came from.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/oj-export/pkg/types"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the manifest database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
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
			finished_at TEXT,
			input_path TEXT NOT NULL,
			owner_id INTEGER NOT NULL,
			problems INTEGER NOT NULL DEFAULT 0,
			archives INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS units (
			run_id TEXT NOT NULL REFERENCES runs(id),
			serial INTEGER NOT NULL,
			problem_id TEXT NOT NULL,
			title TEXT NOT NULL,
			batch INTEGER NOT NULL,
			archive TEXT NOT NULL,
			test_cases INTEGER NOT NULL,
			dropped_cases INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, serial)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_units_problem_id ON units(problem_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunInfo describes an export run as it starts.
type RunInfo struct {
	InputPath string
	OwnerID   int
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID         string     `json:"id" yaml:"id"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	InputPath  string     `json:"input_path" yaml:"input_path"`
	OwnerID    int        `json:"owner_id" yaml:"owner_id"`
	Problems   int        `json:"problems" yaml:"problems"`
	Archives   int        `json:"archives" yaml:"archives"`
}

// Run records the units of one export run.
type Run struct {
	ID    string
	store *Store
}

// BeginRun inserts a new run and returns its handle.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_path, owner_id) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeLayout), info.InputPath, info.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &Run{ID: id, store: s}, nil
}

// RecordUnit stores one archived unit. Recording the same serial twice
// replaces the earlier row.
func (r *Run) RecordUnit(ctx context.Context, u types.ExportUnit) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO units (run_id, serial, problem_id, title, batch, archive, test_cases, dropped_cases)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, u.Serial, u.ProblemID, u.Title, u.Batch, u.Archive, u.TestCases, u.DroppedCases,
	)
	if err != nil {
		return fmt.Errorf("inserting unit %s: %w", u.Dir, err)
	}
	return nil
}

// Finish stamps the run with its final counts.
func (r *Run) Finish(ctx context.Context, problems, archives int) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, problems = ?, archives = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), problems, archives, r.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// ErrNoRuns is returned when the latest run is requested from an empty manifest.
var ErrNoRuns = errors.New("manifest has no runs")

// Runs lists all runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_path, owner_id, problems, archives
		 FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r        RunSummary
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputPath, &r.OwnerID, &r.Problems, &r.Archives); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		var err error
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("run %s: parsing started_at: %w", r.ID, err)
		}
		if finished.Valid {
			t, err := time.Parse(timeLayout, finished.String)
			if err != nil {
				return nil, fmt.Errorf("run %s: parsing finished_at: %w", r.ID, err)
			}
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Units returns the units of runID ordered by serial. An empty runID
// selects the most recent run.
func (s *Store) Units(ctx context.Context, runID string) ([]types.ExportUnit, error) {
	if runID == "" {
		latest, err := s.latestRunID(ctx)
		if err != nil {
			return nil, err
		}
		runID = latest
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT serial, problem_id, title, batch, archive, test_cases, dropped_cases
		 FROM units WHERE run_id = ? ORDER BY serial`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer rows.Close()

	var units []types.ExportUnit
	for rows.Next() {
		var u types.ExportUnit
		if err := rows.Scan(&u.Serial, &u.ProblemID, &u.Title, &u.Batch, &u.Archive, &u.TestCases, &u.DroppedCases); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		u.Dir = types.SerialName(u.Serial)
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *Store) latestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("querying latest run: %w", err)
	}
	return id, nil
}
