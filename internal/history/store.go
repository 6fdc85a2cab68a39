// Package history persists one summary row per daiacheck run in a local
// SQLite database. Recording is optional and never influences the outcome
// of a check run; storage errors surface as warnings only.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jbalzer/daiacheck/internal/filelock"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded check run.
type Run struct {
	ID         string
	StartedAt  time.Time
	Mode       string // "availability" or "coverage"
	Source     string // suite file/URL, or "" for direct arguments
	Total      int
	Failed     int
	DurationMS int64
}

// Stats aggregates the recorded runs.
type Stats struct {
	Runs       int
	Assertions int
	Failures   int
	LastRun    time.Time
}

// Store manages the SQLite run-history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (and if necessary creates) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so the remaining pragmas wait on locks held by a
	// concurrently starting run.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts a run row. A missing ID or start time is filled in.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	query := `INSERT INTO runs (id, started_at, mode, source, total, failed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt,
		run.Mode,
		run.Source,
		run.Total,
		run.Failed,
		run.DurationMS,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetStats aggregates all recorded runs.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	query := `SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(failed), 0) FROM runs`
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Runs, &stats.Assertions, &stats.Failures); err != nil {
		return nil, fmt.Errorf("aggregate runs: %w", err)
	}

	if stats.Runs > 0 {
		// MAX() loses the column's declared type, so order instead.
		var last sql.NullTime
		if err := s.db.QueryRowContext(ctx, `SELECT started_at FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&last); err != nil {
			return nil, fmt.Errorf("latest run: %w", err)
		}
		if last.Valid {
			stats.LastRun = last.Time
		}
	}

	return stats, nil
}

// Prune deletes all but the keep most recent runs. Maintenance operations
// take the sidecar lock so they do not race a concurrently recording run.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	unlock, err := s.lockSidecar()
	if err != nil {
		return 0, err
	}
	defer unlock()

	query := `DELETE FROM runs WHERE id NOT IN (
		SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
	)`
	result, err := s.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned runs: %w", err)
	}
	return deleted, nil
}

// Clear deletes every recorded run.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	unlock, err := s.lockSidecar()
	if err != nil {
		return 0, err
	}
	defer unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared runs: %w", err)
	}
	return deleted, nil
}

// lockSidecar acquires the maintenance lock next to the database file.
// In-memory databases have nothing to coordinate.
func (s *Store) lockSidecar() (func(), error) {
	if s.dbPath == ":memory:" {
		return func() {}, nil
	}

	lockPath := s.dbPath + ".lock"
	lock := filelock.New(lockPath)
	if err := lock.LockWithTimeout(5 * time.Second); err != nil {
		return nil, err
	}
	return func() {
		lock.Unlock()
		os.Remove(lockPath)
	}, nil
}
