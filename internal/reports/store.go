// Package reports archives front-end check runs and their diagnostics in a
// SQLite database.
package reports

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	tncerror "github.com/msto63/tnc/foundation/core/error"
	tnclog "github.com/msto63/tnc/foundation/core/log"
)

// Status is the outcome of a run
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Run is one front-end invocation on one file
type Run struct {
	ID             string
	File           string
	StartedAt      time.Time
	Duration       time.Duration
	TokenCount     int
	StatementCount int
	ErrorCount     int
	Status         Status
	Diagnostics    []Diagnostic
}

// Diagnostic is a single reported error of a run
type Diagnostic struct {
	Code    string
	Line    int
	Message string
	Near    string
}

// Filter defines criteria for listing runs
type Filter struct {
	File   string
	Status Status
	Since  time.Time
	Limit  int
}

// Store defines the interface for run persistence
type Store interface {
	Record(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	Query(ctx context.Context, filter Filter) ([]*Run, error)
	Diagnostics(ctx context.Context, runID string) ([]Diagnostic, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// Config holds configuration for the SQLite store
type Config struct {
	Path   string
	Logger *tnclog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{Path: "./data/tnc-reports.db"}
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *tnclog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and creates if needed) the database at cfg.Path
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = tnclog.GetDefault()
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storeError(err, "failed to create directory")
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, storeError(err, "failed to open database")
	}

	store := &SQLiteStore{db: db, logger: cfg.Logger.WithField("component", "reports")}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storeError(err, "failed to initialize schema")
	}

	return store, nil
}

func storeError(err error, message string) error {
	return tncerror.Wrap(err, message).WithCode(tncerror.CodeDatabaseError)
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		token_count INTEGER NOT NULL,
		statement_count INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS diagnostics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		code TEXT NOT NULL,
		line INTEGER NOT NULL,
		message TEXT NOT NULL,
		near TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_file ON runs(file);
	CREATE INDEX IF NOT EXISTS idx_diagnostics_run_id ON diagnostics(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run and its diagnostics in one transaction. Missing ID,
// start time and status are filled in.
func (s *SQLiteStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
	if run.Status == "" {
		run.Status = StatusOK
		if run.ErrorCount > 0 {
			run.Status = StatusFailed
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, file, started_at, duration_ms, token_count, statement_count, error_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.File, run.StartedAt, run.Duration.Milliseconds(), run.TokenCount,
		run.StatementCount, run.ErrorCount, string(run.Status))
	if err != nil {
		return storeError(err, "failed to insert run")
	}

	if len(run.Diagnostics) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO diagnostics (run_id, code, line, message, near)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return storeError(err, "failed to prepare statement")
		}
		defer stmt.Close()

		for _, d := range run.Diagnostics {
			if _, err := stmt.ExecContext(ctx, run.ID, d.Code, d.Line, d.Message, d.Near); err != nil {
				return storeError(err, "failed to insert diagnostic")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError(err, "failed to commit transaction")
	}

	s.logger.Debug("Recorded run", tnclog.Fields{
		"run":    run.ID,
		"file":   run.File,
		"status": string(run.Status),
	})
	return nil
}

const runColumns = `id, file, started_at, duration_ms, token_count, statement_count, error_count, status`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var durationMS int64
	var status string
	if err := row.Scan(&run.ID, &run.File, &run.StartedAt, &durationMS, &run.TokenCount,
		&run.StatementCount, &run.ErrorCount, &status); err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Status = Status(status)
	return &run, nil
}

// Get returns one run without its diagnostics
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, tncerror.New("run not found: " + id).WithCode(tncerror.CodeNotFound)
	}
	if err != nil {
		return nil, storeError(err, "failed to load run")
	}
	return run, nil
}

// Query lists runs matching filter, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []interface{}

	if filter.File != "" {
		query += " AND file = ?"
		args = append(args, filter.File)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY started_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to read runs")
	}
	return runs, nil
}

// Diagnostics lists the diagnostics of one run in recorded order
func (s *SQLiteStore) Diagnostics(ctx context.Context, runID string) ([]Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT code, line, message, near FROM diagnostics WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, storeError(err, "failed to query diagnostics")
	}
	defer rows.Close()

	var diagnostics []Diagnostic
	for rows.Next() {
		var d Diagnostic
		var near sql.NullString
		if err := rows.Scan(&d.Code, &d.Line, &d.Message, &near); err != nil {
			return nil, storeError(err, "failed to scan diagnostic")
		}
		d.Near = near.String
		diagnostics = append(diagnostics, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to read diagnostics")
	}
	return diagnostics, nil
}

// Prune removes runs started before now minus olderThan, with their
// diagnostics, and returns the number of runs deleted
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM diagnostics WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)
	`, cutoff); err != nil {
		return 0, storeError(err, "failed to prune diagnostics")
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, storeError(err, "failed to prune runs")
	}
	deleted, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, storeError(err, "failed to commit transaction")
	}

	s.logger.Debug("Pruned runs", tnclog.Fields{"deleted": deleted, "cutoff": cutoff})
	return deleted, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
