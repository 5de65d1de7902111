package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"synopsis/internal/reconcile"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; mismatched databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run is one persisted run with its aggregate counts.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Items      int
	Updated    int
	Errors     int
}

// ItemRecord is one item's persisted outcome within a run.
type ItemRecord struct {
	RunID   string
	Section string
	Kind    string
	Title   string
	Outcome string
}

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var _ reconcile.Recorder = (*Store)(nil)

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record persists one finished run and its per-item outcomes in a single
// transaction.
func (s *Store) Record(ctx context.Context, summary reconcile.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, items, updated, errors)
         VALUES (?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.FinishedAt.UTC().Format(time.RFC3339Nano),
		summary.TotalItems(),
		summary.TotalUpdated(),
		summary.TotalErrors(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, section := range summary.Sections {
		for _, result := range section.Results {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO run_results (run_id, section, kind, title, outcome)
                 VALUES (?, ?, ?, ?, ?)`,
				summary.RunID,
				section.Section,
				section.Kind,
				result.Title,
				result.Outcome,
			)
			if err != nil {
				return fmt.Errorf("insert run result: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, items, updated, errors
              FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.Items, &run.Updated, &run.Errors); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Results returns the persisted per-item outcomes for one run, in insert
// order.
func (s *Store) Results(ctx context.Context, runID string) ([]ItemRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, section, kind, title, outcome
         FROM run_results WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run results: %w", err)
	}
	defer rows.Close()

	var results []ItemRecord
	for rows.Next() {
		var result ItemRecord
		if err := rows.Scan(&result.RunID, &result.Section, &result.Kind,
			&result.Title, &result.Outcome); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Prune deletes all but the newest keep runs and returns the number removed.
// Result rows cascade with their run.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
            SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
        )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return int(deleted), nil
}
