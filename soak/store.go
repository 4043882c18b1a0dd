package soak

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS soak_results (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	started_unix   INTEGER NOT NULL,
	container      TEXT    NOT NULL,
	seed           INTEGER NOT NULL,
	ops            INTEGER NOT NULL,
	mismatches     INTEGER NOT NULL,
	first_mismatch TEXT    NOT NULL,
	elapsed_ns     INTEGER NOT NULL,
	interrupted    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_soak_results_container ON soak_results(container, id);
`

// Store keeps a history of soak results in SQLite so regressions can be
// traced back to the seed that first showed them.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the history database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("soak: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("soak: init %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Record appends every result of rep in one transaction.
func (s *Store) Record(ctx context.Context, rep *Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("soak: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO soak_results
			(started_unix, container, seed, ops, mismatches, first_mismatch, elapsed_ns, interrupted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("soak: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range rep.Results {
		if _, err := stmt.ExecContext(ctx, rep.StartedUnix, r.Container, r.Seed, r.Ops,
			r.Mismatches, r.FirstMismatch, r.ElapsedNS, r.Interrupted); err != nil {
			return fmt.Errorf("soak: insert %s: %w", r.Container, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("soak: commit: %w", err)
	}
	return nil
}

// Recent returns up to limit results for container, newest first.
func (s *Store) Recent(ctx context.Context, container string, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT container, seed, ops, mismatches, first_mismatch, elapsed_ns, interrupted
		FROM soak_results
		WHERE container = ?
		ORDER BY id DESC
		LIMIT ?`, container, limit)
	if err != nil {
		return nil, fmt.Errorf("soak: query %s: %w", container, err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Container, &r.Seed, &r.Ops, &r.Mismatches,
			&r.FirstMismatch, &r.ElapsedNS, &r.Interrupted); err != nil {
			return nil, fmt.Errorf("soak: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }
