package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"typescope/internal/explorer"
	"typescope/internal/typeinfo"
)

// SQLiteStore persists exploration runs in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			root TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS descriptors (
			run_id INTEGER NOT NULL,
			type_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			encoded JSON NOT NULL,
			PRIMARY KEY (run_id, type_name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun writes one finished exploration: a run row plus one descriptor
// row per explored type, all in a single transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, root string, repo *explorer.Repository) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (root, created_at) VALUES (?, ?)`,
		root, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO descriptors (run_id, type_name, kind, encoded)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, type_name) DO UPDATE SET
			kind=excluded.kind,
			encoded=excluded.encoded
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for name, d := range repo.All() {
		if _, err := stmt.Exec(runID, name, string(d.Kind), d.Encode()); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// LoadRun reads every descriptor of a run back into model form.
func (s *SQLiteStore) LoadRun(ctx context.Context, runID int64) (map[string]*typeinfo.Descriptor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type_name, encoded FROM descriptors WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query descriptors: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*typeinfo.Descriptor)
	for rows.Next() {
		var name string
		var encoded []byte
		if err := rows.Scan(&name, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan descriptor: %w", err)
		}
		d, err := typeinfo.Decode(encoded)
		if err != nil {
			return nil, fmt.Errorf("descriptor %s: %w", name, err)
		}
		out[name] = d
	}
	return out, rows.Err()
}

// LatestRun returns the most recent run id recorded for a root.
func (s *SQLiteStore) LatestRun(ctx context.Context, root string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs WHERE root = ? ORDER BY id DESC LIMIT 1`, root).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no run recorded for root %s", root)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
