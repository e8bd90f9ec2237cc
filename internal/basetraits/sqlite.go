package basetraits

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists respec base traits so lookups survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		`CREATE TABLE IF NOT EXISTS respec_base_traits (
			token_id   TEXT PRIMARY KEY,
			traits     TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init sqlite: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, tokenID string) ([]int, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT traits FROM respec_base_traits WHERE token_id = ?", tokenID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var v []int
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("decode cached traits for %s: %w", tokenID, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, tokenID string, traits []int) error {
	raw, err := json.Marshal(traits)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO respec_base_traits (token_id, traits, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(token_id) DO UPDATE SET traits = excluded.traits, fetched_at = excluded.fetched_at`,
		tokenID, string(raw), time.Now().Unix())
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
