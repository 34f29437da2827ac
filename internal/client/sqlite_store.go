package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const metadataSchema = `
CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`

// SQLiteTokenStore keeps the token in a key/value metadata table.
type SQLiteTokenStore struct {
	db *sql.DB
}

// OpenSQLiteTokenStore opens (or creates) the database at path. Use ":memory:" for tests.
func OpenSQLiteTokenStore(ctx context.Context, path string) (*SQLiteTokenStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)
	store, err := NewSQLiteTokenStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteTokenStore(ctx context.Context, db *sql.DB) (*SQLiteTokenStore, error) {
	if _, err := db.ExecContext(ctx, metadataSchema); err != nil {
		return nil, fmt.Errorf("init session db: %w", err)
	}
	return &SQLiteTokenStore{db: db}, nil
}

func (s *SQLiteTokenStore) Load(ctx context.Context) (string, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, tokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", tokenKey, err)
	}
	return string(value), nil
}

func (s *SQLiteTokenStore) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, tokenKey, []byte(token))
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", tokenKey, err)
	}
	return nil
}

func (s *SQLiteTokenStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, tokenKey); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", tokenKey, err)
	}
	return nil
}

func (s *SQLiteTokenStore) Close() error {
	return s.db.Close()
}
