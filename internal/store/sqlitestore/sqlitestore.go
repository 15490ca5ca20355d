// Package sqlitestore keeps the admin token in a local SQLite metadata table.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Makepad-fr/infosite/internal/model"
	"github.com/Makepad-fr/infosite/internal/store"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at INTEGER NOT NULL
);`

var ErrEmptyToken = errors.New("empty token")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already open database.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create metadata table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(ctx context.Context) (*model.TokenInfo, error) {
	var (
		value   []byte
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM metadata WHERE key = ?`, store.TokenKey).Scan(&value, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", store.TokenKey, err)
	}
	return &model.TokenInfo{
		Token:     string(value),
		Source:    "sqlite",
		CreatedAt: time.Unix(updated, 0).UTC(),
	}, nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	token = store.StripBearer(token)
	if token == "" {
		return ErrEmptyToken
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, store.TokenKey, []byte(token), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", store.TokenKey, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, store.TokenKey)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", store.TokenKey, err)
	}
	return nil
}
