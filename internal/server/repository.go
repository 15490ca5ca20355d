package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const welcomeKey = "welcome_message"

const schema = `
CREATE TABLE IF NOT EXISTS settings (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`

// ContentRepository stores the welcome message.
type ContentRepository interface {
	WelcomeMessage(ctx context.Context) (string, error)
	SetWelcomeMessage(ctx context.Context, text string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, creates the schema and seeds the
// message when none is stored yet.
func OpenSQLite(ctx context.Context, path, seed string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	r, err := NewSQLiteRepository(ctx, db, seed)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func NewSQLiteRepository(ctx context.Context, db *sql.DB, seed string) (*SQLiteRepository, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create settings table: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		welcomeKey, seed); err != nil {
		return nil, fmt.Errorf("seed welcome message: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error { return r.db.Close() }

func (r *SQLiteRepository) WelcomeMessage(ctx context.Context) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, welcomeKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", welcomeKey, err)
	}
	return v, nil
}

func (r *SQLiteRepository) SetWelcomeMessage(ctx context.Context, text string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, welcomeKey, text)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", welcomeKey, err)
	}
	return nil
}
