package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Makepad-fr/infosite/internal/model"
	"github.com/Makepad-fr/infosite/internal/store"
)

// JSON-backed token storage. Single file, owner-only permissions.
// No locking; one admin, one client process.

const (
	credFileName = "credentials.json"
	// EnvToken overrides the file when set.
	EnvToken = "INFOSITE_TOKEN"
)

var ErrEmptyToken = errors.New("empty token")

// Store keeps the token in <dir>/credentials.json.
type Store struct {
	dir string
	env func(string) string
}

// New returns a Store rooted at dir. An empty dir means ~/.infosite.
func New(dir string) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Store{dir: dir, env: os.Getenv}, nil
}

// DefaultDir is ~/.infosite.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".infosite"), nil
}

// Path is the credentials file location.
func (s *Store) Path() string { return filepath.Join(s.dir, credFileName) }

func (s *Store) Get(_ context.Context) (*model.TokenInfo, error) {
	// 1) env override
	if env := strings.TrimSpace(s.env(EnvToken)); env != "" {
		return &model.TokenInfo{Token: store.StripBearer(env), Source: "env"}, nil
	}

	// 2) file
	b, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti model.TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = store.StripBearer(ti.Token)
	if ti.Token == "" {
		return nil, nil
	}
	return &ti, nil
}

func (s *Store) Set(_ context.Context, token string) error {
	token = store.StripBearer(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := model.TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now().UTC(),
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.Path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the file. A token supplied through the environment is left alone.
func (s *Store) Delete(_ context.Context) error {
	if err := os.Remove(s.Path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
