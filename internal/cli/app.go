package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Makepad-fr/infosite/internal/api"
	"github.com/Makepad-fr/infosite/internal/config"
	"github.com/Makepad-fr/infosite/internal/logging"
	"github.com/Makepad-fr/infosite/internal/session"
	"github.com/Makepad-fr/infosite/internal/store"
	"github.com/Makepad-fr/infosite/internal/store/jsonstore"
	"github.com/Makepad-fr/infosite/internal/store/sqlitestore"
	"github.com/Makepad-fr/infosite/internal/ui"
)

// App is everything a subcommand needs, built once per process.
type App struct {
	Config  *config.Config
	Session *session.Store
	Tokens  store.TokenStore
	Log     logging.Logger

	closers []io.Closer
}

// NewApp wires logging, token storage, the API client and the session store.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.DataDir == "" {
		dir, err := jsonstore.DefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	ui.SetTheme(cfg.Theme)

	a := &App{Config: cfg}

	log, closer, err := logging.OpenFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closer)
	a.Log = log.With("backend", cfg.BackendURL)

	switch cfg.TokenStore {
	case config.TokenStoreSQLite:
		s, err := sqlitestore.Open(ctx, cfg.SQLitePath())
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, s)
		a.Tokens = s
	default:
		s, err := jsonstore.New(cfg.DataDir)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Tokens = s
	}

	client := api.New(cfg.BackendURL, cfg.RequestTimeout)
	a.Session = session.New(client, a.Tokens, session.WithLogger(a.Log))
	a.Log.Debug(ctx, "app ready", "token_store", cfg.TokenStore, "data_dir", cfg.DataDir)
	return a, nil
}

// Close releases files and databases in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close: %w", errors.Join(errs...))
	}
	return nil
}
