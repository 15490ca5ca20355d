package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Makepad-fr/infosite/internal/api"
)

const (
	TokenStoreFile   = "file"
	TokenStoreSQLite = "sqlite"
)

var ErrInvalidTokenStore = errors.New("invalid token store")

// Config holds client settings.
type Config struct {
	BackendURL     string        `env:"INFOSITE_BACKEND_URL"`
	TokenStore     string        `env:"INFOSITE_TOKEN_STORE"`
	RequestTimeout time.Duration `env:"INFOSITE_REQUEST_TIMEOUT"`
	DataDir        string        `env:"INFOSITE_DATA_DIR"`
	LogFile        string        `env:"INFOSITE_LOG_FILE"`
	LogLevel       string        `env:"INFOSITE_LOG_LEVEL"`
	Theme          string        `env:"INFOSITE_THEME"`
}

// LoadDefaults populates c with defaults. DataDir is left for the caller
// to resolve, since it depends on the user's home directory.
func (c *Config) LoadDefaults() {
	c.BackendURL = api.DefaultBaseURL
	c.TokenStore = TokenStoreFile
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.Theme = "classic"
}

// LogPath is LogFile, or infosite.log inside DataDir.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "infosite.log")
}

// SQLitePath is where the sqlite token store lives.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "client.db")
}

func (c *Config) Validate() error {
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreSQLite:
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidTokenStore, c.TokenStore, TokenStoreFile, TokenStoreSQLite)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("negative request timeout %s", c.RequestTimeout)
	}
	return nil
}

// Load builds a Config from defaults, an optional JSON file, the environment
// and the leading flags of args. It returns the arguments left after the
// flags (the subcommand and its operands).
//
// environ overrides the process environment when non-nil.
func Load(args []string, environ map[string]string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("infosite", flag.ContinueOnError)
	var (
		jsonPath string
		fromFlag Config
	)
	fs.StringVar(&jsonPath, "config", "", "path to JSON config file")
	fs.StringVar(&jsonPath, "c", "", "path to JSON config file (short)")
	fs.StringVar(&fromFlag.BackendURL, "a", "", "backend origin")
	fs.StringVar(&fromFlag.TokenStore, "s", "", "token store: file | sqlite")
	fs.DurationVar(&fromFlag.RequestTimeout, "t", 0, "per-request timeout")
	fs.StringVar(&fromFlag.DataDir, "d", "", "data directory")
	fs.StringVar(&fromFlag.Theme, "theme", "", "output theme: classic | neon | mono")
	fs.StringVar(&fromFlag.LogLevel, "log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if jsonPath != "" {
		if err := parseJSON(cfg, jsonPath); err != nil {
			return nil, nil, err
		}
	}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.BackendURL = fromFlag.BackendURL
		case "s":
			cfg.TokenStore = fromFlag.TokenStore
		case "t":
			cfg.RequestTimeout = fromFlag.RequestTimeout
		case "d":
			cfg.DataDir = fromFlag.DataDir
		case "theme":
			cfg.Theme = fromFlag.Theme
		case "log-level":
			cfg.LogLevel = fromFlag.LogLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}
