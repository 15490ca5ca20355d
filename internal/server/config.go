package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the reference backend. Values come from the environment.
type Config struct {
	Addr           string        `env:"INFOSITE_SERVER_ADDR" envDefault:":3512"`
	DBPath         string        `env:"INFOSITE_SERVER_DB" envDefault:"infosite.db"`
	AdminPassword  string        `env:"INFOSITE_ADMIN_PASSWORD"`
	AdminHash      string        `env:"INFOSITE_ADMIN_PASSWORD_HASH"`
	JWTSecret      string        `env:"INFOSITE_JWT_SECRET"`
	TokenTTL       time.Duration `env:"INFOSITE_TOKEN_TTL" envDefault:"24h"`
	DefaultMessage string        `env:"INFOSITE_DEFAULT_MESSAGE" envDefault:"Welcome to the Info Site."`
	LogLevel       string        `env:"INFOSITE_LOG_LEVEL" envDefault:"info"`
}

// LoadConfigFromEnv parses the environment and checks the admin secret settings.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.AdminPassword == "" && c.AdminHash == "" {
		return fmt.Errorf("one of INFOSITE_ADMIN_PASSWORD or INFOSITE_ADMIN_PASSWORD_HASH is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("INFOSITE_JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("INFOSITE_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
