package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig is the on-disk shape. Empty fields leave the current value alone.
type jsonConfig struct {
	BackendURL     string `json:"backend_url"`
	TokenStore     string `json:"token_store"`
	RequestTimeout string `json:"request_timeout"`
	DataDir        string `json:"data_dir"`
	LogFile        string `json:"log_file"`
	LogLevel       string `json:"log_level"`
	Theme          string `json:"theme"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.BackendURL, jc.BackendURL)
	set(&cfg.TokenStore, jc.TokenStore)
	set(&cfg.DataDir, jc.DataDir)
	set(&cfg.LogFile, jc.LogFile)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.Theme, jc.Theme)
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parse config %s: request_timeout: %w", path, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
