// Package config loads runtime configuration for the infosite client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. INFOSITE_* environment variables.
//  4. Root command-line flags, which override everything else.
//
// # Flags
//
//	-a string       backend origin, e.g. http://localhost:3512
//	-s string       token store: file | sqlite
//	-t duration     per-request timeout (0 disables)
//	-d string       data directory for the token and log files
//	-theme string   classic | neon | mono
//	-log-level      debug | info | warn | error
//
// # JSON schema
//
//	{
//	  "backend_url": "http://localhost:3512",
//	  "token_store": "file",
//	  "request_timeout": "10s",
//	  "data_dir": "/home/me/.infosite",
//	  "log_file": "/home/me/.infosite/infosite.log",
//	  "log_level": "info",
//	  "theme": "classic"
//	}
package config
