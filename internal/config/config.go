// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding the defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Errors returned from this package match ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// AllowedOrigins is a comma separated CORS allow list. "*" allows any origin.
	AllowedOrigins string `koanf:"allowed_origins"`

	// MaxBodyBytes caps the size of a lesson request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// EnableDocs serves the OpenAPI document and ReDoc page.
	EnableDocs bool `koanf:"enable_docs"`

	// ShutdownTimeoutSec bounds graceful shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		AllowedOrigins:     "*",
		MaxBodyBytes:       1 << 20,
		EnableDocs:         true,
		ShutdownTimeoutSec: 30,
	}
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ShutdownTimeout returns ShutdownTimeoutSec as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}
