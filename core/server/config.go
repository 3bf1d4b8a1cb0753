package server

import (
	"fmt"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"15"`
	// DefaultLimit is the page size of record queries without a limit.
	DefaultLimit int `mapstructure:"default_limit" default:"50"`
	// MaxLimit caps the page size a client may request.
	MaxLimit int `mapstructure:"max_limit" default:"500"`
}

// ReadTimeout returns the request read timeout.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// Validate checks the paging bounds.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.DefaultLimit <= 0 || c.MaxLimit <= 0 {
		return fmt.Errorf("server limits must be positive")
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default limit %d exceeds max limit %d", c.DefaultLimit, c.MaxLimit)
	}
	return nil
}

// PageSize clamps a requested limit to the configured bounds.
func (c Config) PageSize(requested int) int {
	switch {
	case requested <= 0:
		return c.DefaultLimit
	case requested > c.MaxLimit:
		return c.MaxLimit
	default:
		return requested
	}
}
