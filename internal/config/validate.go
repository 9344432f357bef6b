package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.SMTP.Host == "" {
		return errors.New("smtp.host is required")
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be between 1 and 65535, got %d", c.SMTP.Port)
	}
	if _, err := smtpcli.ParseSecurityMode(c.SMTP.Security); err != nil {
		return fmt.Errorf("smtp.security: %w", err)
	}
	if c.SMTP.Password != "" && c.SMTP.Username == "" {
		return errors.New("smtp.username is required when smtp.password is set")
	}

	if c.Pool.Capacity < 1 {
		return errors.New("pool.capacity must be >= 1")
	}
	if c.Pool.KeepAliveInterval < 0 || c.Pool.ConnectTimeout < 0 || c.Pool.SendTimeout < 0 || c.Pool.RetryDelay < 0 ||
		c.Pool.MaxConnectionAge < 0 || c.Pool.ShutdownTimeout < 0 {
		return errors.New("pool durations must not be negative")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}
