package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/javi11/smtppool"
	"github.com/javi11/smtppool/pkg/smtpcli"
)

// ToPoolConfig converts a validated file configuration to pool options.
func (c *Config) ToPoolConfig(logger smtppool.Logger) (smtppool.Config, error) {
	security, err := smtpcli.ParseSecurityMode(c.SMTP.Security)
	if err != nil {
		return smtppool.Config{}, err
	}

	return smtppool.Config{
		Logger: logger,
		Server: smtppool.ServerConfig{
			Host:               c.SMTP.Host,
			Port:               c.SMTP.Port,
			Security:           security,
			Username:           c.SMTP.Username,
			Password:           c.SMTP.Password,
			InsecureSkipVerify: c.SMTP.InsecureSkipVerify,
			LocalName:          c.SMTP.LocalName,
		},
		Capacity:          c.Pool.Capacity,
		KeepAliveInterval: c.Pool.KeepAliveInterval,
		ConnectTimeout:    c.Pool.ConnectTimeout,
		SendTimeout:       c.Pool.SendTimeout,
		RetryDelay:        c.Pool.RetryDelay,
		MaxConnectionAge:  c.Pool.MaxConnectionAge,
		ShutdownTimeout:   c.Pool.ShutdownTimeout,
	}, nil
}

// NewLogger builds the service logger described by the log section.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level

	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
