package smtppool

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

// Logger interface compatible with slog.Logger
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

type DelayType int

const (
	DelayTypeFixed DelayType = iota
	DelayTypeRandom
	DelayTypeExponential
)

type Config struct {
	Logger  Logger
	SMTPCli smtpcli.Client
	Server  ServerConfig
	// Capacity is the number of pooled connections and the maximum number
	// of concurrent sends.
	Capacity int
	// KeepAliveInterval is the period of the idle connection health check.
	KeepAliveInterval time.Duration
	// ConnectTimeout bounds dial, TLS negotiation and authentication.
	ConnectTimeout time.Duration
	// SendTimeout bounds a single message transaction.
	SendTimeout time.Duration
	// RetryDelay is waited before the reconnect that follows a lost connection.
	RetryDelay time.Duration
	DelayType  DelayType

	// MaxConnectionAge makes the keep-alive pass redial connections that have
	// been up for longer.
	MaxConnectionAge time.Duration
	// ShutdownTimeout bounds how long Quit waits for checked-out connections.
	ShutdownTimeout time.Duration
	delayTypeFn     retry.DelayTypeFunc
}

type ServerConfig struct {
	Host               string
	Port               int
	Security           smtpcli.SecurityMode
	Username           string
	Password           string
	InsecureSkipVerify bool
	LocalName          string
}

func (s ServerConfig) ID() string {
	return fmt.Sprintf("%s:%d_%s", s.Host, s.Port, s.Username)
}

// LogValue keeps the password out of structured logs.
func (s ServerConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", s.Host),
		slog.Int("port", s.Port),
		slog.String("security", s.Security.String()),
		slog.String("username", s.Username),
		slog.Bool("password_set", s.Password != ""),
	)
}

var (
	configDefault = Config{
		Capacity:          1,
		KeepAliveInterval: 10 * time.Second,
		ConnectTimeout:    30 * time.Second,
		SendTimeout:       60 * time.Second,
		RetryDelay:        100 * time.Millisecond,
		MaxConnectionAge:  40 * time.Minute,
		ShutdownTimeout:   30 * time.Second,
	}
	serverConfigDefault = ServerConfig{
		Port:     587,
		Security: smtpcli.SecurityStartTLS,
	}
)

func mergeWithDefault(config ...Config) Config {
	cfg := configDefault
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.SMTPCli == nil {
		cfg.SMTPCli = smtpcli.New()
	}

	if cfg.Capacity == 0 {
		cfg.Capacity = configDefault.Capacity
	}

	if cfg.KeepAliveInterval == 0 {
		cfg.KeepAliveInterval = configDefault.KeepAliveInterval
	}

	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = configDefault.ConnectTimeout
	}

	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = configDefault.SendTimeout
	}

	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = configDefault.RetryDelay
	}

	if cfg.MaxConnectionAge == 0 {
		cfg.MaxConnectionAge = configDefault.MaxConnectionAge
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = configDefault.ShutdownTimeout
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = serverConfigDefault.Port
	}

	switch cfg.DelayType {
	case DelayTypeFixed:
		cfg.delayTypeFn = retry.FixedDelay
	case DelayTypeRandom:
		cfg.delayTypeFn = retry.RandomDelay
	case DelayTypeExponential:
		cfg.delayTypeFn = retry.BackOffDelay
	default:
		cfg.delayTypeFn = retry.FixedDelay
	}

	return cfg
}

// Validate checks a merged configuration.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1, got %d", ErrInvalidConfig, c.Capacity)
	}

	if c.Server.Host == "" {
		return fmt.Errorf("%w: server host is required", ErrInvalidConfig)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if c.Server.Password != "" && c.Server.Username == "" {
		return fmt.Errorf("%w: password given without username", ErrInvalidConfig)
	}

	if c.KeepAliveInterval < 0 || c.ConnectTimeout < 0 || c.SendTimeout < 0 || c.RetryDelay < 0 ||
		c.MaxConnectionAge < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}

	return nil
}
