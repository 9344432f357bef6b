package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

func TestLoad(t *testing.T) {
	yaml := `
smtp:
  host: smtp.example.com
  port: 465
  security: tls
  username: mailer
  password: hunter2
pool:
  capacity: 4
  keep_alive_interval: 5s
sender:
  from: noreply@example.com
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SMTP.Host != "smtp.example.com" {
		t.Errorf("SMTP.Host = %q, want %q", cfg.SMTP.Host, "smtp.example.com")
	}
	if cfg.SMTP.Port != 465 {
		t.Errorf("SMTP.Port = %d, want %d", cfg.SMTP.Port, 465)
	}
	if cfg.Pool.Capacity != 4 {
		t.Errorf("Pool.Capacity = %d, want %d", cfg.Pool.Capacity, 4)
	}
	if cfg.Pool.KeepAliveInterval != 5*time.Second {
		t.Errorf("Pool.KeepAliveInterval = %v, want %v", cfg.Pool.KeepAliveInterval, 5*time.Second)
	}
	if cfg.Sender.From != "noreply@example.com" {
		t.Errorf("Sender.From = %q, want %q", cfg.Sender.From, "noreply@example.com")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_SMTP_PASSWORD", "secret123")

	yaml := `
smtp:
  host: smtp.example.com
  username: mailer
  password: ${TEST_SMTP_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SMTP.Password != "secret123" {
		t.Errorf("SMTP.Password = %q, want %q", cfg.SMTP.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
smtp:
  host: smtp.example.com
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.SMTP.Port != DefaultSMTPPort {
		t.Errorf("SMTP.Port = %d, want %d", cfg.SMTP.Port, DefaultSMTPPort)
	}
	if cfg.SMTP.Security != DefaultSecurity {
		t.Errorf("SMTP.Security = %q, want %q", cfg.SMTP.Security, DefaultSecurity)
	}
	if cfg.Pool.Capacity != DefaultCapacity {
		t.Errorf("Pool.Capacity = %d, want %d", cfg.Pool.Capacity, DefaultCapacity)
	}
	if cfg.Pool.SendTimeout != DefaultSendTimeout {
		t.Errorf("Pool.SendTimeout = %v, want %v", cfg.Pool.SendTimeout, DefaultSendTimeout)
	}
	if cfg.Pool.MaxConnectionAge != DefaultMaxConnectionAge {
		t.Errorf("Pool.MaxConnectionAge = %v, want %v", cfg.Pool.MaxConnectionAge, DefaultMaxConnectionAge)
	}
	if cfg.Pool.ShutdownTimeout != DefaultPoolShutdown {
		t.Errorf("Pool.ShutdownTimeout = %v, want %v", cfg.Pool.ShutdownTimeout, DefaultPoolShutdown)
	}
	if cfg.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Sender.TestSubject != DefaultTestSubject {
		t.Errorf("Sender.TestSubject = %q, want %q", cfg.Sender.TestSubject, DefaultTestSubject)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load should fail for nonexistent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTempFile(t, "smtp:\n  port: [not a number")

	_, err := Load(path)
	if err == nil {
		t.Error("Load should fail for invalid YAML")
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, "pool:\n  capacity: 2\n")

	_, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("LoadAndValidate should fail without smtp.host")
	}
	if !strings.Contains(err.Error(), "smtp.host is required") {
		t.Errorf("error = %q, want it to mention smtp.host", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing host", modify: func(c *Config) { c.SMTP.Host = "" }, wantErr: "smtp.host is required"},
		{name: "port out of range", modify: func(c *Config) { c.SMTP.Port = 70000 }, wantErr: "smtp.port"},
		{name: "unknown security", modify: func(c *Config) { c.SMTP.Security = "ssl3" }, wantErr: "smtp.security"},
		{name: "password without user", modify: func(c *Config) { c.SMTP.Username = "" }, wantErr: "smtp.username is required"},
		{name: "negative capacity", modify: func(c *Config) { c.Pool.Capacity = -1 }, wantErr: "pool.capacity"},
		{name: "negative duration", modify: func(c *Config) { c.Pool.SendTimeout = -time.Second }, wantErr: "pool durations"},
		{name: "relative metrics path", modify: func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }, wantErr: "metrics.path"},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log.level"},
		{name: "bad log format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}

				return
			}

			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestToPoolConfig(t *testing.T) {
	cfg := validConfig()

	pc, err := cfg.ToPoolConfig(nil)
	if err != nil {
		t.Fatalf("ToPoolConfig failed: %v", err)
	}

	if pc.Server.Security != smtpcli.SecurityStartTLS {
		t.Errorf("Server.Security = %v, want %v", pc.Server.Security, smtpcli.SecurityStartTLS)
	}
	if pc.Server.Host != cfg.SMTP.Host || pc.Server.Port != cfg.SMTP.Port {
		t.Errorf("Server = %s, want %s:%d", pc.Server.ID(), cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if pc.Capacity != cfg.Pool.Capacity {
		t.Errorf("Capacity = %d, want %d", pc.Capacity, cfg.Pool.Capacity)
	}
	if pc.RetryDelay != cfg.Pool.RetryDelay {
		t.Errorf("RetryDelay = %v, want %v", pc.RetryDelay, cfg.Pool.RetryDelay)
	}
	if pc.MaxConnectionAge != cfg.Pool.MaxConnectionAge || pc.ShutdownTimeout != cfg.Pool.ShutdownTimeout {
		t.Errorf("MaxConnectionAge/ShutdownTimeout = %v/%v, want %v/%v",
			pc.MaxConnectionAge, pc.ShutdownTimeout, cfg.Pool.MaxConnectionAge, cfg.Pool.ShutdownTimeout)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("warn record missing or not JSON: %s", out)
	}
}

func TestDiff(t *testing.T) {
	oldCfg := validConfig()

	if changes := Diff(oldCfg, validConfig()); len(changes) != 0 {
		t.Errorf("Diff of equal configs = %v, want none", changes)
	}

	newCfg := validConfig()
	newCfg.Sender.TestSubject = "Ping"

	changes := Diff(oldCfg, newCfg)
	if len(changes) != 1 || changes[0].Field != "sender.test_subject" {
		t.Fatalf("Diff = %v, want a single sender.test_subject change", changes)
	}
	if RequiresPoolRestart(changes) {
		t.Error("sender change should not require a pool restart")
	}

	newCfg.SMTP.Password = "rotated"

	changes = Diff(oldCfg, newCfg)
	if !RequiresPoolRestart(changes) {
		t.Error("password change should require a pool restart")
	}

	for _, c := range changes {
		if strings.Contains(c.Old+c.New, "rotated") || strings.Contains(c.Old+c.New, "hunter2") {
			t.Errorf("change %q leaks the password", c.Field)
		}
	}
}

func validConfig() *Config {
	cfg := &Config{
		SMTP: SMTPConfig{
			Host:     "smtp.example.com",
			Username: "mailer",
			Password: "hunter2",
		},
	}
	cfg.applyDefaults()

	return cfg
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	return path
}
