package config

import "time"

// Config is the service configuration file.
type Config struct {
	SMTP    SMTPConfig    `yaml:"smtp"`
	Pool    PoolConfig    `yaml:"pool"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Sender  SenderConfig  `yaml:"sender"`
}

// SMTPConfig is the upstream server and its credentials.
type SMTPConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Security           string `yaml:"security"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	LocalName          string `yaml:"local_name"`
}

type PoolConfig struct {
	Capacity          int           `yaml:"capacity"`
	KeepAliveInterval time.Duration `yaml:"keep_alive_interval"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
	SendTimeout       time.Duration `yaml:"send_timeout"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	MaxConnectionAge  time.Duration `yaml:"max_connection_age"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`

	// Warmup connects every pooled connection at startup and fails fast
	// on bad credentials.
	Warmup bool `yaml:"warmup"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// SenderConfig holds the envelope used by the test message endpoint.
type SenderConfig struct {
	From          string `yaml:"from"`
	TestRecipient string `yaml:"test_recipient"`
	TestSubject   string `yaml:"test_subject"`
}
