package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultSMTPPort          = 587
	DefaultSecurity          = "starttls"
	DefaultCapacity          = 1
	DefaultKeepAliveInterval = 10 * time.Second
	DefaultConnectTimeout    = 30 * time.Second
	DefaultSendTimeout       = 60 * time.Second
	DefaultRetryDelay        = 100 * time.Millisecond
	DefaultMaxConnectionAge  = 40 * time.Minute
	DefaultPoolShutdown      = 30 * time.Second
	DefaultHTTPAddr          = ":8080"
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultMetricsPath       = "/metrics"
	DefaultMetricsNamespace  = "smtppool"
	DefaultTestSubject       = "TEST"
)

func (c *Config) applyDefaults() {
	if c.SMTP.Port == 0 {
		c.SMTP.Port = DefaultSMTPPort
	}
	if c.SMTP.Security == "" {
		c.SMTP.Security = DefaultSecurity
	}

	if c.Pool.Capacity == 0 {
		c.Pool.Capacity = DefaultCapacity
	}
	if c.Pool.KeepAliveInterval == 0 {
		c.Pool.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if c.Pool.ConnectTimeout == 0 {
		c.Pool.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Pool.SendTimeout == 0 {
		c.Pool.SendTimeout = DefaultSendTimeout
	}
	if c.Pool.RetryDelay == 0 {
		c.Pool.RetryDelay = DefaultRetryDelay
	}
	if c.Pool.MaxConnectionAge == 0 {
		c.Pool.MaxConnectionAge = DefaultMaxConnectionAge
	}
	if c.Pool.ShutdownTimeout == 0 {
		c.Pool.ShutdownTimeout = DefaultPoolShutdown
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}

	if c.Sender.TestSubject == "" {
		c.Sender.TestSubject = DefaultTestSubject
	}
}
