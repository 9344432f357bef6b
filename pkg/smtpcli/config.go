package smtpcli

import (
	"time"
)

type Config struct {
	// KeepAliveTime is the TCP keep-alive period of dialed connections.
	KeepAliveTime time.Duration
	// CommandTimeout bounds the wait for each command response.
	CommandTimeout time.Duration
	// LocalName is the hostname announced in EHLO.
	LocalName string
}

var configDefault = Config{
	KeepAliveTime:  10 * time.Minute,
	CommandTimeout: 5 * time.Minute,
	LocalName:      "localhost",
}

func mergeWithDefault(config ...Config) Config {
	if len(config) == 0 {
		return configDefault
	}

	cfg := config[0]

	if cfg.KeepAliveTime == 0 {
		cfg.KeepAliveTime = configDefault.KeepAliveTime
	}

	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = configDefault.CommandTimeout
	}

	if cfg.LocalName == "" {
		cfg.LocalName = configDefault.LocalName
	}

	return cfg
}
