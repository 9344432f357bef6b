package config

import "fmt"

// Change is one setting that differs between two configurations.
type Change struct {
	Field string
	Old   string
	New   string
	// RestartPool is set when the running pool must be rebuilt to apply it.
	RestartPool bool
}

// Diff compares two loaded configurations. Secrets are reported as changed
// without revealing their values.
func Diff(oldCfg, newCfg *Config) []Change {
	var changes []Change

	add := func(field string, o, n any, restart bool) {
		oldValue, newValue := fmt.Sprint(o), fmt.Sprint(n)
		if oldValue != newValue {
			changes = append(changes, Change{Field: field, Old: oldValue, New: newValue, RestartPool: restart})
		}
	}

	add("smtp.host", oldCfg.SMTP.Host, newCfg.SMTP.Host, true)
	add("smtp.port", oldCfg.SMTP.Port, newCfg.SMTP.Port, true)
	add("smtp.security", oldCfg.SMTP.Security, newCfg.SMTP.Security, true)
	add("smtp.username", oldCfg.SMTP.Username, newCfg.SMTP.Username, true)
	add("smtp.insecure_skip_verify", oldCfg.SMTP.InsecureSkipVerify, newCfg.SMTP.InsecureSkipVerify, true)
	add("smtp.local_name", oldCfg.SMTP.LocalName, newCfg.SMTP.LocalName, true)

	if oldCfg.SMTP.Password != newCfg.SMTP.Password {
		changes = append(changes, Change{Field: "smtp.password", Old: "***", New: "***", RestartPool: true})
	}

	add("pool.capacity", oldCfg.Pool.Capacity, newCfg.Pool.Capacity, true)
	add("pool.keep_alive_interval", oldCfg.Pool.KeepAliveInterval, newCfg.Pool.KeepAliveInterval, true)
	add("pool.connect_timeout", oldCfg.Pool.ConnectTimeout, newCfg.Pool.ConnectTimeout, true)
	add("pool.send_timeout", oldCfg.Pool.SendTimeout, newCfg.Pool.SendTimeout, true)
	add("pool.retry_delay", oldCfg.Pool.RetryDelay, newCfg.Pool.RetryDelay, true)
	add("pool.max_connection_age", oldCfg.Pool.MaxConnectionAge, newCfg.Pool.MaxConnectionAge, true)
	add("pool.shutdown_timeout", oldCfg.Pool.ShutdownTimeout, newCfg.Pool.ShutdownTimeout, true)

	add("sender.from", oldCfg.Sender.From, newCfg.Sender.From, false)
	add("sender.test_recipient", oldCfg.Sender.TestRecipient, newCfg.Sender.TestRecipient, false)
	add("sender.test_subject", oldCfg.Sender.TestSubject, newCfg.Sender.TestSubject, false)

	return changes
}

// RequiresPoolRestart reports whether any change needs a new pool.
func RequiresPoolRestart(changes []Change) bool {
	for _, c := range changes {
		if c.RestartPool {
			return true
		}
	}

	return false
}
