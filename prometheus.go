package smtppool

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = (*PrometheusCollector)(nil)

// PrometheusCollector exports the pool snapshot on every scrape.
type PrometheusCollector struct {
	pool SMTPConnectionPool

	capacity          *prometheus.Desc
	idle              *prometheus.Desc
	acquired          *prometheus.Desc
	connected         *prometheus.Desc
	acquireWait       *prometheus.Desc
	connectionsOpened *prometheus.Desc
	connectionsClosed *prometheus.Desc
	acquires          *prometheus.Desc
	errors            *prometheus.Desc
	retries           *prometheus.Desc
	messages          *prometheus.Desc
	keepAlive         *prometheus.Desc
	invariant         *prometheus.Desc
	commands          *prometheus.Desc
	uploaded          *prometheus.Desc
	auth              *prometheus.Desc
}

// NewPrometheusCollector creates a collector for pool. Register it with a
// prometheus.Registerer.
func NewPrometheusCollector(pool SMTPConnectionPool, namespace string, constLabels prometheus.Labels) *PrometheusCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, labels, constLabels)
	}

	return &PrometheusCollector{
		pool:              pool,
		capacity:          desc("capacity", "Number of pooled connections."),
		idle:              desc("idle_connections", "Connections waiting in the idle set."),
		acquired:          desc("acquired_connections", "Connections currently checked out."),
		connected:         desc("connected_connections", "Connections with a live transport."),
		acquireWait:       desc("acquire_wait_seconds_total", "Total time callers waited for a connection."),
		connectionsOpened: desc("connections_opened_total", "Successful dials including authentication."),
		connectionsClosed: desc("connections_closed_total", "Transports closed by the pool."),
		acquires:          desc("acquires_total", "Connection checkouts."),
		errors:            desc("errors_total", "Failed pool operations."),
		retries:           desc("retries_total", "Sends retried after a lost connection."),
		messages:          desc("messages_total", "Messages handled, by result.", "result"),
		keepAlive:         desc("keep_alive_total", "Keep-alive actions, by action and result.", "action", "result"),
		invariant:         desc("invariant_violations_total", "Detected ownership defects."),
		commands:          desc("commands_total", "SMTP transactions and NOOPs, by result.", "result"),
		uploaded:          desc("uploaded_bytes_total", "Message bytes written in DATA."),
		auth:              desc("auth_total", "Authentication attempts, by result.", "result"),
	}
}

func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.capacity, c.idle, c.acquired, c.connected, c.acquireWait,
		c.connectionsOpened, c.connectionsClosed, c.acquires, c.errors,
		c.retries, c.messages, c.keepAlive, c.invariant,
		c.commands, c.uploaded, c.auth,
	} {
		ch <- d
	}
}

func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.GetMetricsSnapshot()

	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}
	counter := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, labels...)
	}

	gauge(c.capacity, float64(s.Stats.Capacity))
	gauge(c.idle, float64(s.Stats.Idle))
	gauge(c.acquired, float64(s.Stats.Acquired))
	gauge(c.connected, float64(s.Stats.Connected))
	counter(c.acquireWait, s.Stats.AcquireDuration.Seconds())
	counter(c.connectionsOpened, float64(s.TotalConnectionsCreated))
	counter(c.connectionsClosed, float64(s.TotalConnectionsDestroyed))
	counter(c.acquires, float64(s.TotalAcquires))
	counter(c.errors, float64(s.TotalErrors))
	counter(c.retries, float64(s.TotalRetries))
	counter(c.messages, float64(s.TotalMessagesSent), "sent")
	counter(c.messages, float64(s.TotalSendFailures), "failed")
	counter(c.keepAlive, float64(s.TotalKeepAlivePings), "ping", "total")
	counter(c.keepAlive, float64(s.TotalKeepAliveReconnects), "reconnect", "total")
	counter(c.keepAlive, float64(s.TotalKeepAliveFailures), "any", "failed")
	counter(c.invariant, float64(s.TotalInvariantViolations))
	counter(c.commands, float64(s.Wire.TotalCommands-s.Wire.CommandErrors), "ok")
	counter(c.commands, float64(s.Wire.CommandErrors), "failed")
	counter(c.uploaded, float64(s.Wire.BytesUploaded))
	counter(c.auth, float64(s.Wire.AuthAttempts-s.Wire.AuthFailures), "ok")
	counter(c.auth, float64(s.Wire.AuthFailures), "failed")
}
