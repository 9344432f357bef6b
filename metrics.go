package smtppool

import (
	"sync/atomic"
	"time"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

// PoolMetrics provides lock-free counters for the whole pool
type PoolMetrics struct {
	totalConnectionsCreated   int64 // successful dials
	totalConnectionsDestroyed int64 // transports closed
	totalAcquires             int64
	totalReleases             int64
	totalErrors               int64
	totalRetries              int64
	totalMessagesSent         int64
	totalSendFailures         int64
	totalKeepAlivePings       int64
	totalKeepAliveFailures    int64
	totalKeepAliveReconnects  int64
	totalInvariantViolations  int64

	totalAcquireWaitTime int64 // nanoseconds

	startTime int64 // unix nanoseconds
}

func NewPoolMetrics() *PoolMetrics {
	return &PoolMetrics{
		startTime: time.Now().UnixNano(),
	}
}

func (m *PoolMetrics) RecordConnectionCreated() {
	atomic.AddInt64(&m.totalConnectionsCreated, 1)
}

func (m *PoolMetrics) RecordConnectionDestroyed() {
	atomic.AddInt64(&m.totalConnectionsDestroyed, 1)
}

func (m *PoolMetrics) RecordAcquire() {
	atomic.AddInt64(&m.totalAcquires, 1)
}

func (m *PoolMetrics) RecordRelease() {
	atomic.AddInt64(&m.totalReleases, 1)
}

func (m *PoolMetrics) RecordError() {
	atomic.AddInt64(&m.totalErrors, 1)
}

func (m *PoolMetrics) RecordRetry() {
	atomic.AddInt64(&m.totalRetries, 1)
}

func (m *PoolMetrics) RecordSend(success bool) {
	if success {
		atomic.AddInt64(&m.totalMessagesSent, 1)
		return
	}

	atomic.AddInt64(&m.totalSendFailures, 1)
}

func (m *PoolMetrics) RecordKeepAlivePing(success bool) {
	atomic.AddInt64(&m.totalKeepAlivePings, 1)

	if !success {
		atomic.AddInt64(&m.totalKeepAliveFailures, 1)
	}
}

func (m *PoolMetrics) RecordKeepAliveReconnect(success bool) {
	atomic.AddInt64(&m.totalKeepAliveReconnects, 1)

	if !success {
		atomic.AddInt64(&m.totalKeepAliveFailures, 1)
	}
}

func (m *PoolMetrics) RecordInvariantViolation() {
	atomic.AddInt64(&m.totalInvariantViolations, 1)
}

func (m *PoolMetrics) RecordAcquireWaitTime(duration time.Duration) {
	atomic.AddInt64(&m.totalAcquireWaitTime, int64(duration))
}

func (m *PoolMetrics) GetTotalConnectionsCreated() int64 {
	return atomic.LoadInt64(&m.totalConnectionsCreated)
}

func (m *PoolMetrics) GetTotalConnectionsDestroyed() int64 {
	return atomic.LoadInt64(&m.totalConnectionsDestroyed)
}

func (m *PoolMetrics) GetTotalAcquires() int64 {
	return atomic.LoadInt64(&m.totalAcquires)
}

func (m *PoolMetrics) GetTotalReleases() int64 {
	return atomic.LoadInt64(&m.totalReleases)
}

func (m *PoolMetrics) GetTotalErrors() int64 {
	return atomic.LoadInt64(&m.totalErrors)
}

func (m *PoolMetrics) GetTotalRetries() int64 {
	return atomic.LoadInt64(&m.totalRetries)
}

func (m *PoolMetrics) GetTotalMessagesSent() int64 {
	return atomic.LoadInt64(&m.totalMessagesSent)
}

func (m *PoolMetrics) GetTotalKeepAliveReconnects() int64 {
	return atomic.LoadInt64(&m.totalKeepAliveReconnects)
}

func (m *PoolMetrics) GetTotalInvariantViolations() int64 {
	return atomic.LoadInt64(&m.totalInvariantViolations)
}

func (m *PoolMetrics) GetAverageAcquireWaitTime() time.Duration {
	acquires := atomic.LoadInt64(&m.totalAcquires)
	if acquires == 0 {
		return 0
	}

	return time.Duration(atomic.LoadInt64(&m.totalAcquireWaitTime) / acquires)
}

func (m *PoolMetrics) GetUptime() time.Duration {
	return time.Since(time.Unix(0, atomic.LoadInt64(&m.startTime)))
}

// PoolMetricsSnapshot is a point-in-time view of the pool counters and
// occupancy.
type PoolMetricsSnapshot struct {
	Timestamp                 time.Time     `json:"timestamp"`
	Uptime                    time.Duration `json:"uptime"`
	Stats                     PoolStats     `json:"stats"`
	TotalConnectionsCreated   int64         `json:"total_connections_created"`
	TotalConnectionsDestroyed int64         `json:"total_connections_destroyed"`
	TotalAcquires             int64         `json:"total_acquires"`
	TotalReleases             int64         `json:"total_releases"`
	TotalErrors               int64         `json:"total_errors"`
	TotalRetries              int64         `json:"total_retries"`
	TotalMessagesSent         int64         `json:"total_messages_sent"`
	TotalSendFailures         int64         `json:"total_send_failures"`
	TotalKeepAlivePings       int64         `json:"total_keep_alive_pings"`
	TotalKeepAliveReconnects  int64         `json:"total_keep_alive_reconnects"`
	TotalKeepAliveFailures    int64         `json:"total_keep_alive_failures"`
	TotalInvariantViolations  int64         `json:"total_invariant_violations"`
	AverageAcquireWaitTime    time.Duration `json:"average_acquire_wait_time"`
	ErrorRate                 float64       `json:"error_rate_percent"`

	// Wire totals the protocol counters of every pooled connection.
	Wire smtpcli.MetricsSnapshot `json:"wire"`
}

func (m *PoolMetrics) GetSnapshot(stats PoolStats) PoolMetricsSnapshot {
	acquires := m.GetTotalAcquires()
	errs := m.GetTotalErrors()

	var errorRate float64
	if acquires > 0 {
		errorRate = float64(errs) / float64(acquires) * 100
	}

	return PoolMetricsSnapshot{
		Timestamp:                 time.Now(),
		Uptime:                    m.GetUptime(),
		Stats:                     stats,
		TotalConnectionsCreated:   m.GetTotalConnectionsCreated(),
		TotalConnectionsDestroyed: m.GetTotalConnectionsDestroyed(),
		TotalAcquires:             acquires,
		TotalReleases:             m.GetTotalReleases(),
		TotalErrors:               errs,
		TotalRetries:              m.GetTotalRetries(),
		TotalMessagesSent:         m.GetTotalMessagesSent(),
		TotalSendFailures:         atomic.LoadInt64(&m.totalSendFailures),
		TotalKeepAlivePings:       atomic.LoadInt64(&m.totalKeepAlivePings),
		TotalKeepAliveReconnects:  m.GetTotalKeepAliveReconnects(),
		TotalKeepAliveFailures:    atomic.LoadInt64(&m.totalKeepAliveFailures),
		TotalInvariantViolations:  m.GetTotalInvariantViolations(),
		AverageAcquireWaitTime:    m.GetAverageAcquireWaitTime(),
		ErrorRate:                 errorRate,
	}
}
