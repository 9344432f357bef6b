package smtpcli

import (
	"sync/atomic"
	"time"
)

// Metrics contains lightweight protocol counters using atomic operations.
// One instance may be shared by every connection dialed for the same slot so
// the counts survive reconnects.
type Metrics struct {
	// unix timestamp
	lastActivity int64

	totalCommands int64
	commandErrors int64
	bytesUploaded int64
	noops         int64
	authAttempts  int64
	authFailures  int64
}

// NewMetrics creates a new lightweight metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		lastActivity: time.Now().Unix(),
	}
}

func (m *Metrics) touch() {
	atomic.StoreInt64(&m.lastActivity, time.Now().Unix())
}

func (m *Metrics) RecordCommand(success bool) {
	m.touch()
	atomic.AddInt64(&m.totalCommands, 1)

	if !success {
		atomic.AddInt64(&m.commandErrors, 1)
	}
}

func (m *Metrics) RecordAuth(success bool) {
	m.touch()
	atomic.AddInt64(&m.authAttempts, 1)

	if !success {
		atomic.AddInt64(&m.authFailures, 1)
	}
}

func (m *Metrics) RecordUpload(bytes int64) {
	m.touch()
	atomic.AddInt64(&m.bytesUploaded, bytes)
}

func (m *Metrics) RecordNoop() {
	m.touch()
	atomic.AddInt64(&m.noops, 1)
}

type MetricsSnapshot struct {
	LastActivity  time.Time `json:"last_activity"`
	TotalCommands int64     `json:"total_commands"`
	CommandErrors int64     `json:"command_errors"`
	BytesUploaded int64     `json:"bytes_uploaded"`
	Noops         int64     `json:"noops"`
	AuthAttempts  int64     `json:"auth_attempts"`
	AuthFailures  int64     `json:"auth_failures"`
}

// GetSnapshot returns a point-in-time copy of the counters
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		LastActivity:  time.Unix(atomic.LoadInt64(&m.lastActivity), 0),
		TotalCommands: atomic.LoadInt64(&m.totalCommands),
		CommandErrors: atomic.LoadInt64(&m.commandErrors),
		BytesUploaded: atomic.LoadInt64(&m.bytesUploaded),
		Noops:         atomic.LoadInt64(&m.noops),
		AuthAttempts:  atomic.LoadInt64(&m.authAttempts),
		AuthFailures:  atomic.LoadInt64(&m.authFailures),
	}
}

// Add accumulates o into s, used to total several connections.
func (s *MetricsSnapshot) Add(o MetricsSnapshot) {
	if o.LastActivity.After(s.LastActivity) {
		s.LastActivity = o.LastActivity
	}

	s.TotalCommands += o.TotalCommands
	s.CommandErrors += o.CommandErrors
	s.BytesUploaded += o.BytesUploaded
	s.Noops += o.Noops
	s.AuthAttempts += o.AuthAttempts
	s.AuthFailures += o.AuthFailures
}
