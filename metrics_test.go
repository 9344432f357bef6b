package smtppool

import (
	"testing"
	"time"
)

func TestPoolMetrics_Basic(t *testing.T) {
	metrics := NewPoolMetrics()
	if metrics == nil {
		t.Fatal("NewPoolMetrics() returned nil")
	}

	snapshot := metrics.GetSnapshot(PoolStats{})
	if snapshot.TotalMessagesSent != 0 {
		t.Errorf("TotalMessagesSent = %d, want 0", snapshot.TotalMessagesSent)
	}
	if snapshot.TotalErrors != 0 {
		t.Errorf("TotalErrors = %d, want 0", snapshot.TotalErrors)
	}
	if snapshot.ErrorRate != 0 {
		t.Errorf("ErrorRate = %v, want 0", snapshot.ErrorRate)
	}
	if snapshot.AverageAcquireWaitTime != 0 {
		t.Errorf("AverageAcquireWaitTime = %v, want 0", snapshot.AverageAcquireWaitTime)
	}
}

func TestPoolMetrics_SendCounters(t *testing.T) {
	metrics := NewPoolMetrics()

	metrics.RecordSend(true)
	metrics.RecordSend(true)
	metrics.RecordSend(false)
	metrics.RecordRetry()

	snapshot := metrics.GetSnapshot(PoolStats{})
	if snapshot.TotalMessagesSent != 2 {
		t.Errorf("TotalMessagesSent = %d, want 2", snapshot.TotalMessagesSent)
	}
	if snapshot.TotalSendFailures != 1 {
		t.Errorf("TotalSendFailures = %d, want 1", snapshot.TotalSendFailures)
	}
	if snapshot.TotalRetries != 1 {
		t.Errorf("TotalRetries = %d, want 1", snapshot.TotalRetries)
	}
}

func TestPoolMetrics_KeepAliveCounters(t *testing.T) {
	metrics := NewPoolMetrics()

	metrics.RecordKeepAlivePing(true)
	metrics.RecordKeepAlivePing(false)
	metrics.RecordKeepAliveReconnect(true)
	metrics.RecordKeepAliveReconnect(false)

	snapshot := metrics.GetSnapshot(PoolStats{})
	if snapshot.TotalKeepAlivePings != 2 {
		t.Errorf("TotalKeepAlivePings = %d, want 2", snapshot.TotalKeepAlivePings)
	}
	if snapshot.TotalKeepAliveReconnects != 2 {
		t.Errorf("TotalKeepAliveReconnects = %d, want 2", snapshot.TotalKeepAliveReconnects)
	}
	if snapshot.TotalKeepAliveFailures != 2 {
		t.Errorf("TotalKeepAliveFailures = %d, want 2", snapshot.TotalKeepAliveFailures)
	}
}

func TestPoolMetrics_ErrorRateAndWaitTime(t *testing.T) {
	metrics := NewPoolMetrics()

	for range 4 {
		metrics.RecordAcquire()
		metrics.RecordAcquireWaitTime(10 * time.Millisecond)
	}

	metrics.RecordError()

	snapshot := metrics.GetSnapshot(PoolStats{Capacity: 2})
	if snapshot.ErrorRate != 25 {
		t.Errorf("ErrorRate = %v, want 25", snapshot.ErrorRate)
	}
	if snapshot.AverageAcquireWaitTime != 10*time.Millisecond {
		t.Errorf("AverageAcquireWaitTime = %v, want %v", snapshot.AverageAcquireWaitTime, 10*time.Millisecond)
	}
	if snapshot.Stats.Capacity != 2 {
		t.Errorf("Stats.Capacity = %d, want 2", snapshot.Stats.Capacity)
	}
}

func TestPoolMetrics_SnapshotTimestamp(t *testing.T) {
	metrics := NewPoolMetrics()

	before := time.Now()
	snapshot := metrics.GetSnapshot(PoolStats{})
	after := time.Now()

	if snapshot.Timestamp.Before(before) || snapshot.Timestamp.After(after) {
		t.Errorf("Snapshot timestamp %v is outside expected range [%v, %v]",
			snapshot.Timestamp, before, after)
	}
	if snapshot.Uptime < 0 {
		t.Errorf("Uptime = %v, want >= 0", snapshot.Uptime)
	}
}

func TestPoolMetrics_ConcurrentAccess(t *testing.T) {
	metrics := NewPoolMetrics()

	const goroutines = 10
	const operations = 100

	done := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			for j := 0; j < operations; j++ {
				metrics.RecordAcquire()
				metrics.RecordRelease()
				metrics.RecordSend(true)
				metrics.RecordConnectionCreated()
				metrics.RecordConnectionDestroyed()
			}
			done <- true
		}()
	}

	for i := 0; i < goroutines; i++ {
		<-done
	}

	snapshot := metrics.GetSnapshot(PoolStats{})
	expected := int64(goroutines * operations)

	if snapshot.TotalAcquires != expected {
		t.Errorf("TotalAcquires = %d, want %d", snapshot.TotalAcquires, expected)
	}
	if snapshot.TotalReleases != expected {
		t.Errorf("TotalReleases = %d, want %d", snapshot.TotalReleases, expected)
	}
	if snapshot.TotalMessagesSent != expected {
		t.Errorf("TotalMessagesSent = %d, want %d", snapshot.TotalMessagesSent, expected)
	}
	if snapshot.TotalConnectionsCreated != expected || snapshot.TotalConnectionsDestroyed != expected {
		t.Errorf("connections created/destroyed = %d/%d, want %d",
			snapshot.TotalConnectionsCreated, snapshot.TotalConnectionsDestroyed, expected)
	}
}
