package smtppool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

// ConnectionState is the lifecycle state of a pooled connection.
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateSending
	StateDisposed
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateSending:
		return "sending"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Connection is one slot of the pool. The transport handle is only touched
// by the current holder; state and timestamps may be read by anyone.
type Connection struct {
	id          string
	handle      smtpcli.Connection
	state       atomic.Int32
	createdAt   time.Time
	connectedAt atomic.Int64
	lastUsed    atomic.Int64
	checkedOut  atomic.Bool
	metrics     *PoolMetrics

	// wire outlives the transports so its counters cover every reconnect.
	wire *smtpcli.Metrics
}

func newConnection(metrics *PoolMetrics) *Connection {
	now := time.Now()

	c := &Connection{
		id:        uuid.NewString(),
		createdAt: now,
		metrics:   metrics,
		wire:      smtpcli.NewMetrics(),
	}
	c.lastUsed.Store(now.UnixNano())

	return c
}

func (c *Connection) ID() string {
	return c.id
}

func (c *Connection) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

func (c *Connection) IsConnected() bool {
	return c.State() == StateConnected
}

func (c *Connection) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Connection) LastUsed() time.Time {
	return time.Unix(0, c.lastUsed.Load())
}

// expired reports whether the current transport has been up for longer
// than maxAge.
func (c *Connection) expired(maxAge time.Duration) bool {
	at := c.connectedAt.Load()
	if at == 0 || maxAge <= 0 {
		return false
	}

	return time.Since(time.Unix(0, at)) > maxAge
}

func (c *Connection) setState(s ConnectionState) {
	c.state.Store(int32(s))
}

func (c *Connection) touch() {
	c.lastUsed.Store(time.Now().UnixNano())
}

// connect replaces the transport with a freshly dialed and authenticated one.
func (c *Connection) connect(ctx context.Context, cli smtpcli.Client, server ServerConfig) error {
	c.disconnect()
	c.setState(StateConnecting)

	handle, err := dialSMTP(ctx, cli, server, c.wire)
	if err != nil {
		c.setState(StateDisconnected)
		return err
	}

	c.handle = handle
	c.connectedAt.Store(time.Now().UnixNano())
	c.metrics.RecordConnectionCreated()
	c.setState(StateConnected)
	c.touch()

	return nil
}

func (c *Connection) send(ctx context.Context, msg *smtpcli.Message) error {
	c.setState(StateSending)

	err := c.handle.Send(ctx, msg)
	if err != nil && (ctx.Err() != nil || smtpcli.IsConnectionLost(err)) {
		// The session state is unknown once a command was interrupted.
		c.disconnect()
		return err
	}

	c.setState(StateConnected)
	c.touch()

	return err
}

func (c *Connection) ping(ctx context.Context) error {
	if err := c.handle.Noop(ctx); err != nil {
		c.disconnect()
		return err
	}

	c.touch()

	return nil
}

// disconnect closes the transport, if any, and marks the connection
// disconnected. Errors from QUIT are irrelevant at this point.
func (c *Connection) disconnect() {
	if c.handle != nil {
		_ = c.handle.Close()
		c.handle = nil
		c.connectedAt.Store(0)
		c.metrics.RecordConnectionDestroyed()
	}

	if c.State() != StateDisposed {
		c.setState(StateDisconnected)
	}
}

func (c *Connection) dispose() {
	c.disconnect()
	c.setState(StateDisposed)
}
