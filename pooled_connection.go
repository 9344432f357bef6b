//go:generate go tool mockgen -source=./pooled_connection.go -destination=./pooled_connection_mock.go -package=smtppool PooledConnection

// Package smtppool provides a bounded pool of persistent SMTP connections.
package smtppool

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jackc/puddle/v2"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

var _ PooledConnection = (*pooledConnection)(nil)

// PooledConnection is exclusive use of one pooled connection. Exactly one of
// Free or Close must be called when done.
type PooledConnection interface {
	ID() string
	State() ConnectionState
	CreatedAt() time.Time
	// EnsureConnected dials and authenticates if the connection is down.
	EnsureConnected(ctx context.Context) error
	// Send runs one transaction without retrying.
	Send(ctx context.Context, msg *smtpcli.Message) error
	Noop(ctx context.Context) error
	// Free returns the connection to the idle set as is.
	Free() error
	// Close drops the transport, then returns the slot to the idle set.
	Close() error
}

type pooledConnection struct {
	resource *puddle.Resource[*Connection]
	conn     *Connection
	pool     *connectionPool
	released atomic.Bool
}

func (p *pooledConnection) ID() string {
	return p.conn.ID()
}

func (p *pooledConnection) State() ConnectionState {
	return p.conn.State()
}

func (p *pooledConnection) CreatedAt() time.Time {
	return p.conn.CreatedAt()
}

func (p *pooledConnection) EnsureConnected(ctx context.Context) error {
	if p.released.Load() {
		return p.pool.invariantViolation(ctx, "connect", p.conn.ID(), errUseAfterRelease)
	}

	if p.conn.IsConnected() {
		return nil
	}

	cfg := p.pool.config

	connCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := p.conn.connect(connCtx, cfg.SMTPCli, cfg.Server); err != nil {
		if ctx.Err() != nil {
			return p.pool.interruptedError(ctx, "connect", p.conn.ID(), err)
		}

		p.pool.log.WarnContext(ctx,
			"Unable to connect to smtp server",
			"connection_id", p.conn.ID(),
			"server", cfg.Server,
			"error", err,
		)

		return newPoolError("connect", p.conn.ID(), ErrConnect, err)
	}

	p.pool.log.DebugContext(ctx,
		"Connected to smtp server",
		"connection_id", p.conn.ID(),
		"host", cfg.Server.Host,
	)

	return nil
}

func (p *pooledConnection) Send(ctx context.Context, msg *smtpcli.Message) error {
	if p.released.Load() {
		return p.pool.invariantViolation(ctx, "send", p.conn.ID(), errUseAfterRelease)
	}

	if msg == nil {
		return newPoolError("send", p.conn.ID(), ErrNilMessage, nil)
	}

	if !p.conn.IsConnected() {
		return newPoolError("send", p.conn.ID(), ErrTransport, smtpcli.ErrNilSMTPConn)
	}

	sendCtx, cancel := context.WithTimeout(ctx, p.pool.config.SendTimeout)
	defer cancel()

	err := p.conn.send(sendCtx, msg)
	if err == nil {
		return nil
	}

	switch {
	case ctx.Err() != nil:
		return p.pool.interruptedError(ctx, "send", p.conn.ID(), err)
	case sendCtx.Err() != nil, smtpcli.IsConnectionLost(err):
		// A send timeout leaves the session in an unknown state, same as a drop.
		return newPoolError("send", p.conn.ID(), ErrTransport, err)
	default:
		return newPoolError("send", p.conn.ID(), ErrProtocol, err)
	}
}

func (p *pooledConnection) Noop(ctx context.Context) error {
	if p.released.Load() {
		return p.pool.invariantViolation(ctx, "noop", p.conn.ID(), errUseAfterRelease)
	}

	if !p.conn.IsConnected() {
		return newPoolError("noop", p.conn.ID(), ErrTransport, smtpcli.ErrNilSMTPConn)
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.pool.config.ConnectTimeout)
	defer cancel()

	if err := p.conn.ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return p.pool.interruptedError(ctx, "noop", p.conn.ID(), err)
		}

		return newPoolError("noop", p.conn.ID(), ErrTransport, err)
	}

	return nil
}

func (p *pooledConnection) Free() error {
	return p.release(false)
}

func (p *pooledConnection) Close() error {
	return p.release(true)
}

func (p *pooledConnection) release(drop bool) error {
	if !p.released.CompareAndSwap(false, true) {
		return p.pool.invariantViolation(context.Background(), "release", p.conn.ID(), errDoubleRelease)
	}

	if drop {
		p.conn.disconnect()
	}

	if !p.conn.checkedOut.CompareAndSwap(true, false) {
		// Still hand the resource back so the permit is not lost.
		p.resource.Release()
		return p.pool.invariantViolation(context.Background(), "release", p.conn.ID(), errNotCheckedOut)
	}

	p.pool.metrics.RecordRelease()
	p.resource.Release()

	return nil
}

var (
	errUseAfterRelease = errors.New("connection used after release")
	errDoubleRelease   = errors.New("connection released twice")
	errNotCheckedOut   = errors.New("released connection was not checked out")
	errDoubleCheckout  = errors.New("connection handed out while already checked out")
)
