//go:generate go tool mockgen -source=./connection_pool.go -destination=./connection_pool_mock.go -package=smtppool SMTPConnectionPool

package smtppool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/puddle/v2"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

// sendAttempts is the first try plus the single retry after a reconnect.
const sendAttempts = 2

type SMTPConnectionPool interface {
	// Send delivers msg through one pooled connection. A connection lost
	// mid-send is reconnected and the message retried once.
	Send(ctx context.Context, msg *smtpcli.Message) error
	// GetConnection checks out a connection for exclusive use. The caller
	// must Free or Close it.
	GetConnection(ctx context.Context) (PooledConnection, error)
	// Warmup runs one keep-alive pass now and reports every failure.
	Warmup(ctx context.Context) error
	Stats() PoolStats
	GetMetrics() *PoolMetrics
	GetMetricsSnapshot() PoolMetricsSnapshot
	Quit()
}

// PoolStats describes the pool occupancy at one instant.
type PoolStats struct {
	Capacity             int32         `json:"capacity"`
	Idle                 int32         `json:"idle"`
	Acquired             int32         `json:"acquired"`
	Connected            int32         `json:"connected"`
	AcquireCount         int64         `json:"acquire_count"`
	EmptyAcquireCount    int64         `json:"empty_acquire_count"`
	CanceledAcquireCount int64         `json:"canceled_acquire_count"`
	AcquireDuration      time.Duration `json:"acquire_duration"`
	Closed               bool          `json:"closed"`
}

type connectionPool struct {
	pool           *puddle.Pool[*Connection]
	config         Config
	log            Logger
	metrics        *PoolMetrics
	lifetime       context.Context
	cancelLifetime context.CancelCauseFunc
	isShutdown     atomic.Bool
	shutdownOnce   sync.Once
	wg             sync.WaitGroup

	// connections is fixed at construction and only read afterwards.
	connections []*Connection
}

// NewConnectionPool creates Capacity disconnected connections and starts the
// keep-alive scheduler. No network I/O happens until the first Send, Warmup
// or keep-alive pass.
func NewConnectionPool(c ...Config) (SMTPConnectionPool, error) {
	config := mergeWithDefault(c...)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	metrics := NewPoolMetrics()

	pool, err := newResourcePool(config.Capacity, metrics)
	if err != nil {
		return nil, err
	}

	lifetime, cancel := context.WithCancelCause(context.Background())

	cp := &connectionPool{
		pool:           pool,
		config:         config,
		log:            config.Logger,
		metrics:        metrics,
		lifetime:       lifetime,
		cancelLifetime: cancel,
	}

	for _, res := range pool.AcquireAllIdle() {
		cp.connections = append(cp.connections, res.Value())
		res.ReleaseUnused()
	}

	cp.wg.Add(1)

	go cp.keepAliveLoop()

	config.Logger.Info("SMTP connection pool created",
		"server", config.Server,
		"capacity", config.Capacity,
		"keep_alive_interval", config.KeepAliveInterval,
	)

	return cp, nil
}

// Quit stops the keep-alive scheduler, aborts waiters and in-flight I/O, waits
// up to ShutdownTimeout for checked-out connections to come back and closes
// all of them. Connections still out after that are closed whenever their
// holder releases them. It is safe to call more than once.
func (p *connectionPool) Quit() {
	p.shutdownOnce.Do(func() {
		p.isShutdown.Store(true)
		p.cancelLifetime(ErrPoolDisposed)

		p.wg.Wait()

		done := make(chan struct{})
		go func() {
			defer close(done)
			// Blocks until every acquired connection is released.
			p.pool.Close()
		}()

		select {
		case <-done:
			p.log.Info("SMTP connection pool closed")
		case <-time.After(p.config.ShutdownTimeout):
			p.log.Warn("Shutdown timeout exceeded, leaving checked-out connections behind",
				"acquired", p.pool.Stat().AcquiredResources(),
				"timeout", p.config.ShutdownTimeout,
			)
		}
	})
}

func (p *connectionPool) GetConnection(ctx context.Context) (PooledConnection, error) {
	if p.isShutdown.Load() {
		return nil, newPoolError("acquire", "", ErrPoolDisposed, nil)
	}

	actx, cancel := mergeContext(ctx, p.lifetime)
	defer cancel()

	start := time.Now()

	res, err := p.pool.Acquire(actx)
	if err != nil {
		return nil, p.acquireError(ctx, actx, err)
	}

	p.metrics.RecordAcquireWaitTime(time.Since(start))

	return p.checkout(ctx, res)
}

// checkout turns an acquired resource into a PooledConnection, enforcing
// single ownership.
func (p *connectionPool) checkout(ctx context.Context, res *puddle.Resource[*Connection]) (PooledConnection, error) {
	conn := res.Value()
	if conn == nil {
		res.Destroy()
		return nil, p.invariantViolation(ctx, "acquire", "", errors.New("acquired slot holds no connection"))
	}

	if !conn.checkedOut.CompareAndSwap(false, true) {
		// Someone else owns it. Releasing would hand it out a third time, so
		// the slot is given up instead of leaking the permit.
		res.Destroy()
		return nil, p.invariantViolation(ctx, "acquire", conn.ID(), errDoubleCheckout)
	}

	if p.isShutdown.Load() {
		conn.checkedOut.Store(false)
		res.Release()

		return nil, newPoolError("acquire", conn.ID(), ErrPoolDisposed, nil)
	}

	p.metrics.RecordAcquire()

	return &pooledConnection{
		resource: res,
		conn:     conn,
		pool:     p,
	}, nil
}

func (p *connectionPool) Send(ctx context.Context, msg *smtpcli.Message) error {
	if msg == nil {
		return newPoolError("send", "", ErrNilMessage, nil)
	}

	conn, err := p.GetConnection(ctx)
	if err != nil {
		p.metrics.RecordError()
		return err
	}

	// In-flight I/O must also stop when the pool is closing.
	sctx, cancel := mergeContext(ctx, p.lifetime)
	defer cancel()

	err = retry.Do(func() error {
		if err := conn.EnsureConnected(sctx); err != nil {
			return err
		}

		return conn.Send(sctx, msg)
	},
		retry.Context(sctx),
		retry.Attempts(sendAttempts),
		retry.DelayType(p.config.delayTypeFn),
		retry.Delay(p.config.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return sctx.Err() == nil && errors.Is(err, ErrTransport)
		}),
		retry.OnRetry(func(n uint, err error) {
			// Also called after the final attempt, which is not followed by a retry.
			if n+1 >= sendAttempts {
				return
			}

			p.metrics.RecordRetry()
			p.log.DebugContext(ctx,
				"Connection lost while sending, reconnecting",
				"connection_id", conn.ID(),
				"error", err,
				"retry", n,
			)
		}),
	)

	var pe *PoolError
	if err != nil && !errors.As(err, &pe) {
		// retry gave up on the context before an attempt could run.
		err = p.interruptedError(sctx, "send", conn.ID(), err)
	}

	var releaseErr error
	if err != nil && sctx.Err() != nil {
		releaseErr = conn.Close()
	} else {
		releaseErr = conn.Free()
	}

	if err != nil {
		p.metrics.RecordError()
		p.metrics.RecordSend(false)

		if !errors.Is(err, ErrCanceled) && !errors.Is(err, ErrPoolDisposed) {
			p.log.DebugContext(ctx, "Unable to send message", "connection_id", conn.ID(), "error", err)
		}

		if releaseErr != nil {
			return errors.Join(err, releaseErr)
		}

		return err
	}

	p.metrics.RecordSend(true)

	return releaseErr
}

func (p *connectionPool) Stats() PoolStats {
	stat := p.pool.Stat()

	var connected int32

	for _, c := range p.connections {
		if c.IsConnected() || c.State() == StateSending {
			connected++
		}
	}

	return PoolStats{
		Capacity:             stat.MaxResources(),
		Idle:                 stat.IdleResources(),
		Acquired:             stat.AcquiredResources(),
		Connected:            connected,
		AcquireCount:         stat.AcquireCount(),
		EmptyAcquireCount:    stat.EmptyAcquireCount(),
		CanceledAcquireCount: stat.CanceledAcquireCount(),
		AcquireDuration:      stat.AcquireDuration(),
		Closed:               p.isShutdown.Load(),
	}
}

func (p *connectionPool) GetMetrics() *PoolMetrics {
	return p.metrics
}

func (p *connectionPool) GetMetricsSnapshot() PoolMetricsSnapshot {
	snapshot := p.metrics.GetSnapshot(p.Stats())

	for _, c := range p.connections {
		snapshot.Wire.Add(c.wire.GetSnapshot())
	}

	return snapshot
}

// acquireError classifies a failed admission wait. actx is the caller
// context merged with the pool lifetime.
func (p *connectionPool) acquireError(ctx, actx context.Context, err error) error {
	if p.isShutdown.Load() ||
		errors.Is(err, puddle.ErrClosedPool) ||
		errors.Is(context.Cause(actx), ErrPoolDisposed) {
		return newPoolError("acquire", "", ErrPoolDisposed, err)
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newPoolError("acquire", "", ErrAdmissionTimeout, err)
	}

	return newPoolError("acquire", "", ErrCanceled, err)
}

// interruptedError classifies a failure that happened because ctx is done.
func (p *connectionPool) interruptedError(ctx context.Context, op, connID string, err error) error {
	if p.isShutdown.Load() || errors.Is(context.Cause(ctx), ErrPoolDisposed) {
		return newPoolError(op, connID, ErrPoolDisposed, err)
	}

	return newPoolError(op, connID, ErrCanceled, err)
}

func (p *connectionPool) invariantViolation(ctx context.Context, op, connID string, err error) error {
	p.metrics.RecordInvariantViolation()
	p.log.ErrorContext(ctx,
		"Connection pool invariant violated",
		"op", op,
		"connection_id", connID,
		"error", err,
	)

	return newPoolError(op, connID, ErrInvariantViolation, err)
}
