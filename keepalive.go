package smtppool

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jackc/puddle/v2"
)

func (p *connectionPool) keepAliveLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.lifetime.Done():
			return
		case <-ticker.C:
			if err := p.keepAlivePass(p.lifetime); err != nil {
				p.log.DebugContext(p.lifetime, "Keep-alive pass finished with errors", "error", err)
			}
		}
	}
}

// Warmup connects every idle connection, or pings it when already connected,
// and returns the failures of this pass.
func (p *connectionPool) Warmup(ctx context.Context) error {
	if p.isShutdown.Load() {
		return newPoolError("warmup", "", ErrPoolDisposed, nil)
	}

	wctx, cancel := mergeContext(ctx, p.lifetime)
	defer cancel()

	return p.keepAlivePass(wctx)
}

// keepAlivePass services the connections that are idle right now. Each one
// is checked out through the same gate as senders and handed back as soon as
// its own action is done, so a slow peer only holds one slot. Connections
// older than MaxConnectionAge are redialed instead of pinged.
func (p *connectionPool) keepAlivePass(ctx context.Context) error {
	idle := p.pool.AcquireAllIdle()
	if len(idle) == 0 {
		return nil
	}

	g := multierror.Group{}

	for _, res := range idle {
		g.Go(func() error {
			return p.keepAlive(ctx, res)
		})
	}

	return g.Wait().ErrorOrNil()
}

func (p *connectionPool) keepAlive(ctx context.Context, res *puddle.Resource[*Connection]) error {
	pc, err := p.checkout(ctx, res)
	if err != nil {
		return err
	}

	if conn := res.Value(); conn.IsConnected() && conn.expired(p.config.MaxConnectionAge) {
		p.log.DebugContext(ctx, "Recycling connection past its max age",
			"connection_id", conn.ID(),
			"max_age", p.config.MaxConnectionAge,
		)

		conn.disconnect()
	}

	if pc.State() == StateConnected {
		if err := pc.Noop(ctx); err != nil {
			p.metrics.RecordKeepAlivePing(false)
			p.log.DebugContext(ctx, "Keep-alive ping failed", "connection_id", pc.ID(), "error", err)

			_ = pc.Close()

			return err
		}

		p.metrics.RecordKeepAlivePing(true)

		return pc.Free()
	}

	if err := pc.EnsureConnected(ctx); err != nil {
		p.metrics.RecordKeepAliveReconnect(false)

		_ = pc.Free()

		return err
	}

	p.metrics.RecordKeepAliveReconnect(true)

	return pc.Free()
}
