package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/javi11/smtppool"
	"github.com/javi11/smtppool/internal/config"
	"github.com/javi11/smtppool/pkg/smtpcli"
)

var _ smtppool.SMTPConnectionPool = (*service)(nil)

type state struct {
	cfg  *config.Config
	pool smtppool.SMTPConnectionPool
}

// retirePoll is how often a replaced pool is checked for in-flight sends.
const retirePoll = 100 * time.Millisecond

// service is the pool the process serves from. A configuration reload that
// touches the server or pool settings swaps in a new pool; the old one is
// quit once its in-flight sends return.
type service struct {
	configPath string
	log        *slog.Logger
	current    atomic.Pointer[state]

	// mu orders pool swaps against Quit.
	mu     sync.Mutex
	closed bool
}

func newService(configPath string, cfg *config.Config, pool smtppool.SMTPConnectionPool, log *slog.Logger) *service {
	s := &service{configPath: configPath, log: log}
	s.current.Store(&state{cfg: cfg, pool: pool})

	return s
}

func (s *service) Pool() smtppool.SMTPConnectionPool { return s }

func (s *service) Sender() config.SenderConfig { return s.current.Load().cfg.Sender }

func (s *service) Send(ctx context.Context, msg *smtpcli.Message) error {
	return s.current.Load().pool.Send(ctx, msg)
}

func (s *service) GetConnection(ctx context.Context) (smtppool.PooledConnection, error) {
	return s.current.Load().pool.GetConnection(ctx)
}

func (s *service) Warmup(ctx context.Context) error {
	return s.current.Load().pool.Warmup(ctx)
}

func (s *service) Stats() smtppool.PoolStats {
	return s.current.Load().pool.Stats()
}

func (s *service) GetMetrics() *smtppool.PoolMetrics {
	return s.current.Load().pool.GetMetrics()
}

func (s *service) GetMetricsSnapshot() smtppool.PoolMetricsSnapshot {
	return s.current.Load().pool.GetMetricsSnapshot()
}

func (s *service) Quit() {
	s.mu.Lock()
	s.closed = true
	pool := s.current.Load().pool
	s.mu.Unlock()

	pool.Quit()
}

// watchReload reloads the configuration on SIGHUP until ctx is done.
func (s *service) watchReload(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			s.reload(ctx)
		}
	}
}

func (s *service) reload(ctx context.Context) {
	newCfg, err := config.LoadAndValidate(s.configPath)
	if err != nil {
		s.log.ErrorContext(ctx, "Configuration reload failed, keeping current settings", "error", err)
		return
	}

	old := s.current.Load()

	changes := config.Diff(old.cfg, newCfg)
	if len(changes) == 0 {
		s.log.InfoContext(ctx, "Configuration reloaded, nothing changed")
		return
	}

	for _, c := range changes {
		s.log.InfoContext(ctx, "Configuration changed", "field", c.Field, "old", c.Old, "new", c.New)
	}

	if !config.RequiresPoolRestart(changes) {
		s.current.Store(&state{cfg: newCfg, pool: old.pool})
		return
	}

	pool, err := newPool(ctx, newCfg, s.log)
	if err != nil {
		s.log.ErrorContext(ctx, "Unable to build pool from reloaded configuration", "error", err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		pool.Quit()

		return
	}

	s.current.Store(&state{cfg: newCfg, pool: pool})
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Connection pool replaced", "server", newCfg.SMTP.Host, "capacity", newCfg.Pool.Capacity)

	go s.retire(old.pool, old.cfg.Pool.SendTimeout)
}

// retire quits a replaced pool once nothing is checked out of it, or after
// grace has passed.
func (s *service) retire(pool smtppool.SMTPConnectionPool, grace time.Duration) {
	ticker := time.NewTicker(retirePoll)
	defer ticker.Stop()

	deadline := time.Now().Add(grace)

	for pool.Stats().Acquired > 0 && time.Now().Before(deadline) {
		<-ticker.C
	}

	pool.Quit()

	s.log.Debug("Replaced connection pool closed")
}
