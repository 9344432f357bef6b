package smtppool

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/jackc/puddle/v2"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

// newResourcePool builds the admission gate and fills it with capacity
// disconnected connections so the pool never dials from inside puddle.
func newResourcePool(capacity int, metrics *PoolMetrics) (*puddle.Pool[*Connection], error) {
	pool, err := puddle.NewPool(
		&puddle.Config[*Connection]{
			Constructor: func(_ context.Context) (*Connection, error) {
				return newConnection(metrics), nil
			},
			Destructor: func(value *Connection) {
				value.dispose()
			},
			MaxSize: int32(capacity),
		},
	)
	if err != nil {
		return nil, err
	}

	g := multierror.Group{}

	for range capacity {
		g.Go(func() error {
			return pool.CreateResource(context.Background())
		})
	}

	if err := g.Wait().ErrorOrNil(); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func dialSMTP(
	ctx context.Context,
	cli smtpcli.Client,
	s ServerConfig,
	metrics *smtpcli.Metrics,
) (smtpcli.Connection, error) {
	c, err := cli.Dial(
		ctx,
		s.Host,
		s.Port,
		smtpcli.DialConfig{
			Security:           s.Security,
			InsecureSkipVerify: s.InsecureSkipVerify,
			LocalName:          s.LocalName,
			Metrics:            metrics,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("error dialing to %v:%v: %w", s.Host, s.Port, err)
	}

	if s.Username != "" {
		if err := c.Authenticate(ctx, s.Username, s.Password); err != nil {
			_ = c.Close()

			return nil, fmt.Errorf("error authenticating to %v as %v: %w", s.Host, s.Username, err)
		}
	}

	return c, nil
}

// mergeContext returns a context that is done when either ctx or lifetime
// is. The cause of lifetime is kept so callers can tell a pool shutdown from
// their own cancellation.
func mergeContext(ctx, lifetime context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancelCause(ctx)

	stop := context.AfterFunc(lifetime, func() {
		cancel(context.Cause(lifetime))
	})

	return merged, func() {
		stop()
		cancel(context.Canceled)
	}
}
