//go:generate go tool mockgen -source=./connection.go -destination=./connection_mock.go -package=smtpcli Connection
package smtpcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// quitTimeout bounds the QUIT exchange on Close so a dead peer cannot stall it.
const quitTimeout = 2 * time.Second

type Connection interface {
	io.Closer
	Authenticate(ctx context.Context, username, password string) error
	Send(ctx context.Context, msg *Message) error
	Noop(ctx context.Context) error
}

type connection struct {
	netconn   net.Conn
	client    *smtp.Client
	metrics   *Metrics
	closeOnce sync.Once
	closeErr  error
}

func newConnection(netconn net.Conn, client *smtp.Client, metrics *Metrics) Connection {
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &connection{
		netconn: netconn,
		client:  client,
		metrics: metrics,
	}
}

// Close sends QUIT and closes the socket. Calling it more than once is safe.
func (c *connection) Close() error {
	c.closeOnce.Do(func() {
		_ = c.netconn.SetDeadline(time.Now().Add(quitTimeout))

		err := c.client.Quit()
		e := c.client.Close()

		if err != nil && !IsConnectionLost(err) {
			c.closeErr = err
			return
		}

		if e != nil && !errors.Is(e, net.ErrClosed) {
			c.closeErr = e
		}
	})

	return c.closeErr
}

// Authenticate against an SMTP server using SASL PLAIN, falling back to LOGIN
// when the server does not offer PLAIN.
func (c *connection) Authenticate(ctx context.Context, username, password string) error {
	stop := watchContext(ctx, c.netconn)
	defer stop()

	var mech sasl.Client

	switch {
	case c.client.SupportsAuth(sasl.Plain):
		mech = sasl.NewPlainClient("", username, password)
	case c.client.SupportsAuth(sasl.Login):
		mech = sasl.NewLoginClient(username, password)
	default:
		c.metrics.RecordAuth(false)
		return ErrAuthUnsupported
	}

	if err := c.client.Auth(mech); err != nil {
		c.metrics.RecordAuth(false)

		if IsAuthenticationError(err) {
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}

		return withContext(ctx, err)
	}

	c.metrics.RecordAuth(true)

	return nil
}

// Send runs one MAIL/RCPT/DATA transaction. When the server rejects a
// command the transaction is reset so the connection stays usable.
func (c *connection) Send(ctx context.Context, msg *Message) error {
	if msg == nil {
		return errors.New("nil message")
	}

	from, rcpts, err := msg.Envelope()
	if err != nil {
		return err
	}

	stop := watchContext(ctx, c.netconn)
	defer stop()

	if err := c.transaction(ctx, from, rcpts, msg); err != nil {
		c.metrics.RecordCommand(false)

		if !IsConnectionLost(err) {
			// Leave the session clean for the next message.
			if rerr := c.client.Reset(); rerr != nil {
				if IsConnectionLost(rerr) {
					// The reply code no longer matters, the link is gone.
					return withContext(ctx, fmt.Errorf("RSET after %v: %w", err, rerr))
				}

				return withContext(ctx, fmt.Errorf("%w (reset also failed: %w)", err, rerr))
			}

			return err
		}

		return withContext(ctx, err)
	}

	c.metrics.RecordCommand(true)

	return nil
}

// transaction checks ctx between commands because the smtp client resets the
// socket deadline on every command, which can swallow a cancellation that
// fires between two of them.
func (c *connection) transaction(ctx context.Context, from string, rcpts []string, msg *Message) error {
	if err := c.client.Mail(from, nil); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}

	for _, rcpt := range rcpts {
		if err := interrupted(ctx); err != nil {
			return err
		}

		if err := c.client.Rcpt(rcpt, nil); err != nil {
			return fmt.Errorf("RCPT TO <%s>: %w", rcpt, err)
		}
	}

	if err := interrupted(ctx); err != nil {
		return err
	}

	w, err := c.client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}

	n, err := msg.WriteTo(w)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("writing message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("end of DATA: %w", err)
	}

	c.metrics.RecordUpload(n)

	return nil
}

// Noop sends NOOP, used to keep idle connections open.
func (c *connection) Noop(ctx context.Context) error {
	stop := watchContext(ctx, c.netconn)
	defer stop()

	if err := c.client.Noop(); err != nil {
		c.metrics.RecordCommand(false)
		return withContext(ctx, err)
	}

	c.metrics.RecordCommand(true)
	c.metrics.RecordNoop()

	return nil
}

// interrupted turns a done context into an error that IsConnectionLost
// recognises, since the server is left mid-transaction.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", err, net.ErrClosed)
	}

	return nil
}
