//go:generate go tool mockgen -source=./smtp.go -destination=./smtp_mock.go -package=smtpcli Client
package smtpcli

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
)

// SecurityMode selects how the transport is protected.
type SecurityMode int

const (
	// SecurityStartTLS upgrades a plain connection with STARTTLS and fails if
	// the server does not advertise it.
	SecurityStartTLS SecurityMode = iota
	// SecurityStartTLSWhenAvailable upgrades only when the server advertises STARTTLS.
	SecurityStartTLSWhenAvailable
	// SecurityImplicitTLS negotiates TLS before the SMTP greeting (port 465).
	SecurityImplicitTLS
	// SecurityNone never uses TLS.
	SecurityNone
)

func (s SecurityMode) String() string {
	switch s {
	case SecurityStartTLS:
		return "starttls"
	case SecurityStartTLSWhenAvailable:
		return "starttls-when-available"
	case SecurityImplicitTLS:
		return "tls"
	case SecurityNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseSecurityMode converts the textual form used in configuration files.
func ParseSecurityMode(s string) (SecurityMode, error) {
	switch s {
	case "", "starttls":
		return SecurityStartTLS, nil
	case "starttls-when-available", "auto":
		return SecurityStartTLSWhenAvailable, nil
	case "tls", "ssl", "implicit-tls":
		return SecurityImplicitTLS, nil
	case "none", "plain":
		return SecurityNone, nil
	default:
		return 0, fmt.Errorf("unknown security mode %q", s)
	}
}

type DialConfig struct {
	Security SecurityMode
	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool
	// DialTimeout bounds the TCP dial. The context deadline still applies.
	DialTimeout time.Duration
	// LocalName is sent in EHLO. Defaults to the client config value.
	LocalName string
	// Metrics receives the protocol counters of the connection. A fresh
	// instance is used when nil.
	Metrics *Metrics
}

type Client interface {
	Dial(
		ctx context.Context,
		host string,
		port int,
		config DialConfig,
	) (Connection, error)
}

type client struct {
	keepAliveTime  time.Duration
	commandTimeout time.Duration
	localName      string
}

// New creates a new SMTP client
//
// If no config is provided, the default config will be used
func New(
	c ...Config,
) Client {
	config := mergeWithDefault(c...)

	return &client{
		keepAliveTime:  config.KeepAliveTime,
		commandTimeout: config.CommandTimeout,
		localName:      config.LocalName,
	}
}

// Dial connects to an SMTP server, reads the greeting, says EHLO and
// negotiates the requested security mode. The returned connection is not
// authenticated yet.
//
// Parameters:
//   - ctx: Context bounding the whole handshake
//   - host: The hostname or IP address of the SMTP server
//   - port: The port number of the SMTP server
//   - config: Security and dial options
//
// Returns:
//   - Connection: An SMTP connection interface if successful
//   - error: Any error encountered during connection
func (c *client) Dial(
	ctx context.Context,
	host string,
	port int,
	config DialConfig,
) (Connection, error) {
	tlsConfig := &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // opt-in via configuration
		MinVersion:         tls.VersionTLS12,
	}

	localName := config.LocalName
	if localName == "" {
		localName = c.localName
	}

	security := config.Security

	if security == SecurityStartTLSWhenAvailable {
		// STARTTLS can only be issued right after the greeting, so a server
		// that offers it is dialed a second time.
		offered, conn, err := c.probeStartTLS(ctx, host, port, config, localName)
		if err != nil {
			return nil, err
		}

		if !offered {
			return conn, nil
		}

		_ = conn.Close()
		security = SecurityStartTLS
	}

	conn, err := c.dialTCP(ctx, host, port, config.DialTimeout)
	if err != nil {
		return nil, err
	}

	// The handshake has no context support of its own.
	stop := watchContext(ctx, conn)
	defer stop()

	var sc *smtp.Client

	switch security {
	case SecurityImplicitTLS:
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, withContext(ctx, err)
		}

		sc = smtp.NewClient(tlsConn)
	case SecurityStartTLS:
		// The first EHLO goes out as "localhost", the one below repeats it
		// over TLS with the configured name.
		sc, err = smtp.NewClientStartTLS(conn, tlsConfig)
		if err != nil {
			_ = conn.Close()

			if isStartTLSMissing(err) {
				return nil, ErrStartTLSUnsupported
			}

			return nil, withContext(ctx, err)
		}
	default:
		sc = smtp.NewClient(conn)
	}

	sc.CommandTimeout = c.commandTimeout

	if err := sc.Hello(localName); err != nil {
		_ = sc.Close()
		return nil, withContext(ctx, err)
	}

	return newConnection(conn, sc, config.Metrics), nil
}

// probeStartTLS opens a plain session and reports whether the server offers
// STARTTLS. When it does not, the plain session is returned for use.
func (c *client) probeStartTLS(
	ctx context.Context,
	host string,
	port int,
	config DialConfig,
	localName string,
) (bool, Connection, error) {
	conn, err := c.dialTCP(ctx, host, port, config.DialTimeout)
	if err != nil {
		return false, nil, err
	}

	stop := watchContext(ctx, conn)
	defer stop()

	sc := smtp.NewClient(conn)
	sc.CommandTimeout = c.commandTimeout

	if err := sc.Hello(localName); err != nil {
		_ = sc.Close()
		return false, nil, withContext(ctx, err)
	}

	offered, _ := sc.Extension("STARTTLS")

	return offered, newConnection(conn, sc, config.Metrics), nil
}

func (c *client) dialTCP(ctx context.Context, host string, port int, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{
		Timeout:   timeout,
		KeepAlive: c.keepAliveTime,
	}

	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	return conn, nil
}

// isStartTLSMissing matches the error go-smtp returns when the server does
// not advertise STARTTLS. It is not exported as a value.
func isStartTLSMissing(err error) bool {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return false
	}

	return strings.Contains(err.Error(), "doesn't support STARTTLS")
}

// watchContext moves the deadline of conn to now when ctx is done, which
// unblocks any pending read or write. The returned func detaches the watcher
// and clears the deadline again.
func watchContext(ctx context.Context, conn net.Conn) func() {
	deadline, _ := ctx.Deadline()
	_ = conn.SetDeadline(deadline)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})

	return func() {
		if stop() {
			_ = conn.SetDeadline(time.Time{})
		}
	}
}

// withContext attaches the context error, if any, to an I/O error caused by
// the deadline watcher so callers can tell cancellation from a dead peer.
func withContext(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}

	return err
}
