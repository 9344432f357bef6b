package testutil

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// ReceivedMessage is a message accepted by the mock server.
type ReceivedMessage struct {
	From string
	To   []string
	Data []byte
	// TLS reports whether the session was encrypted.
	TLS bool
}

// MockServerConfig configures a mock SMTP server.
type MockServerConfig struct {
	// Domain is announced in the greeting. Defaults to "localhost".
	Domain string
	// Username and Password enable credential checks. When Username is empty
	// any credentials are accepted.
	Username string
	Password string
	// RcptHook may reject a recipient by returning an error.
	RcptHook func(to string) error
	// DataHook may reject a message body by returning an error.
	DataHook func(msg ReceivedMessage) error
	// DataDelay is slept before accepting each message.
	DataDelay time.Duration
	// TLSConfig enables STARTTLS. See SelfSignedTLSConfig.
	TLSConfig *tls.Config
}

// MockServer is a real TCP SMTP server for tests.
type MockServer struct {
	addr     string
	server   *smtp.Server
	listener *trackingListener
	config   MockServerConfig

	mu       sync.Mutex
	messages []ReceivedMessage

	authCount int32
}

// Addr returns the server address.
func (m *MockServer) Addr() string {
	return m.addr
}

// HostPort splits Addr for callers that configure host and port separately.
func (m *MockServer) HostPort() (string, int) {
	host, p, _ := net.SplitHostPort(m.addr)
	port, _ := strconv.Atoi(p)

	return host, port
}

// ConnectionCount returns the number of connections accepted.
func (m *MockServer) ConnectionCount() int {
	return int(atomic.LoadInt32(&m.listener.accepted))
}

// AuthCount returns the number of successful authentications.
func (m *MockServer) AuthCount() int {
	return int(atomic.LoadInt32(&m.authCount))
}

// Messages returns a copy of every accepted message.
func (m *MockServer) Messages() []ReceivedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]ReceivedMessage(nil), m.messages...)
}

// DropConnections closes every open client socket without a goodbye,
// simulating a network failure. The server keeps accepting new clients.
func (m *MockServer) DropConnections() {
	m.listener.dropAll()
}

// Close shuts down the server. The listener is closed directly as well
// because Serve may not have registered it yet.
func (m *MockServer) Close() {
	_ = m.server.Close()
	_ = m.listener.Close()
}

// StartMockSMTPServer starts a mock SMTP server on a random local port.
// It returns the server instance and a cleanup function.
func StartMockSMTPServer(t *testing.T, config MockServerConfig) (*MockServer, func()) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	if config.Domain == "" {
		config.Domain = "localhost"
	}

	srv := &MockServer{
		addr:     l.Addr().String(),
		listener: &trackingListener{Listener: l, conns: make(map[net.Conn]struct{})},
		config:   config,
	}

	s := smtp.NewServer(&backend{srv: srv})
	s.Domain = config.Domain
	s.AllowInsecureAuth = true
	s.ReadTimeout = 30 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.TLSConfig = config.TLSConfig
	srv.server = s

	go func() {
		_ = s.Serve(srv.listener)
	}()

	return srv, srv.Close
}

func (m *MockServer) store(msg ReceivedMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, msg)
}

type backend struct {
	srv *MockServer
}

func (b *backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	_, isTLS := c.TLSConnectionState()

	return &session{srv: b.srv, tls: isTLS}, nil
}

type session struct {
	srv  *MockServer
	tls  bool
	from string
	to   []string
}

func (s *session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *session) Auth(_ string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		cfg := s.srv.config
		if cfg.Username != "" && (username != cfg.Username || password != cfg.Password) {
			return &smtp.SMTPError{
				Code:         535,
				EnhancedCode: smtp.EnhancedCode{5, 7, 8},
				Message:      "Authentication credentials invalid",
			}
		}

		atomic.AddInt32(&s.srv.authCount, 1)

		return nil
	}), nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if hook := s.srv.config.RcptHook; hook != nil {
		if err := hook(to); err != nil {
			return err
		}
	}

	s.to = append(s.to, to)

	return nil
}

func (s *session) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	msg := ReceivedMessage{From: s.from, To: append([]string(nil), s.to...), Data: b, TLS: s.tls}

	if d := s.srv.config.DataDelay; d > 0 {
		time.Sleep(d)
	}

	if hook := s.srv.config.DataHook; hook != nil {
		if err := hook(msg); err != nil {
			return err
		}
	}

	s.srv.store(msg)

	return nil
}

func (s *session) Reset() {
	s.from = ""
	s.to = nil
}

func (s *session) Logout() error {
	return nil
}

type trackingListener struct {
	net.Listener

	accepted int32
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
}

func (l *trackingListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	atomic.AddInt32(&l.accepted, 1)

	l.mu.Lock()
	l.conns[c] = struct{}{}
	l.mu.Unlock()

	return &trackedConn{Conn: c, l: l}, nil
}

func (l *trackingListener) dropAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for c := range l.conns {
		_ = c.Close()
		delete(l.conns, c)
	}
}

type trackedConn struct {
	net.Conn
	l *trackingListener
}

func (c *trackedConn) Close() error {
	c.l.mu.Lock()
	delete(c.l.conns, c.Conn)
	c.l.mu.Unlock()

	err := c.Conn.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}

	return err
}
