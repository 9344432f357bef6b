package smtppool

import (
	"errors"
	"fmt"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

// Sentinel errors for the connection pool. Every failure returned by the pool
// is a *PoolError matching exactly one of the kind sentinels below.
var (
	// ErrAdmissionTimeout indicates the caller's deadline expired while waiting for a connection.
	ErrAdmissionTimeout = errors.New("timed out waiting for a pooled connection")

	// ErrCanceled indicates the caller canceled the operation.
	ErrCanceled = errors.New("operation canceled")

	// ErrConnect indicates the server could not be reached or rejected the credentials.
	ErrConnect = errors.New("unable to connect to smtp server")

	// ErrTransport indicates the connection was lost while sending.
	ErrTransport = errors.New("smtp connection lost")

	// ErrProtocol indicates the server rejected the message. It is never retried.
	ErrProtocol = errors.New("smtp server rejected the message")

	// ErrPoolDisposed indicates the pool is shutting down or already closed.
	ErrPoolDisposed = errors.New("connection pool is closed")

	// ErrInvariantViolation indicates an internal defect in connection ownership.
	ErrInvariantViolation = errors.New("connection pool invariant violated")

	// ErrNilMessage indicates Send was called without a message.
	ErrNilMessage = errors.New("message is nil")

	// ErrInvalidConfig indicates the pool configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// PoolError carries the failed operation, the connection involved (if any),
// the error kind and the underlying cause.
type PoolError struct {
	Op           string
	ConnectionID string
	Kind         error
	Err          error
}

func (e *PoolError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.ConnectionID != "" {
		msg = fmt.Sprintf("%s [connection %s]", msg, e.ConnectionID)
	}

	if e.Err != nil && e.Err != e.Kind {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *PoolError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func newPoolError(op, connID string, kind, cause error) *PoolError {
	return &PoolError{Op: op, ConnectionID: connID, Kind: kind, Err: cause}
}

// IsRetryable reports whether a later attempt with the same message may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrPoolDisposed),
		errors.Is(err, ErrInvariantViolation),
		errors.Is(err, ErrCanceled),
		errors.Is(err, ErrNilMessage):
		return false
	case errors.Is(err, ErrProtocol):
		// 4xx replies are transient by definition.
		code := smtpcli.StatusCode(err)
		return code >= 400 && code < 500
	case errors.Is(err, ErrConnect):
		return !IsAuthenticationError(err)
	}

	return errors.Is(err, ErrTransport) || errors.Is(err, ErrAdmissionTimeout)
}

// IsAuthenticationError reports whether err was caused by rejected credentials.
func IsAuthenticationError(err error) bool {
	return smtpcli.IsAuthenticationError(err)
}
