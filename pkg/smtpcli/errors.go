package smtpcli

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/emersion/go-smtp"
)

var (
	ErrNilSMTPConn         = errors.New("nil smtp connection")
	ErrStartTLSUnsupported = errors.New("server does not support STARTTLS")
	ErrAuthUnsupported     = errors.New("server does not support a usable AUTH mechanism")
	ErrAuthFailed          = errors.New("smtp authentication failed")
	ErrNoRecipients        = errors.New("message has no recipients")
	ErrNoSender            = errors.New("message has no sender")
)

const (
	ServiceNotAvailableErrCode = 421
	AuthRequiredErrCode        = 530
	AuthTooWeakErrCode         = 534
	AuthInvalidErrCode         = 535
	AuthTemporaryErrCode       = 454
)

// IsConnectionLost reports whether err means the link to the server can no
// longer be used, as opposed to the server rejecting a command.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}

	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return smtpErr.Code == ServiceNotAvailableErrCode
	}

	if errors.Is(err, ErrNilSMTPConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

// IsAuthenticationError reports whether the server rejected the credentials.
func IsAuthenticationError(err error) bool {
	if errors.Is(err, ErrAuthFailed) {
		return true
	}

	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		switch smtpErr.Code {
		case AuthRequiredErrCode, AuthTooWeakErrCode, AuthInvalidErrCode, AuthTemporaryErrCode:
			return true
		}
	}

	return false
}

// StatusCode returns the SMTP reply code carried by err, or 0.
func StatusCode(err error) int {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return smtpErr.Code
	}

	return 0
}
