package testutil

import (
	"strings"
	"sync/atomic"

	"github.com/emersion/go-smtp"
)

// RejectRecipientsHandler rejects every recipient whose address starts with
// prefix with a permanent 550 reply.
func RejectRecipientsHandler(prefix string) func(to string) error {
	return func(to string) error {
		if strings.HasPrefix(to, prefix) {
			return &smtp.SMTPError{Code: 550, EnhancedCode: smtp.EnhancedCode{5, 1, 1}, Message: "no such user"}
		}

		return nil
	}
}

// TempFailDataHandler answers the first n messages with a transient 451
// reply and accepts the rest.
func TempFailDataHandler(n int32) func(msg ReceivedMessage) error {
	var seen atomic.Int32

	return func(ReceivedMessage) error {
		if seen.Add(1) <= n {
			return &smtp.SMTPError{Code: 451, EnhancedCode: smtp.EnhancedCode{4, 3, 0}, Message: "try again later"}
		}

		return nil
	}
}

// RejectDataHandler answers every message with a permanent 554 reply.
func RejectDataHandler() func(msg ReceivedMessage) error {
	return func(ReceivedMessage) error {
		return &smtp.SMTPError{Code: 554, EnhancedCode: smtp.EnhancedCode{5, 7, 1}, Message: "message refused"}
	}
}
