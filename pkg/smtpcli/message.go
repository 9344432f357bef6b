package smtpcli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Message is an outgoing mail. Addresses use the RFC 5322 form, either
// "user@example.com" or "Name <user@example.com>".
type Message struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	ReplyTo string
	Subject string

	// Text and HTML are the body alternatives. When both are set the message
	// is sent as multipart/alternative.
	Text    string
	HTML    string
	Headers map[string]string

	// Date defaults to the time the message is written.
	Date time.Time

	// MessageID defaults to a random id in the sender's domain.
	MessageID string
}

// Envelope returns the SMTP reverse-path and forward-paths of the message.
// Bcc recipients are part of the envelope but never of the header.
func (m *Message) Envelope() (string, []string, error) {
	if strings.TrimSpace(m.From) == "" {
		return "", nil, ErrNoSender
	}

	from, err := mail.ParseAddress(m.From)
	if err != nil {
		return "", nil, fmt.Errorf("invalid sender %q: %w", m.From, err)
	}

	seen := make(map[string]struct{})
	rcpts := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))

	for _, list := range [][]string{m.To, m.Cc, m.Bcc} {
		addrs, err := parseAddresses(list)
		if err != nil {
			return "", nil, err
		}

		for _, a := range addrs {
			key := strings.ToLower(a.Address)
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			rcpts = append(rcpts, a.Address)
		}
	}

	if len(rcpts) == 0 {
		return "", nil, ErrNoRecipients
	}

	return from.Address, rcpts, nil
}

// WriteTo writes the RFC 5322 representation of the message.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	h, err := m.header()
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}

	text := norm.NFC.String(m.Text)
	html := norm.NFC.String(m.HTML)

	if html == "" || text == "" {
		ct, body := "text/plain", text
		if html != "" {
			ct, body = "text/html", html
		}

		h.SetContentType(ct, map[string]string{"charset": "utf-8"})

		bw, err := mail.CreateSingleInlineWriter(cw, h)
		if err != nil {
			return cw.n, err
		}

		if _, err := io.WriteString(bw, body); err != nil {
			return cw.n, err
		}

		return cw.n, bw.Close()
	}

	mw, err := mail.CreateWriter(cw, h)
	if err != nil {
		return cw.n, err
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return cw.n, err
	}

	for _, part := range []struct{ ct, body string }{
		{"text/plain", text},
		{"text/html", html},
	} {
		var ph mail.InlineHeader
		ph.SetContentType(part.ct, map[string]string{"charset": "utf-8"})

		pw, err := iw.CreatePart(ph)
		if err != nil {
			return cw.n, err
		}

		if _, err := io.WriteString(pw, part.body); err != nil {
			return cw.n, err
		}

		if err := pw.Close(); err != nil {
			return cw.n, err
		}
	}

	if err := iw.Close(); err != nil {
		return cw.n, err
	}

	return cw.n, mw.Close()
}

func (m *Message) header() (mail.Header, error) {
	var h mail.Header

	from, err := mail.ParseAddress(m.From)
	if err != nil {
		return h, fmt.Errorf("invalid sender %q: %w", m.From, err)
	}

	h.SetAddressList("From", []*mail.Address{from})

	for _, f := range []struct {
		key  string
		list []string
	}{
		{"To", m.To},
		{"Cc", m.Cc},
	} {
		if len(f.list) == 0 {
			continue
		}

		addrs, err := parseAddresses(f.list)
		if err != nil {
			return h, err
		}

		h.SetAddressList(f.key, addrs)
	}

	if m.ReplyTo != "" {
		rt, err := mail.ParseAddress(m.ReplyTo)
		if err != nil {
			return h, fmt.Errorf("invalid reply-to %q: %w", m.ReplyTo, err)
		}

		h.SetAddressList("Reply-To", []*mail.Address{rt})
	}

	h.SetSubject(norm.NFC.String(m.Subject))

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	h.SetDate(date)

	id := m.MessageID
	if id == "" {
		id = uuid.NewString() + "@" + domainOf(from.Address)
	}

	h.SetMessageID(strings.Trim(id, "<>"))

	for k, v := range m.Headers {
		if isReservedHeader(k) {
			continue
		}

		h.Set(k, v)
	}

	return h, nil
}

var errEmptyAddress = errors.New("empty address")

func parseAddresses(list []string) ([]*mail.Address, error) {
	addrs := make([]*mail.Address, 0, len(list))

	for _, s := range list {
		if strings.TrimSpace(s) == "" {
			return nil, errEmptyAddress
		}

		a, err := mail.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", s, err)
		}

		addrs = append(addrs, a)
	}

	return addrs, nil
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}

	return "localhost"
}

func isReservedHeader(k string) bool {
	switch strings.ToLower(k) {
	case "from", "to", "cc", "bcc", "reply-to", "subject", "date", "message-id",
		"content-type", "content-transfer-encoding", "mime-version":
		return true
	}

	return false
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
