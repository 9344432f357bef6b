package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javi11/smtppool"
	"github.com/javi11/smtppool/internal/config"
	"github.com/javi11/smtppool/pkg/smtpcli"
)

// Backend supplies the live pool and sender settings. Both may change when
// the configuration is reloaded.
type Backend interface {
	Pool() smtppool.SMTPConnectionPool
	Sender() config.SenderConfig
}

// Handler serves the e-mail API on top of a connection pool.
type Handler struct {
	backend Backend
	log     smtppool.Logger
}

// NewHandler creates a new API handler
func NewHandler(backend Backend, log smtppool.Logger) *Handler {
	return &Handler{backend: backend, log: log}
}

// EmailRequest is the JSON body accepted by POST /emails.
type EmailRequest struct {
	From      string            `json:"from"`
	To        []string          `json:"to" binding:"required,min=1"`
	Cc        []string          `json:"cc"`
	Bcc       []string          `json:"bcc"`
	ReplyTo   string            `json:"reply_to"`
	Subject   string            `json:"subject"`
	Text      string            `json:"text"`
	HTML      string            `json:"html"`
	Headers   map[string]string `json:"headers"`
	MessageID string            `json:"message_id"`
}

func (r EmailRequest) message(defaultFrom string) *smtpcli.Message {
	from := r.From
	if from == "" {
		from = defaultFrom
	}

	return &smtpcli.Message{
		From:      from,
		To:        r.To,
		Cc:        r.Cc,
		Bcc:       r.Bcc,
		ReplyTo:   r.ReplyTo,
		Subject:   r.Subject,
		Text:      r.Text,
		HTML:      r.HTML,
		Headers:   r.Headers,
		MessageID: r.MessageID,
	}
}

// RegisterRoutes mounts the API on router.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.HandleHealth)
	router.GET("/stats", h.HandleStats)

	emails := router.Group("/emails")
	emails.POST("", h.HandleSend)
	emails.GET("/test", h.HandleSendTest)
}

// HandleSend delivers the message in the request body.
func (h *Handler) HandleSend(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errInvalidRequest, err)
		return
	}

	h.send(c, req.message(h.backend.Sender().From))
}

// HandleSendTest delivers a fixed message to the configured test recipient.
func (h *Handler) HandleSendTest(c *gin.Context) {
	sender := h.backend.Sender()

	to := sender.TestRecipient
	if q := c.Query("to"); q != "" {
		to = q
	}

	if to == "" {
		respondError(c, http.StatusBadRequest, errInvalidRequest, errors.New("no test recipient configured"))
		return
	}

	h.send(c, TestMessage(sender, to))
}

// TestMessage builds the plain text probe message sent by the test endpoint
// and the command line.
func TestMessage(sender config.SenderConfig, to string) *smtpcli.Message {
	return &smtpcli.Message{
		From:    sender.From,
		To:      []string{to},
		Subject: sender.TestSubject,
		Text:    "TEST",
	}
}

func (h *Handler) send(c *gin.Context, msg *smtpcli.Message) {
	if _, _, err := msg.Envelope(); err != nil {
		respondError(c, http.StatusBadRequest, errInvalidMessage, err)
		return
	}

	ctx := c.Request.Context()

	if err := h.backend.Pool().Send(ctx, msg); err != nil {
		status, text := statusFor(err)

		if status >= http.StatusInternalServerError {
			h.log.WarnContext(ctx, "Failed to send message", "error", err, "status", status)
		} else {
			h.log.DebugContext(ctx, "Send rejected", "error", err, "status", status)
		}

		// The full error names the server and account, so it stays in the log.
		c.JSON(status, ErrorResponse{
			Error:     text,
			Message:   errorKind(err),
			Code:      status,
			SMTPCode:  smtpcli.StatusCode(err),
			Retryable: smtppool.IsRetryable(err),
		})

		return
	}

	respondSuccess(c, http.StatusAccepted, gin.H{"recipients": recipientCount(msg)}, "message sent")
}

// errorKind returns the pool error class of err without its causes.
func errorKind(err error) string {
	var pe *smtppool.PoolError
	if errors.As(err, &pe) && pe.Kind != nil {
		return pe.Kind.Error()
	}

	return ""
}

func recipientCount(msg *smtpcli.Message) int {
	_, rcpts, _ := msg.Envelope()

	return len(rcpts)
}

// statusFor maps a pool error to the HTTP status reported to the caller.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, smtppool.ErrNilMessage):
		return http.StatusBadRequest, errInvalidMessage
	case errors.Is(err, smtppool.ErrPoolDisposed):
		return http.StatusServiceUnavailable, errUnavailable
	case errors.Is(err, smtppool.ErrAdmissionTimeout):
		return http.StatusServiceUnavailable, errTimeout
	case errors.Is(err, smtppool.ErrCanceled):
		return http.StatusRequestTimeout, errCanceled
	case errors.Is(err, smtppool.ErrProtocol):
		if code := smtpcli.StatusCode(err); code >= 500 && code < 600 {
			return http.StatusUnprocessableEntity, errUpstream
		}

		return http.StatusBadGateway, errUpstream
	case errors.Is(err, smtppool.ErrConnect), errors.Is(err, smtppool.ErrTransport):
		return http.StatusBadGateway, errUpstream
	default:
		return http.StatusInternalServerError, errInternal
	}
}

// HandleHealth reports whether the pool accepts work.
func (h *Handler) HandleHealth(c *gin.Context) {
	stats := h.backend.Pool().Stats()
	if stats.Closed {
		respondError(c, http.StatusServiceUnavailable, errUnavailable, smtppool.ErrPoolDisposed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"capacity":  stats.Capacity,
		"connected": stats.Connected,
	})
}

// HandleStats returns the pool occupancy and counters.
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.Pool().GetMetricsSnapshot())
}
