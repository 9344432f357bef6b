package api

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`

	// SMTPCode is the reply code of the upstream server, when it sent one.
	SMTPCode  int  `json:"smtp_code,omitempty"`
	Retryable bool `json:"retryable,omitempty"`
}

// SuccessResponse is the body of every successful request.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondError(c *gin.Context, statusCode int, errorMsg string, detail error) {
	resp := ErrorResponse{
		Error: errorMsg,
		Code:  statusCode,
	}

	if detail != nil {
		resp.Message = detail.Error()
	}

	c.JSON(statusCode, resp)
}

func respondSuccess(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Common error messages
const (
	errInvalidRequest = "invalid request"
	errInvalidMessage = "invalid message"
	errUnavailable    = "service unavailable"
	errTimeout        = "timed out waiting for a connection"
	errCanceled       = "request canceled"
	errUpstream       = "smtp server error"
	errInternal       = "internal server error"
)
