package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javi11/smtppool"
)

// RequestLogger logs every request through the pool logger.
func RequestLogger(log smtppool.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.DebugContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// NewRouter builds the gin engine serving the API.
func NewRouter(h *Handler, log smtppool.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	h.RegisterRoutes(router)

	return router
}
