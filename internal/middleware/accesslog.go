package middleware

import (
	"time"

	"sales-kpi/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestID    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logger.WithAttrs(c.Request.Context(), "rid", id))
		c.Next()
	}
}

func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// rid and uid come from the request context
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "err", c.Errors.String())
		}
		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= 500:
			logger.ErrorContext(ctx, "http.request", args...)
		case c.Writer.Status() >= 400:
			logger.WarnContext(ctx, "http.request", args...)
		default:
			logger.InfoContext(ctx, "http.request", args...)
		}
	}
}
