package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinMiddleware attaches a request logger to the request context and writes one
// access log line per request. Run it after the request ID middleware.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := WithContext(c.Request.Context(), base.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		))
		if id := c.GetString("request_id"); id != "" {
			ctx = WithRequestID(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		// handlers may have enriched the context with tenant and user
		l := L(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("http request", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("http request", fields...)
		default:
			l.Info("http request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it with the stack
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				base.Error("panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   gin.H{"code": "INTERNAL_ERROR", "message": "An internal error occurred"},
				})
			}
		}()
		c.Next()
	}
}
