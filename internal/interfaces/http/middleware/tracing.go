package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// Tracing returns OpenTelemetry tracing middleware. Spans are named
// "METHOD route_pattern" (e.g. "POST /api/v1/dues/generate").
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	var opts []otelgin.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	opts = append(opts, otelgin.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/health" && r.URL.Path != "/api/v1/health"
	}))
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// TracingAttributeInjector tags the current span with request, tenant and
// user IDs. It must run after the JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if id := GetJWTTenantID(c); id != "" {
				span.SetAttributes(attribute.String("tenant_id", id))
			}
			if id := GetJWTUserID(c); id != "" {
				span.SetAttributes(attribute.String("user_id", id))
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks 4xx responses as span errors; otelgin already flags 5xx.
// Place it after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
