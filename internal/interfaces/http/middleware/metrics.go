package middleware

import (
	"time"

	"github.com/clube/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys for HTTP metrics
var (
	attrHTTPMethod      = attribute.Key("http.request.method")
	attrHTTPRoute       = attribute.Key("http.route")
	attrHTTPStatusClass = attribute.Key("http.status_class")
)

// httpMetrics holds all HTTP-related metrics instruments.
type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	responseSize    *telemetry.Histogram
	activeRequests  *telemetry.UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	requestDuration, err := telemetry.NewHistogram(meter,
		"http_server_request_duration_seconds", "HTTP request latency distribution in seconds", "s")
	if err != nil {
		return nil, err
	}
	responseSize, err := telemetry.NewHistogram(meter,
		"http_server_response_size_bytes", "HTTP response body size distribution in bytes", "By")
	if err != nil {
		return nil, err
	}
	activeRequests, err := telemetry.NewUpDownCounter(meter,
		"http_server_active_requests", "Number of currently active HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		responseSize:    responseSize,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics returns a Gin middleware recording request count, latency,
// response size and in-flight requests on meter. Routes are labelled by
// pattern, not path, to keep cardinality bounded.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	metrics, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		metrics.activeRequests.Add(ctx, 1)
		c.Next()
		metrics.activeRequests.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		base := []attribute.KeyValue{
			attrHTTPMethod.String(c.Request.Method),
			attrHTTPRoute.String(route),
		}

		status := c.Writer.Status()
		requestAttrs := append([]attribute.KeyValue{attrHTTPStatusClass.String(StatusClass(status))}, base...)
		if tenantID := GetJWTTenantID(c); tenantID != "" {
			requestAttrs = append(requestAttrs, telemetry.AttrTenantID.String(tenantID))
		}
		metrics.requestTotal.Add(ctx, 1, requestAttrs...)
		metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), base...)
		if size := c.Writer.Size(); size > 0 {
			metrics.responseSize.Record(ctx, float64(size), base...)
		}
	}, nil
}

// StatusClass groups status codes into 2xx, 3xx, 4xx and 5xx
func StatusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
