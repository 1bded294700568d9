package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(mw)
	router.GET("/members/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/members/1", "/members/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = m
		}
	}

	total, ok := found["http_server_request_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range total.DataPoints {
		route, _ := dp.Attributes.Value(attrHTTPRoute)
		counts[route.AsString()] += dp.Value
	}
	assert.Equal(t, int64(2), counts["/members/:id"])
	assert.Equal(t, int64(1), counts["unknown"])

	active, ok := found["http_server_active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	for _, dp := range active.DataPoints {
		assert.Zero(t, dp.Value)
	}
	assert.Contains(t, found, "http_server_request_duration_seconds")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(201))
	assert.Equal(t, "4xx", StatusClass(422))
	assert.Equal(t, "5xx", StatusClass(503))
	assert.Equal(t, "other", StatusClass(101))
}
