package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	limiter := NewMemoryLimiter(3, time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, remaining, _ := limiter.Allow(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	// other keys have their own bucket
	ok, _, _ = limiter.Allow(ctx, "b")
	assert.True(t, ok)

	// one token refills every window/limit
	now = now.Add(20 * time.Second)
	ok, _, _ = limiter.Allow(ctx, "a")
	assert.True(t, ok)
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Minute)
	now := time.Now()
	limiter.now = func() time.Time { return now }
	_, _, _ = limiter.Allow(context.Background(), "idle")

	assert.Equal(t, 0, limiter.Sweep())
	now = now.Add(3 * time.Minute)
	assert.Equal(t, 1, limiter.Sweep())
}

func TestRateLimit_Middleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RateLimit(NewMemoryLimiter(1, time.Minute), nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "ERR_RATE_LIMITED", decodeError(t, rec).Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, int, error) {
	return true, 5, errors.New("redis down")
}
func (failingLimiter) Limit() int { return 5 }

func TestRateLimit_FailsOpen(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(failingLimiter{}, nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "ip:10.0.0.1", RateLimitKey(c))

	c.Set(JWTTenantIDKey, "t1")
	assert.Equal(t, "tenant:t1", RateLimitKey(c))
}
