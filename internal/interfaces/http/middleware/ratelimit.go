package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// MemoryLimiter is a per-key token bucket for single-instance deployments
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows limit requests per window for each key, with a burst of limit
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Limit returns the configured request budget per window
func (l *MemoryLimiter) Limit() int { return l.limit }

// Allow consumes one token for key
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		every := rate.Every(l.window / time.Duration(max(l.limit, 1)))
		b = &bucket{limiter: rate.NewLimiter(every, l.limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	remaining := int(b.limiter.TokensAt(now))
	return allowed, max(remaining, 0), nil
}

// Sweep drops keys idle for more than two windows
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-2 * l.window)
	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every two windows until ctx is done
func (l *MemoryLimiter) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(2 * l.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}

const rateLimitKeyPrefix = "clube:ratelimit:"

// RedisLimiter is a fixed-window counter shared by every API instance
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a limiter storing counters in Redis
func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Limit returns the configured request budget per window
func (l *RedisLimiter) Limit() int { return l.limit }

// Allow increments the counter of the current window for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := rateLimitKeyPrefix + key + ":" + strconv.FormatInt(slot, 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return true, l.limit, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := int(incr.Val())
	return count <= l.limit, max(l.limit-count, 0), nil
}

// RateLimitKey identifies the caller: the tenant once authenticated, otherwise the client IP
func RateLimitKey(c *gin.Context) string {
	if tenantID := GetJWTTenantID(c); tenantID != "" {
		return "tenant:" + tenantID
	}
	return "ip:" + c.ClientIP()
}

// RateLimit returns a rate limiting middleware. Store failures let the request through.
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(limiter, RateLimitKey, log)
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter Limiter, keyFunc func(*gin.Context) string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := keyFunc(c)
		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
