// Package cache connects to Redis and hands out the stores that are shared
// across API instances: the token blacklist and the job lock.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/infrastructure/scheduler"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory creates Redis-backed stores, or in-memory ones when Redis is
// unreachable and the fallback is allowed
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
	client                redis.UniversalClient
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithPingTimeout bounds the connection check in Connect
func WithPingTimeout(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.pingTimeout = d
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens the Redis client and checks it. With the fallback allowed an
// unreachable Redis is logged and the factory serves in-memory stores.
func (f *Factory) Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return fmt.Errorf("redis required but unavailable at %s: %w", f.redisConfig.Addr(), err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Logouts and job locks will not be shared between instances.",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err),
		)
		return nil
	}

	f.client = client
	f.logger.Info("Redis connected", zap.String("addr", f.redisConfig.Addr()))
	return nil
}

// Client returns the Redis client, or nil when running on in-memory stores
func (f *Factory) Client() redis.UniversalClient {
	return f.client
}

// TokenBlacklist returns the revocation store used by logout and the JWT middleware
func (f *Factory) TokenBlacklist() auth.TokenBlacklist {
	if f.client == nil {
		return auth.NewInMemoryTokenBlacklist()
	}
	return auth.NewRedisTokenBlacklist(f.client)
}

// Locker returns the lock guarding the daily jobs; owner names this process
func (f *Factory) Locker(owner string) scheduler.Locker {
	if f.client == nil {
		return scheduler.NewInMemoryLocker()
	}
	return scheduler.NewRedisLocker(f.client, owner)
}

// Ping reports whether Redis answers; it is nil when no client is in use
func (f *Factory) Ping(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	return f.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
