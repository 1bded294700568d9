package cache

import (
	"context"
	"testing"
	"time"

	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/infrastructure/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nothing listens on port 1
var unreachable = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestFactory_FallsBackToMemory(t *testing.T) {
	f := NewFactory(unreachable, WithPingTimeout(500*time.Millisecond))

	require.NoError(t, f.Connect(context.Background()))
	assert.Nil(t, f.Client())
	assert.IsType(t, &auth.InMemoryTokenBlacklist{}, f.TokenBlacklist())
	assert.IsType(t, &scheduler.InMemoryLocker{}, f.Locker("api-1"))
	assert.NoError(t, f.Ping(context.Background()))
	assert.NoError(t, f.Close())
}

func TestFactory_RequiresRedisWithoutFallback(t *testing.T) {
	f := NewFactory(unreachable,
		WithInMemoryFallback(false),
		WithPingTimeout(500*time.Millisecond),
	)

	err := f.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
	assert.Nil(t, f.Client())
}

func TestFactory_InMemoryStoresWork(t *testing.T) {
	f := NewFactory(unreachable, WithPingTimeout(500*time.Millisecond))
	require.NoError(t, f.Connect(context.Background()))
	ctx := context.Background()

	locker := f.Locker("api-1")
	ok, err := locker.Acquire(ctx, "tenant:2025-03-01", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locker.Acquire(ctx, "tenant:2025-03-01", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	blacklist := f.TokenBlacklist()
	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Minute))
	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
