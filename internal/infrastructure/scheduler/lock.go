package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker grants a key to exactly one holder until it expires or is released
type Locker interface {
	// Acquire returns false when another holder owns key
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

const lockKeyPrefix = "clube:jobs:lock:"

// RedisLocker implements Locker with SET NX so several API instances share it
type RedisLocker struct {
	client redis.UniversalClient
	owner  string
}

// NewRedisLocker creates a locker; owner identifies this process in the lock value
func NewRedisLocker(client redis.UniversalClient, owner string) *RedisLocker {
	return &RedisLocker{client: client, owner: owner}
}

// Acquire sets key if absent
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+key, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// releaseScript deletes the key only while this owner still holds it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Release drops key if this owner holds it
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKeyPrefix + key}, l.owner).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

// InMemoryLocker implements Locker for a single process and tests
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

// NewInMemoryLocker creates an empty in-process locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{locks: make(map[string]time.Time), now: time.Now}
}

// Acquire takes key unless a live entry exists
func (l *InMemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if expires, ok := l.locks[key]; ok && now.Before(expires) {
		return false, nil
	}
	l.locks[key] = now.Add(ttl)
	return true, nil
}

// Release drops key
func (l *InMemoryLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.locks, key)
	l.mu.Unlock()
	return nil
}
