package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by JTI; ttl is the token's remaining lifetime
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// AddUserTokensToBlacklist revokes every token issued to the user up to now
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

const blacklistKeyPrefix = "clube:auth:revoked:"

// RedisTokenBlacklist keeps revocations in Redis so every API instance sees them
type RedisTokenBlacklist struct {
	client redis.UniversalClient
}

// NewRedisTokenBlacklist creates a blacklist on an existing Redis client
func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func jtiKey(jti string) string     { return blacklistKeyPrefix + "jti:" + jti }
func userKey(userID string) string { return blacklistKeyPrefix + "user:" + userID }

// AddToBlacklist revokes a token
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token was revoked
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// AddUserTokensToBlacklist stores the revocation time for the user
func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserTokenInvalidated reports whether the token was issued at or before the user's revocation
func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user token revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("invalid revocation timestamp %q: %w", raw, err)
	}
	return tokenIssuedAt.Unix() <= revokedAt, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is a single-process blacklist used when Redis is not configured
type InMemoryTokenBlacklist struct {
	mu        sync.Mutex
	revoked   map[string]time.Time
	userSince map[string]time.Time
}

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revoked:   make(map[string]time.Time),
		userSince: make(map[string]time.Time),
	}
}

// AddToBlacklist revokes a token until ttl elapses
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsBlacklisted reports whether the token is still revoked
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(b.revoked, jti)
		return false, nil
	}
	return true, nil
}

// AddUserTokensToBlacklist revokes the user's tokens issued up to now
func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userSince[userID] = time.Now()
	return nil
}

// IsUserTokenInvalidated reports whether the token predates the user's revocation
func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	since, ok := b.userSince[userID]
	if !ok {
		return false, nil
	}
	return !tokenIssuedAt.After(since), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
