package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"inventrack/internal/domain/auth"
)

const tokenBlacklistPrefix = "token:blacklist:"

// RedisTokenBlacklist implements auth.TokenRevoker on Redis keys that expire
// together with the token.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist creates a Redis token blacklist.
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// Revoke implements auth.TokenRevoker.
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, tokenBlacklistPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsRevoked implements auth.TokenRevoker.
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, tokenBlacklistPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}

var _ auth.TokenRevoker = (*RedisTokenBlacklist)(nil)

// MemoryTokenBlacklist is a single-process auth.TokenRevoker.
type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryTokenBlacklist creates an in-memory token blacklist.
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke implements auth.TokenRevoker.
func (b *MemoryTokenBlacklist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[tokenID] = b.now().Add(ttl)
	return nil
}

// IsRevoked implements auth.TokenRevoker.
func (b *MemoryTokenBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expires, ok := b.entries[tokenID]
	if !ok {
		return false, nil
	}
	if b.now().After(expires) {
		delete(b.entries, tokenID)
		return false, nil
	}
	return true, nil
}

var _ auth.TokenRevoker = (*MemoryTokenBlacklist)(nil)
