package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"inventrack/internal/domain/payment"
)

const deliveryPrefix = "payment:delivery:"

// RedisDeliveryGuard implements payment.DeliveryGuard with SETNX.
type RedisDeliveryGuard struct {
	client *redis.Client
}

// NewRedisDeliveryGuard creates a Redis delivery guard.
func NewRedisDeliveryGuard(client *redis.Client) *RedisDeliveryGuard {
	return &RedisDeliveryGuard{client: client}
}

// Claim implements payment.DeliveryGuard.
func (g *RedisDeliveryGuard) Claim(ctx context.Context, transID string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, deliveryPrefix+transID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim delivery: %w", err)
	}
	return ok, nil
}

// Release implements payment.DeliveryGuard.
func (g *RedisDeliveryGuard) Release(ctx context.Context, transID string) error {
	if err := g.client.Del(ctx, deliveryPrefix+transID).Err(); err != nil {
		return fmt.Errorf("release delivery: %w", err)
	}
	return nil
}

var _ payment.DeliveryGuard = (*RedisDeliveryGuard)(nil)

// MemoryDeliveryGuard is a single-process payment.DeliveryGuard.
type MemoryDeliveryGuard struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

// NewMemoryDeliveryGuard creates an in-memory delivery guard.
func NewMemoryDeliveryGuard() *MemoryDeliveryGuard {
	return &MemoryDeliveryGuard{claims: make(map[string]time.Time), now: time.Now}
}

// Claim implements payment.DeliveryGuard.
func (g *MemoryDeliveryGuard) Claim(_ context.Context, transID string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if expires, ok := g.claims[transID]; ok && g.now().Before(expires) {
		return false, nil
	}
	g.claims[transID] = g.now().Add(ttl)
	return true, nil
}

// Release implements payment.DeliveryGuard.
func (g *MemoryDeliveryGuard) Release(_ context.Context, transID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claims, transID)
	return nil
}

var _ payment.DeliveryGuard = (*MemoryDeliveryGuard)(nil)
