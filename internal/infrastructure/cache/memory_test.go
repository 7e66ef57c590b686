package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	b := NewMemoryTokenBlacklist()
	b.now = clock.now

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", 10*time.Minute))
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	clock.advance(11 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries lapse with the token")
}

func TestMemoryDeliveryGuard(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	g := NewMemoryDeliveryGuard()
	g.now = clock.now

	ok, err := g.Claim(ctx, "TX1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, "TX1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, "TX1"))
	ok, err = g.Claim(ctx, "TX1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	clock.advance(2 * time.Hour)
	ok, err = g.Claim(ctx, "TX1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "expired claims can be taken again")
}

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := NewMemoryIdempotencyStore(time.Hour)
	s.now = clock.now

	replay, err := s.AcquireKey(ctx, "k1", "7", "POST /api/v1/sales", "hash-a")
	require.NoError(t, err)
	assert.Nil(t, replay)

	_, err = s.AcquireKey(ctx, "k1", "7", "POST /api/v1/sales", "hash-a")
	assert.True(t, apperror.IsCode(err, apperror.CodeIdempotency), "in flight")

	_, err = s.AcquireKey(ctx, "k1", "7", "POST /api/v1/sales", "hash-b")
	assert.True(t, apperror.IsCode(err, apperror.CodeIdempotency), "different body")

	require.NoError(t, s.CompleteKey(ctx, "k1", 201, "", map[string]int{"id": 3}))

	replay, err = s.AcquireKey(ctx, "k1", "7", "POST /api/v1/sales", "hash-a")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 201, replay.StatusCode)
	assert.Equal(t, "application/json", replay.ContentType)
	assert.JSONEq(t, `{"id":3}`, string(replay.Body))

	clock.advance(2 * time.Hour)
	replay, err = s.AcquireKey(ctx, "k1", "7", "POST /api/v1/sales", "hash-b")
	require.NoError(t, err)
	assert.Nil(t, replay, "expired keys are reusable")
}

func TestMemoryIdempotencyStore_StalePendingIsReclaimed(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := NewMemoryIdempotencyStore(time.Hour)
	s.now = clock.now

	_, err := s.AcquireKey(ctx, "k2", "1", "POST /api/v1/purchases", "h")
	require.NoError(t, err)

	clock.advance(stalePending + time.Second)
	replay, err := s.AcquireKey(ctx, "k2", "1", "POST /api/v1/purchases", "h")
	require.NoError(t, err)
	assert.Nil(t, replay)

	require.NoError(t, s.FailKey(ctx, "k2", 422, "application/json", map[string]string{"code": "INSUFFICIENT_STOCK"}))
	replay, err = s.AcquireKey(ctx, "k2", "1", "POST /api/v1/purchases", "h")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 422, replay.StatusCode)
}
