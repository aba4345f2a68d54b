package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luuthuong/go-ecommerce-order/internal/projection"
)

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(client, 5*time.Minute, logger), mr
}

func cachedOrder() *projection.Order {
	return &projection.Order{
		ID:           uuid.New(),
		CustomerName: "alice",
		OrderDate:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Status:       "Processing",
		TotalAmount:  decimal.RequireFromString("50"),
		Version:      0,
		Items: []projection.OrderItem{{
			ProductID:   uuid.New(),
			ProductName: "widget",
			UnitPrice:   decimal.RequireFromString("25"),
			Quantity:    2,
			TotalPrice:  decimal.RequireFromString("50"),
		}},
	}
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	o := cachedOrder()

	c.Set(ctx, o)

	got, ok := c.Get(ctx, o.ID)
	require.True(t, ok)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.CustomerName, got.CustomerName)
	assert.True(t, got.TotalAmount.Equal(o.TotalAmount))
	assert.Len(t, got.Items, 1)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)
	_, ok := c.Get(context.Background(), uuid.New())
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	o := cachedOrder()

	c.Set(ctx, o)
	require.NoError(t, c.Invalidate(ctx, o.ID))

	_, ok := c.Get(ctx, o.ID)
	assert.False(t, ok)
}

func TestCacheEntryExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	o := cachedOrder()

	c.Set(ctx, o)
	mr.FastForward(6 * time.Minute)

	_, ok := c.Get(ctx, o.ID)
	assert.False(t, ok)
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	o := cachedOrder()
	require.NoError(t, mr.Set("order:"+o.ID.String(), "{not json"))

	_, ok := c.Get(context.Background(), o.ID)
	assert.False(t, ok)
}

func TestCacheDegradesWhenRedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	o := cachedOrder()
	mr.Close()

	// Set logs and returns; Get reports a miss.
	c.Set(ctx, o)
	_, ok := c.Get(ctx, o.ID)
	assert.False(t, ok)
}
