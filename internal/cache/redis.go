// Package cache provides a best-effort Redis cache for projected order
// details. Cache failures degrade to read-model lookups, never to errors.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/luuthuong/go-ecommerce-order/internal/projection"
)

const keyPrefix = "order:"

// Redis caches projected orders with a TTL. The projector invalidates an
// entry whenever it rewrites the underlying row.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates an order cache on the given client.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached order, or reports a miss on any failure.
func (c *Redis) Get(ctx context.Context, id uuid.UUID) (*projection.Order, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache get failed", "order_id", id, "error", err)
		}
		return nil, false
	}
	var o projection.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt", "order_id", id, "error", err)
		return nil, false
	}
	return &o, true
}

// Set stores the order, logging instead of failing on cache errors.
func (c *Redis) Set(ctx context.Context, o *projection.Order) {
	raw, err := json.Marshal(o)
	if err != nil {
		c.logger.WarnContext(ctx, "cache marshal failed", "order_id", o.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+o.ID.String(), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "order_id", o.ID, "error", err)
	}
}

// Invalidate drops the cached entry for an order.
func (c *Redis) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, keyPrefix+id.String()).Err()
}
