// Package cache keeps restaurant menus in Redis in front of the catalog tables.
// Checkout reads a restaurant on every order, while menus change rarely.
// Every hit is checked against a stamp of the live rows, so a restaurant that
// closes or reprices is seen by the next checkout rather than after the TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "fooddelivery:restaurant"

var _ ports.RestaurantCatalog = (*CatalogCache)(nil)

// StampedCatalog is a RestaurantCatalog that can fingerprint a restaurant
// more cheaply than loading it. The stamp must change whenever Get's result does.
type StampedCatalog interface {
	ports.RestaurantCatalog
	Stamp(ctx context.Context, id kernel.UUID) (string, error)
}

// CatalogCache is a read-through cache over another RestaurantCatalog.
// Redis failures are logged and the request falls through to next, so the
// cache can never make checkout unavailable.
type CatalogCache struct {
	client *redis.Client
	next   StampedCatalog
	ttl    time.Duration
	logger *slog.Logger
}

func NewCatalogCache(client *redis.Client, next StampedCatalog, ttl time.Duration, logger *slog.Logger) *CatalogCache {
	return &CatalogCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.With("component", "catalog-cache"),
	}
}

func (c *CatalogCache) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	key := GenerateKey(id)

	entry, err := c.load(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
		return c.next.Get(ctx, id)
	}

	stamp, err := c.next.Stamp(ctx, id)
	if err != nil {
		return nil, err
	}

	if entry != nil && entry.Stamp == stamp {
		cached, err := entry.toDomain()
		if err == nil {
			return cached, nil
		}
		c.logger.WarnContext(ctx, "catalog cache entry unreadable", "key", key, "error", err)
	}

	r, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, key, r, stamp); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
	return r, nil
}

// Invalidate drops the cached copy of a restaurant.
func (c *CatalogCache) Invalidate(ctx context.Context, id kernel.UUID) error {
	return c.client.Del(ctx, GenerateKey(id)).Err()
}

// GenerateKey returns the Redis key holding a restaurant.
func GenerateKey(id kernel.UUID) string {
	return fmt.Sprintf("%s:%s", keyPrefix, id)
}

func (c *CatalogCache) load(ctx context.Context, key string) (*restaurantEntry, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil //nolint:nilnil // a miss is not an error
	}
	if err != nil {
		return nil, err
	}

	var entry restaurantEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.WarnContext(ctx, "catalog cache entry unreadable", "key", key, "error", err)
		return nil, nil //nolint:nilnil // treated as a miss
	}
	return &entry, nil
}

func (c *CatalogCache) store(ctx context.Context, key string, r *restaurant.Restaurant, stamp string) error {
	entry := fromDomain(r)
	entry.Stamp = stamp
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
