package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/TourHive/booking-flow-backend/types"
	"github.com/redis/go-redis/v9"
)

// SchemaSource yields the field schema for a package.
type SchemaSource interface {
	QueryBookingField(ctx context.Context, prodNo, pkgNo, itemNo string) (*types.FieldSchema, error)
}

// SchemaCache fronts the catalog's QueryBookingField with a Redis TTL
// cache. Field schemas are stable for the lifetime of a session, so every
// session opened against the same package can share one upstream fetch.
// Redis trouble degrades to a direct fetch; it never fails a lookup.
type SchemaCache struct {
	source SchemaSource
	rdb    *redis.Client
	ttl    time.Duration
}

// NewSchemaCache creates a cache over the given source. rdb may be nil, in
// which case every lookup goes upstream.
func NewSchemaCache(source SchemaSource, rdb *redis.Client, ttl time.Duration) *SchemaCache {
	return &SchemaCache{source: source, rdb: rdb, ttl: ttl}
}

func schemaCacheKey(prodNo, pkgNo, itemNo string) string {
	return fmt.Sprintf("bookingfield:%s:%s:%s", prodNo, pkgNo, itemNo)
}

// Get returns the field schema for a package, from cache when possible.
func (c *SchemaCache) Get(ctx context.Context, prodNo, pkgNo, itemNo string) (*types.FieldSchema, error) {
	log := logger.GetLogger()
	key := schemaCacheKey(prodNo, pkgNo, itemNo)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			var schema types.FieldSchema
			if err := json.Unmarshal([]byte(cached), &schema); err == nil {
				schemaCacheLookupsTotal.WithLabelValues("hit").Inc()
				log.Debugw("Field schema cache hit", "key", key)
				return &schema, nil
			}
			// A corrupt cache entry falls through to a fresh fetch.
			log.Warnw("Dropping corrupt field schema cache entry", "key", key, "error", err)
			c.rdb.Del(ctx, key)
		case err != redis.Nil:
			log.Warnw("Field schema cache read failed, fetching upstream", "key", key, "error", err)
		}
	}

	schemaCacheLookupsTotal.WithLabelValues("miss").Inc()
	schema, err := c.source.QueryBookingField(ctx, prodNo, pkgNo, itemNo)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if encoded, err := json.Marshal(schema); err == nil {
			if err := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
				log.Warnw("Field schema cache write failed", "key", key, "error", err)
			}
		}
	}
	return schema, nil
}
