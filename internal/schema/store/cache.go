package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"crossclass/internal/schema/models"
	id "crossclass/pkg/domain"
)

// Store is the persistence contract the cache decorates. InMemory and
// Postgres both satisfy it.
type Store interface {
	Create(ctx context.Context, schema *models.ClassificationSchema) error
	Latest(ctx context.Context, code id.NationCode) (*models.ClassificationSchema, error)
	LatestMany(ctx context.Context, codes []id.NationCode) (map[id.NationCode]*models.ClassificationSchema, error)
	ByNationAndVersion(ctx context.Context, code id.NationCode, version string) (*models.ClassificationSchema, error)
	ListByNation(ctx context.Context, code id.NationCode) ([]*models.ClassificationSchema, error)
}

const latestKeyPrefix = "schema:latest:"

// Cached decorates a Store with a Redis cache for latest-schema lookups,
// the hot path of every conversion. Historical version reads and lists pass
// through.
//
// Expired schemas are cached like any other row: expiry is evaluated by the
// consumer against the request clock, so caching does not change validity
// semantics as long as the TTL is short relative to schema lifetimes.
type Cached struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCached(inner Store, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, client: client, ttl: ttl}
}

// Create writes through and drops the nation's cached latest row so the new
// version becomes visible immediately.
func (c *Cached) Create(ctx context.Context, schema *models.ClassificationSchema) error {
	if err := c.inner.Create(ctx, schema); err != nil {
		return err
	}
	// Best effort: a failed invalidation only extends staleness to the TTL.
	c.client.Del(ctx, latestKeyPrefix+string(schema.NationCode))
	return nil
}

func (c *Cached) Latest(ctx context.Context, code id.NationCode) (*models.ClassificationSchema, error) {
	key := latestKeyPrefix + string(code)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var schema models.ClassificationSchema
		if unmarshalErr := json.Unmarshal(cached, &schema); unmarshalErr == nil {
			return &schema, nil
		}
		// Corrupt entry: fall through to the source of truth.
	} else if !errors.Is(err, redis.Nil) {
		// Redis outage degrades to uncached reads rather than failing lookups.
		return c.inner.Latest(ctx, code)
	}

	schema, err := c.inner.Latest(ctx, code)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(schema); marshalErr == nil {
		c.client.Set(ctx, key, payload, c.ttl)
	}
	return schema, nil
}

func (c *Cached) LatestMany(ctx context.Context, codes []id.NationCode) (map[id.NationCode]*models.ClassificationSchema, error) {
	result := make(map[id.NationCode]*models.ClassificationSchema, len(codes))
	for _, code := range codes {
		schema, err := c.Latest(ctx, code)
		if err != nil {
			// Missing codes stay absent from the map, per the Store contract.
			continue
		}
		result[code] = schema
	}
	return result, nil
}

func (c *Cached) ByNationAndVersion(ctx context.Context, code id.NationCode, version string) (*models.ClassificationSchema, error) {
	return c.inner.ByNationAndVersion(ctx, code, version)
}

func (c *Cached) ListByNation(ctx context.Context, code id.NationCode) ([]*models.ClassificationSchema, error) {
	return c.inner.ListByNation(ctx, code)
}
