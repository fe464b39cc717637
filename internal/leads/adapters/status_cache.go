// Package adapters contains edge implementations of the lead ports that
// compose infrastructure with the upstream source.
package adapters

import (
	"context"
	"encoding/json"
	"time"

	"leaddesk_backend/internal/leads/domain"
	"leaddesk_backend/internal/leads/normalize"
	"leaddesk_backend/internal/leads/ports"
	"leaddesk_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const statusCacheKey = "leaddesk:statuses"

// StatusCache is a read-through cache over the upstream status
// configuration. Statuses change rarely and are read on every list view and
// transition, so they are cached in redis with a TTL. Any cache failure
// falls straight through to the upstream; the cache never writes statuses
// back to the source.
type StatusCache struct {
	source ports.LeadSource
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewStatusCache creates the cache. client may be nil, in which case every
// read goes to the upstream.
func NewStatusCache(source ports.LeadSource, client *redis.Client, ttl time.Duration, log *logger.Logger) *StatusCache {
	return &StatusCache{source: source, client: client, ttl: ttl, log: log}
}

// Statuses returns the configured status set, from cache when warm.
func (c *StatusCache) Statuses(ctx context.Context) (domain.StatusSet, error) {
	if c.client != nil {
		if cached, err := c.client.Get(ctx, statusCacheKey).Bytes(); err == nil {
			var statuses domain.StatusSet
			if err := json.Unmarshal(cached, &statuses); err == nil {
				return statuses, nil
			}
		}
	}

	records, err := c.source.FetchStatuses(ctx)
	if err != nil {
		return nil, err
	}
	statuses := normalize.StatusBatch(records)

	if c.client != nil {
		if encoded, err := json.Marshal(statuses); err == nil {
			if err := c.client.Set(ctx, statusCacheKey, encoded, c.ttl).Err(); err != nil {
				c.log.Debug("status cache write failed", "error", err)
			}
		}
	}

	return statuses, nil
}

// Invalidate drops the cached status set, forcing the next read to hit the
// upstream.
func (c *StatusCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statusCacheKey).Err(); err != nil {
		c.log.Debug("status cache invalidation failed", "error", err)
	}
}

var _ ports.StatusProvider = (*StatusCache)(nil)
