package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const activeServicesKey = "catalog:active"

// Cache is a read-through cache for the active-services listing, the
// hottest read path in the storefront. A nil client disables caching.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetActive returns the cached active services, or ok=false on a miss.
func (c *Cache) GetActive(ctx context.Context) ([]Service, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, activeServicesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil, false
	}

	var services []Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, false
	}
	return services, true
}

// SetActive stores the active services listing
func (c *Cache) SetActive(ctx context.Context, services []Service) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(services)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, activeServicesKey, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
}

// Invalidate drops the cached listing. Called on every admin write.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, activeServicesKey).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
