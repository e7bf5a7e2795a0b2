package cachedresults

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultTTL = 30 * time.Second

// Cache holds serialised results keyed by request path. Reads and writes are not
// coordinated, so concurrent misses for one key all go upstream.
type Cache struct {
	Cache *cache.Cache[string]
	TTL   time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &Cache{
		Cache: cache.New[string](redisStore),
		TTL:   ttl,
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}

	value, err := c.Cache.Get(ctx, key)
	if err != nil {
		return "", false
	}

	return value, true
}

func (c *Cache) Set(ctx context.Context, key string, value string) {
	if c == nil {
		return
	}

	if err := c.Cache.Set(ctx, key, value, store.WithExpiration(c.TTL)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to store cached result")
	}
}
