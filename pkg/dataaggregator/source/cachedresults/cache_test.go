package cachedresults

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, ttl), server
}

func TestCacheRoundTrip(t *testing.T) {
	cache, server := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "/json/departures.json?s=A"); ok {
		t.Fatal("empty cache returned a value")
	}

	cache.Set(ctx, "/json/departures.json?s=A", `{"departures":[]}`)

	value, ok := cache.Get(ctx, "/json/departures.json?s=A")
	if !ok || value != `{"departures":[]}` {
		t.Errorf("Get = %q, %v", value, ok)
	}

	server.FastForward(31 * time.Second)

	if _, ok := cache.Get(ctx, "/json/departures.json?s=A"); ok {
		t.Error("value should have expired")
	}
}

func TestCacheDefaultTTL(t *testing.T) {
	cache, _ := newTestCache(t, 0)

	if cache.TTL != DefaultTTL {
		t.Errorf("TTL = %s, expected %s", cache.TTL, DefaultTTL)
	}
}

func TestNilCache(t *testing.T) {
	var cache *Cache

	cache.Set(context.Background(), "key", "value")

	if _, ok := cache.Get(context.Background(), "key"); ok {
		t.Error("nil cache returned a value")
	}
}
