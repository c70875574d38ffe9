package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jirasak-dev/stockledger/pkg/config"
)

// DefaultListKey is the sentinel key for the unfiltered product listing.
// Nothing else is cached: per-owner and per-id reads are authorization
// sensitive and always hit the store.
const DefaultListKey = "products:all"

// Store is the minimal key/value surface the cache needs. *redis.Client
// from pkg/redis satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type envelope struct {
	Deadline time.Time       `json:"deadline"`
	Payload  json.RawMessage `json:"payload"`
}

// ListCache is a read-through cache for a single listing query. Entries
// live for the sliding TTL from last access but never past the absolute
// deadline stamped at insertion. All store errors degrade to a miss; the
// cache is an optimization, not a source of truth.
type ListCache struct {
	store    Store
	key      string
	sliding  time.Duration
	absolute time.Duration
	now      func() time.Time
}

// NewListCache builds a cache bound to one key with the configured policy.
func NewListCache(store Store, key string, cfg config.CacheConfig) *ListCache {
	sliding := cfg.ListSlidingTTL
	if sliding <= 0 {
		sliding = time.Minute
	}
	absolute := cfg.ListAbsoluteTTL
	if absolute <= 0 {
		absolute = 5 * time.Minute
	}
	if key == "" {
		key = DefaultListKey
	}
	return &ListCache{
		store:    store,
		key:      key,
		sliding:  sliding,
		absolute: absolute,
		now:      time.Now,
	}
}

// Get returns the cached payload, refreshing the sliding window on a hit.
// ok is false on a miss, on a payload past its absolute deadline, and on
// any store failure.
func (c *ListCache) Get(ctx context.Context) ([]byte, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		_ = c.store.Del(ctx, c.key)
		return nil, false
	}

	remaining := env.Deadline.Sub(c.now())
	if remaining <= 0 {
		_ = c.store.Del(ctx, c.key)
		return nil, false
	}

	ttl := c.sliding
	if remaining < ttl {
		ttl = remaining
	}
	_ = c.store.Expire(ctx, c.key, ttl)

	return env.Payload, true
}

// Set stores the payload with the sliding TTL and stamps the absolute
// deadline.
func (c *ListCache) Set(ctx context.Context, payload []byte) error {
	if c == nil || c.store == nil {
		return nil
	}

	env := envelope{
		Deadline: c.now().Add(c.absolute),
		Payload:  payload,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key, string(raw), c.sliding)
}
