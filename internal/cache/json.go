package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSON wraps Redis helpers for JSON payloads stored under a common prefix.
type JSON struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewJSON constructs a cache helper. A zero ttl stores keys without expiry.
func NewJSON(client redis.Cmdable, prefix string, ttl time.Duration) *JSON {
	return &JSON{client: client, prefix: prefix, ttl: ttl}
}

// Key returns the full Redis key for id.
func (c *JSON) Key(id string) string {
	return c.prefix + id
}

// TTL reports the expiry applied by SetJSON.
func (c *JSON) TTL() time.Duration {
	return c.ttl
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *JSON) GetJSON(ctx context.Context, id string, dst any) (bool, error) {
	if c == nil || c.client == nil || id == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, c.Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *JSON) SetJSON(ctx context.Context, id string, v any) error {
	if c == nil || c.client == nil || id == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.Key(id), data, c.ttl).Err()
}

// Delete removes id and reports whether it existed.
func (c *JSON) Delete(ctx context.Context, id string) (bool, error) {
	if c == nil || c.client == nil || id == "" {
		return false, nil
	}
	n, err := c.client.Del(ctx, c.Key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
