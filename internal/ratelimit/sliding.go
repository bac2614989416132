package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// slidingScript trims events older than the window and records a new one only
// while the window has room. Rejected attempts are not stored, so a client that
// keeps retrying is let back in once its oldest accepted attempt ages out.
//
// KEYS[1] set key; ARGV: now ms, cutoff ms, limit, member, window ms.
// Returns {allowed, count, oldest score or false}.
var slidingScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
local count = redis.call('ZCARD', KEYS[1])
local allowed = 0
if count < tonumber(ARGV[3]) then
  redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
  count = count + 1
  allowed = 1
end
redis.call('PEXPIRE', KEYS[1], ARGV[5])
local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
return {allowed, count, oldest[2] or false}
`)

// Limiter is a sliding window limiter over Redis sorted sets. Each key holds
// one member per accepted event scored by its time in milliseconds.
type Limiter struct {
	Client redis.Scripter
	Prefix string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Allow implements Allower. reset is when the oldest event in the window
// expires and a slot frees up.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, limit int) (bool, int, time.Time, error) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	at := now()
	if l.Client == nil || limit <= 0 || window <= 0 {
		return true, limit, at.Add(window), nil
	}

	nowMs := at.UnixMilli()
	res, err := slidingScript.Run(ctx, l.Client, []string{l.Prefix + key},
		nowMs,
		nowMs-window.Milliseconds(),
		limit,
		uuid.NewString(),
		window.Milliseconds(),
	).Slice()
	if err != nil {
		return false, 0, at.Add(window), fmt.Errorf("sliding window %s: %w", key, err)
	}
	if len(res) != 3 {
		return false, 0, at.Add(window), fmt.Errorf("sliding window %s: unexpected reply %v", key, res)
	}

	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)
	reset := at.Add(window)
	if raw, ok := res[2].(string); ok {
		if oldest, err := strconv.ParseFloat(raw, 64); err == nil {
			reset = time.UnixMilli(int64(oldest)).Add(window)
		}
	}
	return allowed == 1, max(0, limit-int(count)), reset, nil
}
