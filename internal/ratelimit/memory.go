package ratelimit

import (
	"context"
	"sync"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// MemoryLimiter is a fixed-window limiter for deployments without Redis. One
// ulule limiter with its own store is kept per distinct (window, max) pair.
type MemoryLimiter struct {
	Prefix string

	mu       sync.Mutex
	limiters map[limiter.Rate]*limiter.Limiter
}

// Allow implements Allower.
func (m *MemoryLimiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	lim := m.limiterFor(limiter.Rate{Period: window, Limit: int64(max)})
	res, err := lim.Get(ctx, m.Prefix+key)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}

func (m *MemoryLimiter) limiterFor(rate limiter.Rate) *limiter.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.limiters == nil {
		m.limiters = make(map[limiter.Rate]*limiter.Limiter)
	}
	lim, ok := m.limiters[rate]
	if !ok {
		lim = limiter.New(memory.NewStore(), rate)
		m.limiters[rate] = lim
	}
	return lim
}
