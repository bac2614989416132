package enrollment

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/skills-enroll/internal/cache"
)

// Session holds one visitor's in-progress selection.
type Session struct {
	ID        string    `json:"id"`
	Selection Selection `json:"selection"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore persists sessions. Get returns ErrSessionNotFound for unknown or expired ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Expired sessions are dropped on access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore that checks expiry against the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock constructs an empty MemoryStore that checks expiry against now.
// It must share the clock used to stamp ExpiresAt. A nil now means time.Now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{sessions: make(map[string]Session), now: now}
}

// Get implements SessionStore.
func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !s.ExpiresAt.IsZero() && !m.now().Before(s.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Save implements SessionStore.
func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Delete implements SessionStore.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// RedisStore keeps sessions as JSON documents that expire with the session.
type RedisStore struct {
	cache *cache.JSON
}

// NewRedisStore constructs a RedisStore writing keys under "enrollment:session:".
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cache.NewJSON(client, "enrollment:session:", ttl)}
}

// Get implements SessionStore.
func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	var s Session
	found, err := r.cache.GetJSON(ctx, id, &s)
	if err != nil {
		return Session{}, err
	}
	if !found {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Save implements SessionStore. Every save refreshes the key's expiry.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	return r.cache.SetJSON(ctx, s.ID, s)
}

// Delete implements SessionStore.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := r.cache.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}
