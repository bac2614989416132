package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/skills-enroll/internal/common"
)

// MemoryStore keeps accounts in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
	emailOf map[string]string
	now     func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byEmail: make(map[string]User),
		emailOf: make(map[string]string),
		now:     time.Now,
	}
}

// FindByEmail implements Store.
func (m *MemoryStore) FindByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byEmail[common.NormalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// FindByID implements Store.
func (m *MemoryStore) FindByID(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email, ok := m.emailOf[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return m.byEmail[email], nil
}

// Add implements Store.
func (m *MemoryStore) Add(_ context.Context, nu NewUser) (User, error) {
	key := common.NormalizeEmail(nu.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[key]; exists {
		return User{}, ErrEmailTaken
	}
	u := User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(nu.FullName),
		Email:        strings.TrimSpace(nu.Email),
		Phone:        strings.TrimSpace(nu.Phone),
		PasswordHash: nu.PasswordHash,
		CreatedAt:    m.now().UTC(),
	}
	m.byEmail[key] = u
	m.emailOf[u.ID] = key
	return u, nil
}
