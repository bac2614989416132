package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/skills-enroll/internal/common"
)

const (
	defaultUsersKey = "users:by-email"
	defaultIDsKey   = "users:by-id"
)

// RedisStore keeps accounts in a Redis hash keyed by normalised e-mail. HSETNX
// makes the uniqueness check and the insert a single atomic step.
type RedisStore struct {
	R        redis.Cmdable
	UsersKey string
	IDsKey   string
	now      func() time.Time
}

// NewRedisStore constructs a RedisStore using the default keys.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{R: client, UsersKey: defaultUsersKey, IDsKey: defaultIDsKey, now: time.Now}
}

type record struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FindByEmail implements Store.
func (s *RedisStore) FindByEmail(ctx context.Context, email string) (User, error) {
	raw, err := s.R.HGet(ctx, s.UsersKey, common.NormalizeEmail(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return User(rec), nil
}

// FindByID implements Store.
func (s *RedisStore) FindByID(ctx context.Context, id string) (User, error) {
	email, err := s.R.HGet(ctx, s.IDsKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("find user id: %w", err)
	}
	return s.FindByEmail(ctx, email)
}

// Add implements Store.
func (s *RedisStore) Add(ctx context.Context, nu NewUser) (User, error) {
	key := common.NormalizeEmail(nu.Email)
	rec := record{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(nu.FullName),
		Email:        strings.TrimSpace(nu.Email),
		Phone:        strings.TrimSpace(nu.Phone),
		PasswordHash: nu.PasswordHash,
		CreatedAt:    s.now().UTC(),
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return User{}, fmt.Errorf("encode user: %w", err)
	}
	created, err := s.R.HSetNX(ctx, s.UsersKey, key, payload).Result()
	if err != nil {
		return User{}, fmt.Errorf("add user: %w", err)
	}
	if !created {
		return User{}, ErrEmailTaken
	}
	if err := s.R.HSet(ctx, s.IDsKey, rec.ID, key).Err(); err != nil {
		return User{}, fmt.Errorf("index user: %w", err)
	}
	return User(rec), nil
}
