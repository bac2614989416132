package user

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("user: not found")
	// ErrEmailTaken is returned when an account with the same e-mail already exists.
	ErrEmailTaken = errors.New("user: email already registered")
)

// User is a registered account. E-mail comparison is case-insensitive.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser carries the fields of an account being created. PasswordHash must already be hashed.
type NewUser struct {
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
}

// Store is the account repository.
type Store interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	Add(ctx context.Context, u NewUser) (User, error)
}
