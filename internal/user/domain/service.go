package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateUserRequest struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

type Service interface {
	Create(context.Context, CreateUserRequest) (*User, error)
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	SetEmailNotifications(ctx context.Context, id snowflake.ID, enabled bool) (*User, error)
	// EnsureVerificationToken returns the existing token or generates one.
	EnsureVerificationToken(ctx context.Context, id snowflake.ID) (string, error)
	MarkVerificationSent(ctx context.Context, id snowflake.ID) error
	VerifyEmail(ctx context.Context, token string) (*User, error)
	// Delete removes the user; subscriptions, interactions and feed entries
	// cascade at the store boundary.
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidUsername = errors.New("invalid_username")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidToken    = errors.New("invalid_token")
	ErrAlreadyVerified = errors.New("already_verified")
)
