package domain

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a user lookup fails. Accounts are managed
// by the identity provider; this service only reads them.
var ErrUserNotFound = errors.New("user not found")

// User represents a registered account as exposed by the identity provider.
// swagger:model User
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	SpeakerName string    `json:"speaker_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TokenVerifier verifies a bearer token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// UserRepository defines read access to user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
