package http

import (
	"context"
	"io"
	"time"

	"github.com/mealhub/api/internal/domain"
)

// UserRepository is the minimal interface the router requires from the
// user-record store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	UpdateEmail(ctx context.Context, userID, oldEmail, newEmail string) error
}

// AvatarStore is the minimal interface the router requires from the object store.
type AvatarStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// TokenProvider issues and verifies session tokens.
type TokenProvider interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	AvatarStore AvatarStore
	JWTProvider TokenProvider
}
