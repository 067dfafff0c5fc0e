package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealhub/api/internal/domain"
	"github.com/mealhub/api/internal/pkg/id"
	"github.com/mealhub/api/internal/pkg/retry"
	"github.com/mealhub/api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (token string, err error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

type service struct {
	repo   userStore
	issuer tokenIssuer
}

func NewService(repo userStore, issuer tokenIssuer) Service {
	return &service{repo: repo, issuer: issuer}
}

// Register creates an account with a bcrypt hash of the password. The
// plaintext never leaves this function and is never logged. Duplicate
// addresses fail with domain.ErrDuplicateEmail — uniqueness is enforced
// atomically by the store, not by a lookup here.
func (s *service) Register(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := retry.Once(ctx, func() error { return s.repo.Create(ctx, u) }); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies an email/password pair. Unknown address and wrong
// password both return domain.ErrInvalidCredentials so the response cannot
// be used to probe which addresses have accounts.
func (s *service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var u *domain.User
	err := retry.Once(ctx, func() error {
		var lookupErr error
		u, lookupErr = s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
		return lookupErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and mints a session token bound to the user.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	u, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return "", err
	}
	return s.issuer.Issue(u.UserID)
}
