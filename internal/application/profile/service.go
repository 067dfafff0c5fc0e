package profile

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mealhub/api/internal/domain"
	"github.com/mealhub/api/internal/pkg/retry"
	"github.com/mealhub/api/internal/pkg/validate"
)

// minBirthYear matches the lower bound the signup form has always offered.
const minBirthYear = 1900

const avatarURLTTL = 15 * time.Minute

// Attribute names used in partial update maps.
const (
	fieldName      = "name"
	fieldSex       = "sex"
	fieldBirthYear = "birth_year"
	fieldAvatarKey = "avatar_key"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	UploadAvatar(ctx context.Context, userID string, r io.Reader, contentType string) (*domain.User, error)
	AvatarURL(ctx context.Context, u *domain.User) (string, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	UpdateEmail(ctx context.Context, userID, oldEmail, newEmail string) error
}

type avatarStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	repo    userStore
	avatars avatarStore
}

func NewService(repo userStore, avatars avatarStore) Service {
	return &service{repo: repo, avatars: avatars}
}

// Get returns the record the authenticated identity resolves to. The id
// always comes from the verified token, never from the request, so a user
// can only ever read their own profile.
func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	var u *domain.User
	err := retry.Once(ctx, func() error {
		var getErr error
		u, getErr = s.repo.Get(ctx, userID)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies a partial profile update: nil fields keep their stored
// values. An email change goes through the store's transactional guard
// swap, so uniqueness holds on update exactly as it does at signup.
func (s *service) Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Sex != nil {
		updates[fieldSex] = *req.Sex
	}
	if req.BirthYear != nil {
		if *req.BirthYear < minBirthYear || *req.BirthYear > time.Now().Year() {
			return nil, fmt.Errorf("birthYear must be between %d and %d: %w", minBirthYear, time.Now().Year(), domain.ErrValidation)
		}
		updates[fieldBirthYear] = *req.BirthYear
	}

	if req.Email != nil {
		newEmail := domain.NormalizeEmail(*req.Email)
		u, err := s.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if newEmail != u.Email {
			if err := retry.Once(ctx, func() error {
				return s.repo.UpdateEmail(ctx, userID, u.Email, newEmail)
			}); err != nil {
				return nil, err
			}
		}
	}

	if len(updates) > 0 {
		if err := retry.Once(ctx, func() error {
			return s.repo.Update(ctx, userID, updates)
		}); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, userID)
}

// UploadAvatar stores the image under a per-user key and records the key
// on the user. Re-uploading overwrites the previous image.
func (s *service) UploadAvatar(ctx context.Context, userID string, r io.Reader, contentType string) (*domain.User, error) {
	key := fmt.Sprintf("avatars/%s", userID)
	if err := s.avatars.Upload(ctx, key, r, contentType); err != nil {
		return nil, err
	}
	if err := retry.Once(ctx, func() error {
		return s.repo.Update(ctx, userID, map[string]interface{}{fieldAvatarKey: key})
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// AvatarURL returns a short-lived presigned link to the user's avatar, or
// an empty string when none was uploaded.
func (s *service) AvatarURL(ctx context.Context, u *domain.User) (string, error) {
	if u.AvatarKey == "" {
		return "", nil
	}
	return s.avatars.PresignedURL(ctx, u.AvatarKey, avatarURLTTL)
}
