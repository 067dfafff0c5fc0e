package profile

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mealhub/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) UpdateEmail(ctx context.Context, userID, oldEmail, newEmail string) error {
	return m.Called(ctx, userID, oldEmail, newEmail).Error(0)
}

type mockAvatarStore struct{ mock.Mock }

func (m *mockAvatarStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	return m.Called(ctx, key, r, contentType).Error(0)
}
func (m *mockAvatarStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

// --- Get tests ---

func TestGet_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@x.com"}, nil)

	svc := NewService(us, nil)
	u, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestGet_RecordGone(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	svc := NewService(us, nil)
	_, err := svc.Get(context.Background(), "u1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- Update tests ---

func TestUpdate_BirthYearTooLarge(t *testing.T) {
	svc := NewService(&mockUserStore{}, nil)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		BirthYear: ptr(3000),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdate_BirthYearTooSmall(t *testing.T) {
	svc := NewService(&mockUserStore{}, nil)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		BirthYear: ptr(1800),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdate_UnrecognizedSex(t *testing.T) {
	svc := NewService(&mockUserStore{}, nil)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		Sex: ptr("unknown"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdate_PartialFieldsOnly(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "u1", map[string]interface{}{
		"birth_year": 1990,
	}).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", BirthYear: 1990}, nil)

	svc := NewService(us, nil)
	u, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		BirthYear: ptr(1990),
	})

	require.NoError(t, err)
	assert.Equal(t, 1990, u.BirthYear)
	us.AssertExpectations(t)
}

func TestUpdate_EmptyRequest_NoWrite(t *testing.T) {
	us := &mockUserStore{}
	existing := &domain.User{UserID: "u1", Name: "Alice"}
	us.On("Get", mock.Anything, "u1").Return(existing, nil)

	svc := NewService(us, nil)
	u, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{})

	require.NoError(t, err)
	assert.Equal(t, existing, u)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_EmailChange_GoesThroughGuardSwap(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "old@x.com"}, nil)
	us.On("UpdateEmail", mock.Anything, "u1", "old@x.com", "new@x.com").Return(nil)

	svc := NewService(us, nil)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		Email: ptr("New@X.com"),
	})

	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestUpdate_EmailChange_DuplicateRejected(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "old@x.com"}, nil)
	us.On("UpdateEmail", mock.Anything, "u1", "old@x.com", "taken@x.com").Return(domain.ErrDuplicateEmail)

	svc := NewService(us, nil)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		Email: ptr("taken@x.com"),
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUpdate_EmailUnchanged_NoGuardSwap(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "same@x.com"}, nil)

	svc := NewService(us, nil)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		Email: ptr("Same@X.com"),
	})

	require.NoError(t, err)
	us.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Avatar tests ---

func TestUploadAvatar_StoresUnderUserKey(t *testing.T) {
	us := &mockUserStore{}
	as := &mockAvatarStore{}
	as.On("Upload", mock.Anything, "avatars/u1", mock.Anything, "image/png").Return(nil)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{
		"avatar_key": "avatars/u1",
	}).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", AvatarKey: "avatars/u1"}, nil)

	svc := NewService(us, as)
	u, err := svc.UploadAvatar(context.Background(), "u1", strings.NewReader("png-bytes"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "avatars/u1", u.AvatarKey)
	as.AssertExpectations(t)
	us.AssertExpectations(t)
}

func TestAvatarURL_EmptyWithoutUpload(t *testing.T) {
	svc := NewService(&mockUserStore{}, &mockAvatarStore{})
	url, err := svc.AvatarURL(context.Background(), &domain.User{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestAvatarURL_PresignsStoredKey(t *testing.T) {
	as := &mockAvatarStore{}
	as.On("PresignedURL", mock.Anything, "avatars/u1", mock.Anything).Return("https://bucket/avatars/u1?sig", nil)

	svc := NewService(&mockUserStore{}, as)
	url, err := svc.AvatarURL(context.Background(), &domain.User{UserID: "u1", AvatarKey: "avatars/u1"})

	require.NoError(t, err)
	assert.Equal(t, "https://bucket/avatars/u1?sig", url)
}
