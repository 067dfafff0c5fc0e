package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/mealhub/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) Issue(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- Register tests ---

func TestRegister_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	var created *domain.User
	us.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	svc := NewService(us, nil)
	u, err := svc.Register(context.Background(), domain.SignupRequest{
		Email:    "A@X.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.Equal(t, "a@x.com", u.Email, "email must be stored normalized")
	require.NotNil(t, created)
	assert.NotEqual(t, "password123", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))
	us.AssertExpectations(t)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := NewService(&mockUserStore{}, nil)
	_, err := svc.Register(context.Background(), domain.SignupRequest{
		Email:    "not-an-email",
		Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewService(&mockUserStore{}, nil)
	_, err := svc.Register(context.Background(), domain.SignupRequest{
		Email:    "a@x.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	svc := NewService(us, nil)
	_, err := svc.Register(context.Background(), domain.SignupRequest{
		Email:    "a@x.com",
		Password: "password123",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail))
}

func TestRegister_RetriesOnceOnStoreUnavailable(t *testing.T) {
	us := &mockUserStore{}
	us.On("Create", mock.Anything, mock.Anything).Return(domain.ErrStoreUnavailable).Once()
	us.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewService(us, nil)
	_, err := svc.Register(context.Background(), domain.SignupRequest{
		Email:    "a@x.com",
		Password: "password123",
	})

	require.NoError(t, err)
	us.AssertExpectations(t)
}

// --- Authenticate tests ---

func TestAuthenticate_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		UserID:       "u1",
		Email:        "a@x.com",
		PasswordHash: hashOf(t, "p1"),
	}, nil)

	svc := NewService(us, nil)
	u, err := svc.Authenticate(context.Background(), "A@X.com", "p1")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := NewService(us, nil)
	_, err := svc.Authenticate(context.Background(), "a@x.com", "p1")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		UserID:       "u1",
		Email:        "a@x.com",
		PasswordHash: hashOf(t, "p1"),
	}, nil)

	svc := NewService(us, nil)
	_, err := svc.Authenticate(context.Background(), "a@x.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "known@x.com").Return(&domain.User{
		UserID:       "u1",
		PasswordHash: hashOf(t, "p1"),
	}, nil)
	us.On("GetByEmail", mock.Anything, "unknown@x.com").Return(nil, domain.ErrNotFound)

	svc := NewService(us, nil)
	_, errKnown := svc.Authenticate(context.Background(), "known@x.com", "wrong")
	_, errUnknown := svc.Authenticate(context.Background(), "unknown@x.com", "wrong")

	// Identical message either way, so the endpoint can't enumerate accounts.
	require.Error(t, errKnown)
	require.Error(t, errUnknown)
	assert.Equal(t, errKnown.Error(), errUnknown.Error())
}

func TestAuthenticate_StoreUnavailablePropagates(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrStoreUnavailable)

	svc := NewService(us, nil)
	_, err := svc.Authenticate(context.Background(), "a@x.com", "p1")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	us.AssertNumberOfCalls(t, "GetByEmail", 2) // one retry, then give up
}

// --- Login tests ---

func TestLogin_ReturnsIssuedToken(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		UserID:       "u1",
		PasswordHash: hashOf(t, "p1"),
	}, nil)
	issuer := &mockIssuer{}
	issuer.On("Issue", "u1").Return("signed-token", nil)

	svc := NewService(us, issuer)
	token, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", Password: "p1"})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	issuer.AssertExpectations(t)
}

func TestLogin_BadCredentialsNoToken(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := NewService(us, &mockIssuer{})
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", Password: "p1"})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
