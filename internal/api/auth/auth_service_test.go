package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/carelink/config"
	"github.com/carelink/carelink/internal/types"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user *types.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockRepository) GetUserForAuth(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockRepository) SetDisabled(ctx context.Context, userID uuid.UUID, disabled bool) error {
	args := m.Called(ctx, userID, disabled)
	return args.Error(0)
}

func (m *MockRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:      "test-secret-key",
		AccessTokenTTL: time.Hour,
		Issuer:         "carelink",
	}
}

func newTestService(repo Repository) *ServiceImpl {
	return NewServiceImpl(repo, testJWTConfig(), slog.New(slog.DiscardHandler))
}

func TestServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and defaults the role", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("CreateUser", ctx, mock.AnythingOfType("*types.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*types.User)
				u.ID = uuid.New()
			}).
			Return(nil).Once()

		user, err := svc.Register(ctx, RegisterRequest{
			Email:     "Jane@Example.com",
			Password:  "s3cret-pw",
			FirstName: "Jane",
			LastName:  "Doe",
		})

		assert.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, types.RoleUser, user.Role)
		assert.NotEqual(t, "s3cret-pw", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pw")))
		repo.AssertExpectations(t)
	})

	t.Run("propagates duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("CreateUser", ctx, mock.AnythingOfType("*types.User")).
			Return(types.ErrDuplicateEmail).Once()

		user, err := svc.Register(ctx, RegisterRequest{Email: "jane@example.com", Password: "pw"})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, types.ErrDuplicateEmail)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		user, err := svc.Register(ctx, RegisterRequest{
			Email:    "jane@example.com",
			Password: "pw",
			Role:     "superadmin",
		})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		repo.AssertNotCalled(t, "CreateUser")
	})
}

func TestServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-pw"), bcrypt.MinCost)
	stored := &types.User{
		ID:              uuid.New(),
		Email:           "jane@example.com",
		PasswordHash:    string(hash),
		FirstName:       "Jane",
		LastName:        "Doe",
		Role:            types.RoleAdmin,
		IsEmailVerified: true,
	}

	t.Run("issues a verifiable token with identity claims", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("GetUserByEmail", ctx, "jane@example.com").Return(stored, nil).Once()

		resp, err := svc.Login(ctx, "jane@example.com", "correct-pw")

		assert.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := VerifyToken(resp.AccessToken, testJWTConfig())
		assert.NoError(t, err)
		assert.Equal(t, stored.Email, claims.Email)
		assert.Equal(t, stored.FirstName, claims.FirstName)
		assert.Equal(t, stored.LastName, claims.LastName)
		assert.Equal(t, types.RoleAdmin, claims.Role)
		assert.False(t, claims.IsDisabled)
		assert.True(t, claims.IsEmailVerified)
		assert.Equal(t, stored.ID.String(), claims.Subject)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
		repo.AssertExpectations(t)
	})

	t.Run("normalizes the email before lookup", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("GetUserByEmail", ctx, "jane@example.com").Return(stored, nil).Once()

		_, err := svc.Login(ctx, "  Jane@Example.COM ", "correct-pw")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("returns not found for unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, types.ErrNotFound).Once()

		resp, err := svc.Login(ctx, "ghost@example.com", "whatever")

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, types.ErrNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("returns invalid credentials on password mismatch", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		repo.On("GetUserByEmail", ctx, "jane@example.com").Return(stored, nil).Once()

		resp, err := svc.Login(ctx, "jane@example.com", "wrong-pw")

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})
}
