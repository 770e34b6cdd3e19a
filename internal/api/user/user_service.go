package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/carelink/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business contract for user administration.
type Service interface {
	ListUsers(ctx context.Context) ([]types.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)

	// UpdateUser applies a partial update, hashing a new password and
	// validating a role change before touching the database.
	UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) (*types.User, error)

	// DeleteUser soft deletes an account.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) ListUsers(ctx context.Context) ([]types.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *ServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *ServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	l := s.logger.With(slog.String("service", "UpdateUser"), slog.String("userID", userID.String()))

	if params.Role != nil && !types.IsValidRole(*params.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrInvalidInput, *params.Role)
	}

	data := UpdateUserData{
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		Role:            params.Role,
		IsDisabled:      params.IsDisabled,
		IsEmailVerified: params.IsEmailVerified,
	}
	if params.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*params.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", types.ErrInvalidInput)
		}
		data.Email = &email
	}
	if params.Password != nil {
		if *params.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", types.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		hashed := string(hash)
		data.PasswordHash = &hashed
	}

	if err := s.repo.UpdateUser(ctx, userID, data); err != nil {
		return nil, err
	}

	return s.repo.GetUserByID(ctx, userID)
}

func (s *ServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	l := s.logger.With(slog.String("service", "DeleteUser"), slog.String("userID", userID.String()))

	if err := s.repo.SoftDeleteUser(ctx, userID); err != nil {
		return err
	}
	l.InfoContext(ctx, "User soft deleted")
	return nil
}
