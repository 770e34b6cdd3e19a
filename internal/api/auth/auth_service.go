package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/carelink/app/observability/metrics"
	"github.com/carelink/carelink/config"
	"github.com/carelink/carelink/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business contract for authentication.
type Service interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, req RegisterRequest) (*types.User, error)

	// Login verifies credentials and issues a signed access token.
	// Returns types.ErrNotFound when no account exists for the email and
	// types.ErrInvalidCredentials when the password does not match.
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	jwtCfg config.JWTConfig
}

func NewServiceImpl(repo Repository, jwtCfg config.JWTConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.User, error) {
	l := s.logger.With(slog.String("service", "Register"))
	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)

	role := req.Role
	if role == "" {
		role = types.RoleUser
	}
	if !types.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrInvalidInput, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &types.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, types.ErrDuplicateEmail) {
			l.WarnContext(ctx, "Registration with existing email", slog.String("email", user.Email))
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	return user, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	l := s.logger.With(slog.String("service", "Login"))
	m := metrics.Get()
	m.LoginAttemptsTotal.Add(ctx, 1)

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			m.LoginFailuresTotal.Add(ctx, 1)
			l.WarnContext(ctx, "Login for unknown email")
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		m.LoginFailuresTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Password mismatch", slog.String("userID", user.ID.String()))
		return nil, types.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to sign access token", slog.Any("error", err))
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.String()))
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtCfg.AccessTokenTTL.Seconds()),
	}, nil
}

// IssueToken signs an HS256 access token embedding a snapshot of the user's
// identity. The role and status claims are informational only; every request
// re-reads the live record before trusting them.
func (s *ServiceImpl) IssueToken(user *types.User) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            user.Role,
		IsDisabled:      user.IsDisabled,
		IsEmailVerified: user.IsEmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}
