package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/carelink/carelink/app/observability/metrics"
	"github.com/carelink/carelink/internal/api"
	"github.com/carelink/carelink/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository defines the contract for credential persistence.
type Repository interface {
	// CreateUser inserts a new account row. Returns types.ErrDuplicateEmail
	// when the email is already registered.
	CreateUser(ctx context.Context, user *types.User) error

	// GetUserByEmail retrieves the full user record including the password
	// hash, for credential verification. Returns types.ErrNotFound when no
	// account exists with that email.
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)

	// GetUserForAuth retrieves the current account state for an email
	// without the password hash. Used on every authenticated request to
	// resolve the live session.
	GetUserForAuth(ctx context.Context, email string) (*types.User, error)

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error

	// SetDisabled toggles the disabled flag on an account.
	SetDisabled(ctx context.Context, userID uuid.UUID, disabled bool) error

	// UpdatePasswordHash replaces the stored credential for an account.
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresRepository(pgpool api.PGXPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *types.User) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.email", user.Email),
	))
	defer span.End()

	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_disabled, is_deleted, is_email_verified, created_at, updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
	).Scan(
		&user.ID,
		&user.IsDisabled,
		&user.IsDeleted,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Duplicate email")
			return types.ErrDuplicateEmail
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("creating user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	return nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	var user types.User
	query := `
		SELECT id, email, password_hash, first_name, last_name, role,
		       is_disabled, is_deleted, is_email_verified, created_at, updated_at
		FROM users WHERE email = $1
	`
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsDisabled,
		&user.IsDeleted,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("fetching user by email: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}

func (r *PostgresRepository) GetUserForAuth(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserForAuth", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	// Runs on every authenticated request, so its latency is tracked.
	start := time.Now()
	defer func() {
		metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("query", "get_user_for_auth")))
	}()

	var user types.User
	query := `
		SELECT id, email, first_name, last_name, role,
		       is_disabled, is_deleted, is_email_verified, created_at, updated_at
		FROM users WHERE email = $1
	`
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsDisabled,
		&user.IsDeleted,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("fetching user for auth: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdateRole", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `UPDATE users SET role = $1, updated_at = now() WHERE id = $2 AND is_deleted = FALSE`
	tag, err := r.pgpool.Exec(ctx, query, role, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "Role updated")
	return nil
}

func (r *PostgresRepository) SetDisabled(ctx context.Context, userID uuid.UUID, disabled bool) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "SetDisabled", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", userID.String()),
		attribute.Bool("db.user.disabled", disabled),
	))
	defer span.End()

	query := `UPDATE users SET is_disabled = $1, updated_at = now() WHERE id = $2 AND is_deleted = FALSE`
	tag, err := r.pgpool.Exec(ctx, query, disabled, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("setting disabled flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "Disabled flag updated")
	return nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdatePasswordHash", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2 AND is_deleted = FALSE`
	tag, err := r.pgpool.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("updating password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "Password updated")
	return nil
}
