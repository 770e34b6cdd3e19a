package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/carelink/carelink/internal/api"
	"github.com/carelink/carelink/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// UpdateUserData carries already-prepared column values for a partial
// update. The service layer hashes passwords before building it.
type UpdateUserData struct {
	Email           *string
	FirstName       *string
	LastName        *string
	PasswordHash    *string
	Role            *string
	IsDisabled      *bool
	IsEmailVerified *bool
}

// Repository defines the contract for user administration persistence.
type Repository interface {
	// ListUsers returns all non-deleted users, newest first.
	ListUsers(ctx context.Context) ([]types.User, error)

	// GetUserByID retrieves a user by ID. Returns types.ErrNotFound for
	// missing or soft-deleted users.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)

	// UpdateUser applies a partial update. Returns types.ErrNotFound when
	// the user does not exist and types.ErrDuplicateEmail when an email
	// change collides with another account.
	UpdateUser(ctx context.Context, userID uuid.UUID, data UpdateUserData) error

	// SoftDeleteUser marks a user as deleted without removing the row.
	SoftDeleteUser(ctx context.Context, userID uuid.UUID) error
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

const userColumns = `id, email, first_name, last_name, role,
	       is_disabled, is_deleted, is_email_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsDisabled,
		&u.IsDeleted,
		&u.IsEmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "ListUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE is_deleted = FALSE ORDER BY created_at DESC`, userColumns)
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Users listed")
	return users, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND is_deleted = FALSE`, userColumns)
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("fetching user by id: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, userID uuid.UUID, data UpdateUserData) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateUser"), slog.String("userID", userID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
		span.SetAttributes(attribute.Bool("update."+column, true))
	}

	if data.Email != nil {
		addClause("email", *data.Email)
	}
	if data.FirstName != nil {
		addClause("first_name", *data.FirstName)
	}
	if data.LastName != nil {
		addClause("last_name", *data.LastName)
	}
	if data.PasswordHash != nil {
		addClause("password_hash", *data.PasswordHash)
	}
	if data.Role != nil {
		addClause("role", *data.Role)
	}
	if data.IsDisabled != nil {
		addClause("is_disabled", *data.IsDisabled)
	}
	if data.IsEmailVerified != nil {
		addClause("is_email_verified", *data.IsEmailVerified)
	}

	if len(setClauses) == 0 {
		l.WarnContext(ctx, "UpdateUser called with no fields to update")
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	addClause("updated_at", time.Now())
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d AND is_deleted = FALSE",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Duplicate email")
			return types.ErrDuplicateEmail
		}
		l.ErrorContext(ctx, "Failed to execute update query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return types.ErrNotFound
	}

	l.InfoContext(ctx, "User updated")
	span.SetStatus(codes.Ok, "User updated")
	return nil
}

func (r *PostgresRepository) SoftDeleteUser(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "SoftDeleteUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `UPDATE users SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`
	tag, err := r.pgpool.Exec(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("soft deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "User soft deleted")
	return nil
}
