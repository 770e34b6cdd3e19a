package home

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

// Repository defines the contract for organization persistence.
type Repository interface {
	// CreateHome inserts a new organization. Unique violations map to
	// types.ErrDuplicateRegistration or types.ErrDuplicateEmail depending
	// on the violated constraint.
	CreateHome(ctx context.Context, home *types.Home) error

	// ListHomes returns all organizations ordered by name.
	ListHomes(ctx context.Context) ([]types.Home, error)

	// GetHomeByID retrieves one organization. Returns types.ErrNotFound
	// when it does not exist.
	GetHomeByID(ctx context.Context, homeID uuid.UUID) (*types.Home, error)

	// GetHomeByRegistration retrieves one organization by its registry id.
	GetHomeByRegistration(ctx context.Context, registrationNumber string) (*types.Home, error)

	// UpdateHome applies a partial update with the same duplicate mapping
	// as CreateHome.
	UpdateHome(ctx context.Context, homeID uuid.UUID, params types.UpdateHomeParams) error

	// DeleteHome removes an organization.
	DeleteHome(ctx context.Context, homeID uuid.UUID) error
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

const homeColumns = `id, name, registration_number, type, location,
	       contact_number, email, picture, description, created_at, updated_at`

func scanHome(row pgx.Row) (*types.Home, error) {
	var h types.Home
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.RegistrationNumber,
		&h.Type,
		&h.Location,
		&h.ContactNumber,
		&h.Email,
		&h.Picture,
		&h.Description,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// mapUniqueViolation inspects which constraint was hit so the caller can
// report registration number and email collisions separately.
func mapUniqueViolation(pgErr *pgconn.PgError) error {
	if strings.Contains(pgErr.ConstraintName, "registration") {
		return types.ErrDuplicateRegistration
	}
	return types.ErrDuplicateEmail
}

func (r *PostgresRepository) CreateHome(ctx context.Context, home *types.Home) error {
	ctx, span := otel.Tracer("HomeRepo").Start(ctx, "CreateHome", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.home.registration", home.RegistrationNumber),
	))
	defer span.End()

	query := `
		INSERT INTO homes (name, registration_number, type, location, contact_number, email, picture, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		home.Name,
		home.RegistrationNumber,
		home.Type,
		home.Location,
		home.ContactNumber,
		home.Email,
		home.Picture,
		home.Description,
	).Scan(&home.ID, &home.CreatedAt, &home.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Unique violation")
			return mapUniqueViolation(pgErr)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("creating home: %w", err)
	}

	span.SetStatus(codes.Ok, "Home created")
	return nil
}

func (r *PostgresRepository) ListHomes(ctx context.Context) ([]types.Home, error) {
	ctx, span := otel.Tracer("HomeRepo").Start(ctx, "ListHomes", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM homes ORDER BY name ASC`, homeColumns)
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("listing homes: %w", err)
	}
	defer rows.Close()

	homes := make([]types.Home, 0)
	for rows.Next() {
		h, err := scanHome(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("scanning home row: %w", err)
		}
		homes = append(homes, *h)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterating home rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Homes listed")
	return homes, nil
}

func (r *PostgresRepository) GetHomeByID(ctx context.Context, homeID uuid.UUID) (*types.Home, error) {
	ctx, span := otel.Tracer("HomeRepo").Start(ctx, "GetHomeByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.home.id", homeID.String()),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM homes WHERE id = $1`, homeColumns)
	home, err := scanHome(r.pgpool.QueryRow(ctx, query, homeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Home not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("fetching home by id: %w", err)
	}

	span.SetStatus(codes.Ok, "Home fetched")
	return home, nil
}

func (r *PostgresRepository) GetHomeByRegistration(ctx context.Context, registrationNumber string) (*types.Home, error) {
	ctx, span := otel.Tracer("HomeRepo").Start(ctx, "GetHomeByRegistration", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.home.registration", registrationNumber),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM homes WHERE registration_number = $1`, homeColumns)
	home, err := scanHome(r.pgpool.QueryRow(ctx, query, registrationNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Home not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("fetching home by registration: %w", err)
	}

	span.SetStatus(codes.Ok, "Home fetched")
	return home, nil
}

func (r *PostgresRepository) UpdateHome(ctx context.Context, homeID uuid.UUID, params types.UpdateHomeParams) error {
	ctx, span := otel.Tracer("HomeRepo").Start(ctx, "UpdateHome", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.home.id", homeID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateHome"), slog.String("homeID", homeID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
		span.SetAttributes(attribute.Bool("update."+column, true))
	}

	if params.Name != nil {
		addClause("name", *params.Name)
	}
	if params.RegistrationNumber != nil {
		addClause("registration_number", *params.RegistrationNumber)
	}
	if params.Type != nil {
		addClause("type", *params.Type)
	}
	if params.Location != nil {
		addClause("location", *params.Location)
	}
	if params.ContactNumber != nil {
		addClause("contact_number", *params.ContactNumber)
	}
	if params.Email != nil {
		addClause("email", *params.Email)
	}
	if params.Picture != nil {
		addClause("picture", *params.Picture)
	}
	if params.Description != nil {
		addClause("description", *params.Description)
	}

	if len(setClauses) == 0 {
		l.WarnContext(ctx, "UpdateHome called with no fields to update")
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	addClause("updated_at", time.Now())
	args = append(args, homeID)

	query := fmt.Sprintf("UPDATE homes SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Unique violation")
			return mapUniqueViolation(pgErr)
		}
		l.ErrorContext(ctx, "Failed to execute update query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("updating home: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Home not found")
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "Home updated")
	return nil
}

func (r *PostgresRepository) DeleteHome(ctx context.Context, homeID uuid.UUID) error {
	ctx, span := otel.Tracer("HomeRepo").Start(ctx, "DeleteHome", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.home.id", homeID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM homes WHERE id = $1`, homeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("deleting home: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Home not found")
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "Home deleted")
	return nil
}
