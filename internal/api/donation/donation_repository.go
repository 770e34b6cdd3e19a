package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/carelink/carelink/internal/api"
	"github.com/carelink/carelink/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository defines the contract for donation persistence.
type Repository interface {
	// CreateDonation inserts a new pledge record.
	CreateDonation(ctx context.Context, donation *types.Donation) error

	// ListDonations returns pledges newest first.
	ListDonations(ctx context.Context) ([]types.Donation, error)

	// ListDonationsByRegistration returns pledges for one organization,
	// newest first.
	ListDonationsByRegistration(ctx context.Context, registrationNumber string) ([]types.Donation, error)

	// GetDonationByID retrieves one pledge. Returns types.ErrNotFound
	// when it does not exist.
	GetDonationByID(ctx context.Context, donationID uuid.UUID) (*types.Donation, error)
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

const donationColumns = `id, name, email, amount, goods_amount, message,
	       registration_number, organization_name, current_needs, received_items,
	       created_at, updated_at`

func scanDonation(row pgx.Row) (*types.Donation, error) {
	var d types.Donation
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.Amount,
		&d.GoodsAmount,
		&d.Message,
		&d.RegistrationNumber,
		&d.OrganizationName,
		&d.CurrentNeeds,
		&d.ReceivedItems,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresRepository) CreateDonation(ctx context.Context, donation *types.Donation) error {
	ctx, span := otel.Tracer("DonationRepo").Start(ctx, "CreateDonation", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.donation.registration", donation.RegistrationNumber),
	))
	defer span.End()

	query := `
		INSERT INTO donations (name, email, amount, goods_amount, message,
		                       registration_number, organization_name, current_needs, received_items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		donation.Name,
		donation.Email,
		donation.Amount,
		donation.GoodsAmount,
		donation.Message,
		donation.RegistrationNumber,
		donation.OrganizationName,
		donation.CurrentNeeds,
		donation.ReceivedItems,
	).Scan(&donation.ID, &donation.CreatedAt, &donation.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("creating donation: %w", err)
	}

	span.SetStatus(codes.Ok, "Donation created")
	return nil
}

func (r *PostgresRepository) ListDonations(ctx context.Context) ([]types.Donation, error) {
	ctx, span := otel.Tracer("DonationRepo").Start(ctx, "ListDonations", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM donations ORDER BY created_at DESC`, donationColumns)
	return r.queryDonations(ctx, span, query)
}

func (r *PostgresRepository) ListDonationsByRegistration(ctx context.Context, registrationNumber string) ([]types.Donation, error) {
	ctx, span := otel.Tracer("DonationRepo").Start(ctx, "ListDonationsByRegistration", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.donation.registration", registrationNumber),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM donations WHERE registration_number = $1 ORDER BY created_at DESC`, donationColumns)
	return r.queryDonations(ctx, span, query, registrationNumber)
}

func (r *PostgresRepository) queryDonations(ctx context.Context, span trace.Span, query string, args ...any) ([]types.Donation, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	donations := make([]types.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("scanning donation row: %w", err)
		}
		donations = append(donations, *d)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterating donation rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Donations listed")
	return donations, nil
}

func (r *PostgresRepository) GetDonationByID(ctx context.Context, donationID uuid.UUID) (*types.Donation, error) {
	ctx, span := otel.Tracer("DonationRepo").Start(ctx, "GetDonationByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.donation.id", donationID.String()),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM donations WHERE id = $1`, donationColumns)
	donation, err := scanDonation(r.pgpool.QueryRow(ctx, query, donationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Donation not found")
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("fetching donation by id: %w", err)
	}

	span.SetStatus(codes.Ok, "Donation fetched")
	return donation, nil
}
