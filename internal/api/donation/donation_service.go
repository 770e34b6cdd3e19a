package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carelink/carelink/app/observability/metrics"
	"github.com/carelink/carelink/internal/api/home"
	"github.com/carelink/carelink/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business contract for donations.
type Service interface {
	// CreateDonation validates and records a pledge. The target
	// organization must exist; unknown registration numbers return
	// types.ErrNotFound.
	CreateDonation(ctx context.Context, req CreateDonationRequest) (*types.Donation, error)

	ListDonations(ctx context.Context) ([]types.Donation, error)
	ListDonationsByRegistration(ctx context.Context, registrationNumber string) ([]types.Donation, error)
	GetDonation(ctx context.Context, donationID uuid.UUID) (*types.Donation, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     Repository
	homeRepo home.Repository
}

func NewServiceImpl(repo Repository, homeRepo home.Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		homeRepo: homeRepo,
	}
}

func (s *ServiceImpl) CreateDonation(ctx context.Context, req CreateDonationRequest) (*types.Donation, error) {
	l := s.logger.With(slog.String("service", "CreateDonation"))

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: donor name and email are required", types.ErrInvalidInput)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", types.ErrInvalidInput)
	}
	registration := strings.TrimSpace(req.RegistrationNumber)
	if registration == "" {
		return nil, fmt.Errorf("%w: registration number is required", types.ErrInvalidInput)
	}

	target, err := s.homeRepo.GetHomeByRegistration(ctx, registration)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Donation for unknown organization", slog.String("registration", registration))
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to resolve organization", slog.Any("error", err))
		return nil, err
	}

	organizationName := req.OrganizationName
	if organizationName == "" {
		organizationName = target.Name
	}

	donation := &types.Donation{
		Name:               req.Name,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Amount:             req.Amount,
		GoodsAmount:        req.GoodsAmount,
		Message:            req.Message,
		RegistrationNumber: registration,
		OrganizationName:   organizationName,
		CurrentNeeds:       req.CurrentNeeds,
		ReceivedItems:      req.ReceivedItems,
	}
	if err := s.repo.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	m := metrics.Get()
	m.DonationsRecordedTotal.Add(ctx, 1)
	m.DonationAmountTotal.Add(ctx, donation.Amount)

	l.InfoContext(ctx, "Donation recorded",
		slog.String("donationID", donation.ID.String()),
		slog.String("registration", registration),
		slog.Float64("amount", donation.Amount))
	return donation, nil
}

func (s *ServiceImpl) ListDonations(ctx context.Context) ([]types.Donation, error) {
	return s.repo.ListDonations(ctx)
}

func (s *ServiceImpl) ListDonationsByRegistration(ctx context.Context, registrationNumber string) ([]types.Donation, error) {
	return s.repo.ListDonationsByRegistration(ctx, registrationNumber)
}

func (s *ServiceImpl) GetDonation(ctx context.Context, donationID uuid.UUID) (*types.Donation, error) {
	return s.repo.GetDonationByID(ctx, donationID)
}
