package donation

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carelink/carelink/internal/types"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateDonation(ctx context.Context, donation *types.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockRepository) ListDonations(ctx context.Context) ([]types.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Donation), args.Error(1)
}

func (m *MockRepository) ListDonationsByRegistration(ctx context.Context, registrationNumber string) ([]types.Donation, error) {
	args := m.Called(ctx, registrationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Donation), args.Error(1)
}

func (m *MockRepository) GetDonationByID(ctx context.Context, donationID uuid.UUID) (*types.Donation, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Donation), args.Error(1)
}

// MockHomeRepository mocks the home lookup used to validate the target
// organization of a pledge.
type MockHomeRepository struct {
	mock.Mock
}

func (m *MockHomeRepository) CreateHome(ctx context.Context, home *types.Home) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockHomeRepository) ListHomes(ctx context.Context) ([]types.Home, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Home), args.Error(1)
}

func (m *MockHomeRepository) GetHomeByID(ctx context.Context, homeID uuid.UUID) (*types.Home, error) {
	args := m.Called(ctx, homeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Home), args.Error(1)
}

func (m *MockHomeRepository) GetHomeByRegistration(ctx context.Context, registrationNumber string) (*types.Home, error) {
	args := m.Called(ctx, registrationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Home), args.Error(1)
}

func (m *MockHomeRepository) UpdateHome(ctx context.Context, homeID uuid.UUID, params types.UpdateHomeParams) error {
	args := m.Called(ctx, homeID, params)
	return args.Error(0)
}

func (m *MockHomeRepository) DeleteHome(ctx context.Context, homeID uuid.UUID) error {
	args := m.Called(ctx, homeID)
	return args.Error(0)
}

func validRequest() CreateDonationRequest {
	return CreateDonationRequest{
		Name:               "Sam Donor",
		Email:              "sam@example.com",
		Amount:             50,
		RegistrationNumber: "REG-2024-0042",
	}
}

func targetHome() *types.Home {
	return &types.Home{
		ID:                 uuid.New(),
		Name:               "Sunny Meadows",
		RegistrationNumber: "REG-2024-0042",
		Type:               types.HomeTypeElderHome,
	}
}

func TestServiceImpl_CreateDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("records a valid pledge", func(t *testing.T) {
		repo := new(MockRepository)
		homeRepo := new(MockHomeRepository)
		svc := NewServiceImpl(repo, homeRepo, slog.New(slog.DiscardHandler))

		homeRepo.On("GetHomeByRegistration", ctx, "REG-2024-0042").
			Return(targetHome(), nil).Once()
		repo.On("CreateDonation", ctx, mock.AnythingOfType("*types.Donation")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*types.Donation).ID = uuid.New()
			}).
			Return(nil).Once()

		donation, err := svc.CreateDonation(ctx, validRequest())

		assert.NoError(t, err)
		assert.Equal(t, "sam@example.com", donation.Email)
		assert.Equal(t, "Sunny Meadows", donation.OrganizationName)
		repo.AssertExpectations(t)
		homeRepo.AssertExpectations(t)
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		repo := new(MockRepository)
		homeRepo := new(MockHomeRepository)
		svc := NewServiceImpl(repo, homeRepo, slog.New(slog.DiscardHandler))

		req := validRequest()
		req.Amount = -10
		donation, err := svc.CreateDonation(ctx, req)

		assert.Nil(t, donation)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		homeRepo.AssertNotCalled(t, "GetHomeByRegistration")
	})

	t.Run("accepts a zero amount goods pledge", func(t *testing.T) {
		repo := new(MockRepository)
		homeRepo := new(MockHomeRepository)
		svc := NewServiceImpl(repo, homeRepo, slog.New(slog.DiscardHandler))

		homeRepo.On("GetHomeByRegistration", ctx, "REG-2024-0042").
			Return(targetHome(), nil).Once()
		repo.On("CreateDonation", ctx, mock.AnythingOfType("*types.Donation")).
			Return(nil).Once()

		req := validRequest()
		req.Amount = 0
		req.GoodsAmount = "20 blankets"
		_, err := svc.CreateDonation(ctx, req)

		assert.NoError(t, err)
	})

	t.Run("rejects missing donor fields", func(t *testing.T) {
		repo := new(MockRepository)
		homeRepo := new(MockHomeRepository)
		svc := NewServiceImpl(repo, homeRepo, slog.New(slog.DiscardHandler))

		req := validRequest()
		req.Email = " "
		donation, err := svc.CreateDonation(ctx, req)

		assert.Nil(t, donation)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("rejects an unknown organization", func(t *testing.T) {
		repo := new(MockRepository)
		homeRepo := new(MockHomeRepository)
		svc := NewServiceImpl(repo, homeRepo, slog.New(slog.DiscardHandler))

		homeRepo.On("GetHomeByRegistration", ctx, "REG-9999-0000").
			Return(nil, types.ErrNotFound).Once()

		req := validRequest()
		req.RegistrationNumber = "REG-9999-0000"
		donation, err := svc.CreateDonation(ctx, req)

		assert.Nil(t, donation)
		assert.ErrorIs(t, err, types.ErrNotFound)
		repo.AssertNotCalled(t, "CreateDonation")
	})
}

func TestServiceImpl_ListDonations(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	homeRepo := new(MockHomeRepository)
	svc := NewServiceImpl(repo, homeRepo, slog.New(slog.DiscardHandler))

	listing := []types.Donation{{ID: uuid.New(), Name: "Sam Donor"}}
	repo.On("ListDonations", ctx).Return(listing, nil).Once()

	donations, err := svc.ListDonations(ctx)

	assert.NoError(t, err)
	assert.Len(t, donations, 1)
	repo.AssertExpectations(t)
}
