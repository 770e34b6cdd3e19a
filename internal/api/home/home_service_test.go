package home

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

func (m *MockRepository) CreateHome(ctx context.Context, home *types.Home) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockRepository) ListHomes(ctx context.Context) ([]types.Home, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Home), args.Error(1)
}

func (m *MockRepository) GetHomeByID(ctx context.Context, homeID uuid.UUID) (*types.Home, error) {
	args := m.Called(ctx, homeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Home), args.Error(1)
}

func (m *MockRepository) GetHomeByRegistration(ctx context.Context, registrationNumber string) (*types.Home, error) {
	args := m.Called(ctx, registrationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Home), args.Error(1)
}

func (m *MockRepository) UpdateHome(ctx context.Context, homeID uuid.UUID, params types.UpdateHomeParams) error {
	args := m.Called(ctx, homeID, params)
	return args.Error(0)
}

func (m *MockRepository) DeleteHome(ctx context.Context, homeID uuid.UUID) error {
	args := m.Called(ctx, homeID)
	return args.Error(0)
}

func validCreateRequest() CreateHomeRequest {
	return CreateHomeRequest{
		Name:               "Sunny Meadows",
		RegistrationNumber: "REG-2024-0042",
		Type:               string(types.HomeTypeElderHome),
		Location:           "12 Hill Road",
		ContactNumber:      "+3512345678",
		Email:              "contact@sunnymeadows.example",
	}
}

func TestServiceImpl_CreateHome(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an unknown organization type", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, slog.New(slog.DiscardHandler))

		req := validCreateRequest()
		req.Type = "Orphanage"
		home, err := svc.CreateHome(ctx, req)

		assert.Nil(t, home)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		repo.AssertNotCalled(t, "CreateHome")
	})

	t.Run("propagates duplicate registration", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, slog.New(slog.DiscardHandler))

		repo.On("CreateHome", ctx, mock.AnythingOfType("*types.Home")).
			Return(types.ErrDuplicateRegistration).Once()

		home, err := svc.CreateHome(ctx, validCreateRequest())

		assert.Nil(t, home)
		assert.ErrorIs(t, err, types.ErrDuplicateRegistration)
	})
}

func TestServiceImpl_ListHomes_Cache(t *testing.T) {
	ctx := context.Background()
	listing := []types.Home{
		{ID: uuid.New(), Name: "Sunny Meadows", Type: types.HomeTypeElderHome},
	}

	t.Run("serves repeat listings from the cache", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, slog.New(slog.DiscardHandler))

		repo.On("ListHomes", ctx).Return(listing, nil).Once()

		first, err := svc.ListHomes(ctx)
		assert.NoError(t, err)
		second, err := svc.ListHomes(ctx)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		repo.AssertNumberOfCalls(t, "ListHomes", 1)
	})

	t.Run("invalidates the cache after a write", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, slog.New(slog.DiscardHandler))

		repo.On("ListHomes", ctx).Return(listing, nil).Twice()
		repo.On("CreateHome", ctx, mock.AnythingOfType("*types.Home")).Return(nil).Once()

		_, err := svc.ListHomes(ctx)
		assert.NoError(t, err)

		_, err = svc.CreateHome(ctx, validCreateRequest())
		assert.NoError(t, err)

		_, err = svc.ListHomes(ctx)
		assert.NoError(t, err)
		repo.AssertNumberOfCalls(t, "ListHomes", 2)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, slog.New(slog.DiscardHandler))

		repo.On("ListHomes", ctx).Return(nil, assert.AnError).Once()
		repo.On("ListHomes", ctx).Return(listing, nil).Once()

		_, err := svc.ListHomes(ctx)
		assert.Error(t, err)

		homes, err := svc.ListHomes(ctx)
		assert.NoError(t, err)
		assert.Len(t, homes, 1)
	})
}

func TestServiceImpl_UpdateHome(t *testing.T) {
	ctx := context.Background()
	homeID := uuid.New()

	t.Run("rejects an unknown type", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, slog.New(slog.DiscardHandler))

		badType := "Shelter"
		home, err := svc.UpdateHome(ctx, homeID, types.UpdateHomeParams{Type: &badType})

		assert.Nil(t, home)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		repo.AssertNotCalled(t, "UpdateHome")
	})

	t.Run("returns the refreshed record", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, slog.New(slog.DiscardHandler))

		name := "New Name"
		updated := &types.Home{ID: homeID, Name: name}
		repo.On("UpdateHome", ctx, homeID, types.UpdateHomeParams{Name: &name}).Return(nil).Once()
		repo.On("GetHomeByID", ctx, homeID).Return(updated, nil).Once()

		home, err := svc.UpdateHome(ctx, homeID, types.UpdateHomeParams{Name: &name})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", home.Name)
		repo.AssertExpectations(t)
	})
}
