package home

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/carelink/carelink/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

const (
	listCacheKey = "homes:list"
	listCacheTTL = time.Minute
)

// Service defines the business contract for organizations.
type Service interface {
	CreateHome(ctx context.Context, req CreateHomeRequest) (*types.Home, error)
	ListHomes(ctx context.Context) ([]types.Home, error)
	GetHome(ctx context.Context, homeID uuid.UUID) (*types.Home, error)
	UpdateHome(ctx context.Context, homeID uuid.UUID, params types.UpdateHomeParams) (*types.Home, error)
	DeleteHome(ctx context.Context, homeID uuid.UUID) error
}

// ServiceImpl caches the public listing in memory. The listing is read on
// every visit to the landing page while admin writes are rare, so a short
// TTL plus invalidation on write keeps it fresh enough.
type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(listCacheTTL, 5*time.Minute),
	}
}

func (s *ServiceImpl) CreateHome(ctx context.Context, req CreateHomeRequest) (*types.Home, error) {
	l := s.logger.With(slog.String("service", "CreateHome"))

	if !types.IsValidHomeType(req.Type) {
		return nil, fmt.Errorf("%w: unknown home type %q", types.ErrInvalidInput, req.Type)
	}

	home := &types.Home{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Type:               types.HomeType(req.Type),
		Location:           req.Location,
		ContactNumber:      req.ContactNumber,
		Email:              req.Email,
		Picture:            req.Picture,
		Description:        req.Description,
	}
	if err := s.repo.CreateHome(ctx, home); err != nil {
		return nil, err
	}

	s.cache.Delete(listCacheKey)
	l.InfoContext(ctx, "Home created",
		slog.String("homeID", home.ID.String()),
		slog.String("registration", home.RegistrationNumber))
	return home, nil
}

func (s *ServiceImpl) ListHomes(ctx context.Context) ([]types.Home, error) {
	if cached, found := s.cache.Get(listCacheKey); found {
		return cached.([]types.Home), nil
	}

	homes, err := s.repo.ListHomes(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(listCacheKey, homes, cache.DefaultExpiration)
	return homes, nil
}

func (s *ServiceImpl) GetHome(ctx context.Context, homeID uuid.UUID) (*types.Home, error) {
	return s.repo.GetHomeByID(ctx, homeID)
}

func (s *ServiceImpl) UpdateHome(ctx context.Context, homeID uuid.UUID, params types.UpdateHomeParams) (*types.Home, error) {
	l := s.logger.With(slog.String("service", "UpdateHome"), slog.String("homeID", homeID.String()))

	if params.Type != nil && !types.IsValidHomeType(*params.Type) {
		return nil, fmt.Errorf("%w: unknown home type %q", types.ErrInvalidInput, *params.Type)
	}

	if err := s.repo.UpdateHome(ctx, homeID, params); err != nil {
		return nil, err
	}

	s.cache.Delete(listCacheKey)
	l.InfoContext(ctx, "Home updated")
	return s.repo.GetHomeByID(ctx, homeID)
}

func (s *ServiceImpl) DeleteHome(ctx context.Context, homeID uuid.UUID) error {
	l := s.logger.With(slog.String("service", "DeleteHome"), slog.String("homeID", homeID.String()))

	if err := s.repo.DeleteHome(ctx, homeID); err != nil {
		return err
	}

	s.cache.Delete(listCacheKey)
	l.InfoContext(ctx, "Home deleted")
	return nil
}
