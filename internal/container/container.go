package container

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/carelink/carelink/app/db"
	"github.com/carelink/carelink/config"
	"github.com/carelink/carelink/internal/api/auth"
	"github.com/carelink/carelink/internal/api/donation"
	"github.com/carelink/carelink/internal/api/home"
	"github.com/carelink/carelink/internal/api/user"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	AuthRepo        auth.Repository
	AuthHandler     *auth.HandlerImpl
	UserHandler     *user.HandlerImpl
	HomeHandler     *home.HandlerImpl
	DonationHandler *donation.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewPostgresRepository(pool, logger)
	authService := auth.NewServiceImpl(authRepo, cfg.JWT, logger)
	authHandler := auth.NewHandlerImpl(authService, logger)

	userRepo := user.NewPostgresRepository(pool, logger)
	userService := user.NewServiceImpl(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	homeRepo := home.NewPostgresRepository(pool, logger)
	homeService := home.NewServiceImpl(homeRepo, logger)
	homeHandler := home.NewHandlerImpl(homeService, logger)

	donationRepo := donation.NewPostgresRepository(pool, logger)
	donationService := donation.NewServiceImpl(donationRepo, homeRepo, logger)
	donationHandler := donation.NewHandlerImpl(donationService, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		AuthRepo:        authRepo,
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		HomeHandler:     homeHandler,
		DonationHandler: donationHandler,
	}, nil
}

// Close releases pooled resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
