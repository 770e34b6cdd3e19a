package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/carelink/carelink/internal/api/auth"
	"github.com/carelink/carelink/internal/container"
	"github.com/carelink/carelink/internal/types"
)

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied
// before mounting this router in main.go.
func SetupRouter(c *container.Container) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	authenticate := auth.Authenticate(c.Logger, c.AuthRepo, c.Config.JWT)
	adminOnly := auth.RequireRole(c.Logger, types.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", c.AuthHandler.Register)
			r.Post("/auth/login", c.AuthHandler.Login)

			r.Get("/homes", c.HomeHandler.ListHomes)
			r.Get("/homes/{id}", c.HomeHandler.GetHome)

			r.Post("/donations", c.DonationHandler.CreateDonation)
			r.Get("/donations", c.DonationHandler.ListDonations)
			r.Get("/donations/{id}", c.DonationHandler.GetDonation)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/users/me", c.UserHandler.GetMe)
			r.Get("/users", c.UserHandler.ListUsers)
			r.Get("/users/{id}", c.UserHandler.GetUser)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Put("/users/{id}", c.UserHandler.UpdateUser)
			r.Delete("/users/{id}", c.UserHandler.DeleteUser)

			r.Post("/homes", c.HomeHandler.CreateHome)
			r.Put("/homes/{id}", c.HomeHandler.UpdateHome)
			r.Delete("/homes/{id}", c.HomeHandler.DeleteHome)
		})
	})

	return r
}
