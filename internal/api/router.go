package api

import (
	"net/http"

	"github.com/gabriellgomess/condominio-app-sub002/internal/api/handler"
	customMiddleware "github.com/gabriellgomess/condominio-app-sub002/internal/api/middleware"
	"github.com/gabriellgomess/condominio-app-sub002/internal/config"
	"github.com/gabriellgomess/condominio-app-sub002/internal/repository/postgres"
	"github.com/gabriellgomess/condominio-app-sub002/internal/repository/redis"
	"github.com/gabriellgomess/condominio-app-sub002/internal/security"
	"github.com/gabriellgomess/condominio-app-sub002/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
)

// NewRouter creates and configures the HTTP router. The reservation service
// is returned as well so the caller can hand it to background workers.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) (http.Handler, *service.ReservationService) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Initialize repositories
	spaceRepo := postgres.NewSpaceRepository(db.Pool)
	spaceConfigRepo := postgres.NewSpaceConfigRepository(db.Pool)
	reservationRepo := postgres.NewReservationRepository(db.Pool)

	// Initialize cache and rate limiter
	availabilityCache := redis.NewAvailabilityCache(redisClient, cfg.Booking.AvailabilityCacheTTL)
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Booking.RateLimit.RequestsPerMinute,
		cfg.Booking.RateLimit.Burst,
	)

	// Initialize services
	clock := clockwork.NewRealClock()
	spaceConfigService := service.NewSpaceConfigService(spaceRepo, spaceConfigRepo, availabilityCache, clock)
	reservationService := service.NewReservationService(spaceConfigService, reservationRepo, availabilityCache, clock)
	availabilityService := service.NewAvailabilityService(spaceConfigService, reservationRepo, availabilityCache)

	// Initialize handlers
	spaceConfigHandler := handler.NewSpaceConfigHandler(spaceConfigService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/condominiums/{condominiumID}", func(r chi.Router) {
				r.Use(customMiddleware.CondominiumContext)

				r.Get("/reservations", reservationHandler.List)

				r.Route("/spaces/{spaceID}", func(r chi.Router) {
					r.Use(customMiddleware.SpaceContext)

					r.Route("/config", func(r chi.Router) {
						r.Get("/", spaceConfigHandler.Get)

						r.Group(func(r chi.Router) {
							r.Use(customMiddleware.RequireAdmin)
							r.Post("/", spaceConfigHandler.Create)
							r.Patch("/", spaceConfigHandler.Update)
							r.Delete("/", spaceConfigHandler.Deactivate)
						})
					})

					r.Get("/availability", availabilityHandler.Get)

					r.With(rateLimitMiddleware.Limit).Post("/reservations", reservationHandler.Create)
				})
			})

			r.Route("/reservations/{reservationID}", func(r chi.Router) {
				r.Get("/", reservationHandler.Get)
				r.Post("/cancel", reservationHandler.Cancel)

				r.Group(func(r chi.Router) {
					r.Use(customMiddleware.RequireAdmin)
					r.Post("/confirm", reservationHandler.Confirm)
					r.Post("/reject", reservationHandler.Reject)
					r.Post("/complete", reservationHandler.Complete)
				})
			})
		})
	})

	return r, reservationService
}
