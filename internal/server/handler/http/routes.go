package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aschwizzy710/passkeeper/internal/middleware"
)

// NewRouter constructs the PassKeeper API handler.
//
// Routes:
//
//	POST   /api/register               authHandler.Register (no certificate)
//	POST   /api/login                  authHandler.Login
//	GET    /api/health                 Health (no certificate)
//	POST   /api/passwords/generate     passwordHandler.Generate (rate limited)
//	POST   /api/passwords/validate     passwordHandler.Validate
//	POST   /api/passwords/uniqueness   passwordHandler.CheckUniqueness
//	POST   /api/passwords              passwordHandler.Store
//	GET    /api/passwords              passwordHandler.List
//	GET    /api/passwords/{id}         passwordHandler.Get
//	PUT    /api/passwords/{id}         passwordHandler.Update
//	DELETE /api/passwords/{id}         passwordHandler.Delete
//
// Middleware chain, in order: Recoverer, StripSlashes, request logging,
// AllowContentType("application/json"), CertAuth. A nil limiter disables
// rate limiting.
func NewRouter(
	authHandler *AuthHandler,
	passwordHandler *PasswordHandler,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.StripSlashes)
	r.Use(middleware.WithRequestLogging(logger))
	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.CertAuth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/health", Health)

		r.Route("/passwords", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if limiter != nil {
					r.Use(limiter.Middleware)
				}
				r.Post("/generate", passwordHandler.Generate)
			})
			r.Post("/validate", passwordHandler.Validate)
			r.Post("/uniqueness", passwordHandler.CheckUniqueness)

			r.Post("/", passwordHandler.Store)
			r.Get("/", passwordHandler.List)
			r.Get("/{id}", passwordHandler.Get)
			r.Put("/{id}", passwordHandler.Update)
			r.Delete("/{id}", passwordHandler.Delete)
		})
	})

	return r
}
