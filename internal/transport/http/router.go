package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mealhub/api/internal/application/auth"
	"github.com/mealhub/api/internal/application/profile"
	"github.com/mealhub/api/internal/config"
	"github.com/mealhub/api/internal/transport/http/handler"
	appmiddleware "github.com/mealhub/api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)
	profileSvc := profile.NewService(deps.UserRepo, deps.AvatarStore)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	profileH := handler.NewProfileHandler(profileSvc)

	// Public routes.
	r.Get("/health-check/ping", healthH.Ping)
	r.Post("/signup", authH.Signup)
	r.Post("/login", authH.Login)

	// Protected routes: the auth gate runs before any handler here, so a
	// request never reaches the profile service with an unverified identity.
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.JWTProvider))

		r.Get("/profile", profileH.Get)
		r.Put("/profile", profileH.Update)
		r.Post("/profile/avatar", profileH.UploadAvatar)
	})

	return r
}
