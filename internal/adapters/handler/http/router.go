package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	contactHandler *ContactHandler,
	healthHandler *HealthHandler,
	authenticator *Authenticator,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthchecker", healthHandler.Check)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/confirmed_email/{token}", authHandler.ConfirmEmail)
		r.Post("/request_email", authHandler.RequestEmail)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator.RequireUser)
		r.Get("/me", userHandler.Me)
		r.Patch("/avatar", userHandler.UpdateAvatar)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Use(authenticator.RequireUser)
		r.Get("/", contactHandler.List)
		r.Post("/", contactHandler.Create)
		r.Get("/search", contactHandler.Search)
		r.Get("/birthdays", contactHandler.UpcomingBirthdays)
		r.Get("/{id}", contactHandler.Get)
		r.Put("/{id}", contactHandler.Update)
		r.Delete("/{id}", contactHandler.Delete)
	})

	return r
}
