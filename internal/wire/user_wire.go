package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"content-review/internal/adaptor"
	"content-review/pkg/middleware"
	"content-review/pkg/token"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, tokens *token.Manager, log *zap.Logger) {
	// Self-service profile: any authenticated user. Registered before
	// the admin routes so /users/me never matches {username}.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		r.Get("/api/v1/users/me", userHandler.Me)
		r.Patch("/api/v1/users/me", userHandler.UpdateMe)
	})

	// Account administration: admin only.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/v1/users", userHandler.CreateUser)
		r.Get("/api/v1/users", userHandler.ListUsers)
		r.Get("/api/v1/users/{username}", userHandler.GetUser)
		r.Patch("/api/v1/users/{username}", userHandler.UpdateUser)
		r.Delete("/api/v1/users/{username}", userHandler.DeleteUser)
	})
}
