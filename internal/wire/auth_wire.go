package wire

import (
	"github.com/go-chi/chi/v5"

	"content-review/internal/adaptor"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// Both endpoints are public: signup starts the flow, token
	// finishes it.
	r.Post("/api/v1/auth/signup", authHandler.Signup)
	r.Post("/api/v1/auth/token", authHandler.Token)
}
