package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"content-review/internal/adaptor"
	"content-review/pkg/middleware"
	"content-review/pkg/token"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	commentHandler *adaptor.CommentHandler,
	tokens *token.Manager,
	log *zap.Logger,
) {
	// Reading reviews and comments needs no account.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(tokens, log))

		r.Get("/api/v1/titles/{titleID}/reviews", reviewHandler.ListReviews)
		r.Get("/api/v1/titles/{titleID}/reviews/{reviewID}", reviewHandler.GetReview)
		r.Get("/api/v1/titles/{titleID}/reviews/{reviewID}/comments", commentHandler.ListComments)
		r.Get("/api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}", commentHandler.GetComment)
	})

	// Writing requires a token; ownership and moderator checks happen
	// in the services.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		r.Post("/api/v1/titles/{titleID}/reviews", reviewHandler.CreateReview)
		r.Patch("/api/v1/titles/{titleID}/reviews/{reviewID}", reviewHandler.UpdateReview)
		r.Delete("/api/v1/titles/{titleID}/reviews/{reviewID}", reviewHandler.DeleteReview)

		r.Post("/api/v1/titles/{titleID}/reviews/{reviewID}/comments", commentHandler.CreateComment)
		r.Patch("/api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}", commentHandler.UpdateComment)
		r.Delete("/api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}", commentHandler.DeleteComment)
	})
}
