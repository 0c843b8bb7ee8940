package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"content-review/internal/adaptor"
	"content-review/pkg/middleware"
	"content-review/pkg/token"
)

func wireCatalog(
	r chi.Router,
	categoryHandler *adaptor.CategoryHandler,
	genreHandler *adaptor.GenreHandler,
	titleHandler *adaptor.TitleHandler,
	tokens *token.Manager,
	log *zap.Logger,
) {
	// The whole catalog is world-readable; a presented token still
	// resolves so request logs carry the actor.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(tokens, log))

		r.Get("/api/v1/categories", categoryHandler.ListCategories)
		r.Get("/api/v1/genres", genreHandler.ListGenres)
		r.Get("/api/v1/titles", titleHandler.ListTitles)
		r.Get("/api/v1/titles/{titleID}", titleHandler.GetTitle)
	})

	// Catalog management: admin only.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.CatalogAdmin(log))

		r.Post("/api/v1/categories", categoryHandler.CreateCategory)
		r.Delete("/api/v1/categories/{slug}", categoryHandler.DeleteCategory)

		r.Post("/api/v1/genres", genreHandler.CreateGenre)
		r.Delete("/api/v1/genres/{slug}", genreHandler.DeleteGenre)

		r.Post("/api/v1/titles", titleHandler.CreateTitle)
		r.Patch("/api/v1/titles/{titleID}", titleHandler.UpdateTitle)
		r.Delete("/api/v1/titles/{titleID}", titleHandler.DeleteTitle)
	})
}
