package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"content-review/internal/dto/request"
	"content-review/internal/usecase"
	"content-review/pkg/utils"
)

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

// CreateGenre handles POST /api/v1/genres (admin)
func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	genre, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "success", genre)
}

// ListGenres handles GET /api/v1/genres (public)
func (h *GenreHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	genres, err := h.service.List(r.Context(), query.Get("search"), page)
	if err != nil {
		handleServiceError(w, h.log, err, "list genres")
		return
	}

	utils.ResponseSuccess(w, "success", genres)
}

// DeleteGenre handles DELETE /api/v1/genres/{slug} (admin)
func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Slug is required", nil)
		return
	}

	if err := h.service.DeleteBySlug(r.Context(), slug); err != nil {
		handleServiceError(w, h.log, err, "delete genre")
		return
	}

	utils.ResponseNoContent(w)
}
