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

type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// CreateCategory handles POST /api/v1/categories (admin)
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	category, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create category")
		return
	}

	utils.ResponseCreated(w, "success", category)
}

// ListCategories handles GET /api/v1/categories (public)
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	categories, err := h.service.List(r.Context(), query.Get("search"), page)
	if err != nil {
		handleServiceError(w, h.log, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// DeleteCategory handles DELETE /api/v1/categories/{slug} (admin)
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Slug is required", nil)
		return
	}

	if err := h.service.DeleteBySlug(r.Context(), slug); err != nil {
		handleServiceError(w, h.log, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}
