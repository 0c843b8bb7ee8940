package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"content-review/internal/dto/request"
	"content-review/internal/usecase"
	"content-review/pkg/utils"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// CreateTitle handles POST /api/v1/titles (admin)
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	title, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create title")
		return
	}

	utils.ResponseCreated(w, "success", title)
}

// ListTitles handles GET /api/v1/titles (public)
func (h *TitleHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	filter := request.TitleListFilter{
		Category: query.Get("category"),
		Genre:    query.Get("genre"),
		Name:     query.Get("name"),
	}
	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid year filter", nil)
			return
		}
		filter.Year = &year
	}

	titles, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// GetTitle handles GET /api/v1/titles/{titleID} (public)
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "titleID")
	if err != nil {
		handleServiceError(w, h.log, err, "get title")
		return
	}

	title, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// UpdateTitle handles PATCH /api/v1/titles/{titleID} (admin)
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "titleID")
	if err != nil {
		handleServiceError(w, h.log, err, "update title")
		return
	}

	var req request.UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	title, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{titleID} (admin)
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "titleID")
	if err != nil {
		handleServiceError(w, h.log, err, "delete title")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
