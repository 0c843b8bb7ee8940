package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/dto/request"
	"content-review/internal/usecase"
	"content-review/pkg/utils"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/v1/titles/{titleID}/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	titleID, err := uuidParam(r, "titleID")
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.Create(r.Context(), actor, titleID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// ListReviews handles GET /api/v1/titles/{titleID}/reviews (public)
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	titleID, err := uuidParam(r, "titleID")
	if err != nil {
		handleServiceError(w, h.log, err, "list reviews")
		return
	}

	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reviews, err := h.service.List(r.Context(), titleID, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /api/v1/titles/{titleID}/reviews/{reviewID} (public)
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, err := h.pathIDs(r)
	if err != nil {
		handleServiceError(w, h.log, err, "get review")
		return
	}

	review, err := h.service.GetByID(r.Context(), titleID, reviewID)
	if err != nil {
		handleServiceError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// UpdateReview handles PATCH /api/v1/titles/{titleID}/reviews/{reviewID} (protected)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	titleID, reviewID, err := h.pathIDs(r)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.Update(r.Context(), actor, titleID, reviewID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID} (protected)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	titleID, reviewID, err := h.pathIDs(r)
	if err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	if err := h.service.Delete(r.Context(), actor, titleID, reviewID); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}

func (h *ReviewHandler) pathIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	titleID, err := uuidParam(r, "titleID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return titleID, reviewID, nil
}
