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

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// CreateComment handles POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments (protected)
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	titleID, reviewID, err := h.pathIDs(r)
	if err != nil {
		handleServiceError(w, h.log, err, "create comment")
		return
	}

	var req request.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.Create(r.Context(), actor, titleID, reviewID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "success", comment)
}

// ListComments handles GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments (public)
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, err := h.pathIDs(r)
	if err != nil {
		handleServiceError(w, h.log, err, "list comments")
		return
	}

	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	comments, err := h.service.List(r.Context(), titleID, reviewID, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// GetComment handles GET .../comments/{commentID} (public)
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, commentID, err := h.pathIDsWithComment(r)
	if err != nil {
		handleServiceError(w, h.log, err, "get comment")
		return
	}

	comment, err := h.service.GetByID(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		handleServiceError(w, h.log, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

// UpdateComment handles PATCH .../comments/{commentID} (protected)
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	titleID, reviewID, commentID, err := h.pathIDsWithComment(r)
	if err != nil {
		handleServiceError(w, h.log, err, "update comment")
		return
	}

	var req request.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.Update(r.Context(), actor, titleID, reviewID, commentID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

// DeleteComment handles DELETE .../comments/{commentID} (protected)
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	titleID, reviewID, commentID, err := h.pathIDsWithComment(r)
	if err != nil {
		handleServiceError(w, h.log, err, "delete comment")
		return
	}

	if err := h.service.Delete(r.Context(), actor, titleID, reviewID, commentID); err != nil {
		handleServiceError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}

func (h *CommentHandler) pathIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
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

func (h *CommentHandler) pathIDsWithComment(r *http.Request) (uuid.UUID, uuid.UUID, uuid.UUID, error) {
	titleID, reviewID, err := h.pathIDs(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	commentID, err := uuidParam(r, "commentID")
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	return titleID, reviewID, commentID, nil
}
