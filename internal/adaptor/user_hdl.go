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

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// CreateUser handles POST /api/v1/users (admin)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	var req request.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create user")
		return
	}

	utils.ResponseCreated(w, "success", user)
}

// ListUsers handles GET /api/v1/users (admin)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	users, err := h.service.List(r.Context(), query.Get("search"), page)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// GetUser handles GET /api/v1/users/{username} (admin)
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		utils.ResponseBadRequest(w, "Username is required", nil)
		return
	}

	user, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateUser handles PATCH /api/v1/users/{username} (admin)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	username := chi.URLParam(r, "username")
	if username == "" {
		utils.ResponseBadRequest(w, "Username is required", nil)
		return
	}

	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateByUsername(r.Context(), actor, username, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// DeleteUser handles DELETE /api/v1/users/{username} (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		utils.ResponseBadRequest(w, "Username is required", nil)
		return
	}

	if err := h.service.DeleteByUsername(r.Context(), username); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseNoContent(w)
}

// Me handles GET /api/v1/users/me (protected)
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	user, err := h.service.Me(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateMe handles PATCH /api/v1/users/me (protected)
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor := utils.GetActorFromContext(r.Context())

	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateMe(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}
