package adaptor

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"content-review/internal/dto/request"
	"content-review/internal/usecase"
	"content-review/pkg/utils"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signup handles POST /api/v1/auth/signup (public)
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "signup")
		return
	}

	utils.ResponseSuccess(w, "confirmation code sent", resp)
}

// Token handles POST /api/v1/auth/token (public)
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req request.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Token(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "issue token")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}
