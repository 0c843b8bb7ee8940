package adaptor

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/apperr"
	"content-review/internal/usecase"
	"content-review/pkg/utils"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CategoryHandler
	Genre    *GenreHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Category: NewCategoryHandler(service.Category, log),
		Genre:    NewGenreHandler(service.Genre, log),
		Title:    NewTitleHandler(service.Title, log),
		Review:   NewReviewHandler(service.Review, log),
		Comment:  NewCommentHandler(service.Comment, log),
	}
}

// uuidParam reads a UUID path parameter. A malformed value can never
// address anything, so it reports not-found rather than bad-request.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound(fmt.Sprintf("%s %s not found", name, raw))
	}
	return id, nil
}

// handleServiceError maps the error taxonomy onto HTTP statuses. Field
// details travel only for validation errors.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch ae.ErrKind {
	case apperr.KindValidation:
		log.Warn(operation+" rejected", zap.Error(err), zap.String("operation", operation))
		if len(ae.Fields) > 0 {
			utils.ResponseBadRequest(w, ae.Message, ae.Fields)
		} else {
			utils.ResponseBadRequest(w, ae.Message, nil)
		}

	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, ae.Message)

	case apperr.KindUnauthenticated:
		log.Warn(operation+" failed - unauthenticated", zap.Error(err), zap.String("operation", operation))
		utils.ResponseUnauthorized(w, ae.Message)

	case apperr.KindPermissionDenied:
		log.Warn(operation+" failed - forbidden", zap.Error(err), zap.String("operation", operation))
		utils.ResponseForbidden(w, ae.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
