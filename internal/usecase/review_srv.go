package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/apperr"
	"content-review/internal/authz"
	"content-review/internal/data/entity"
	"content-review/internal/data/repository"
	"content-review/internal/dto/request"
	"content-review/internal/dto/response"
	"content-review/pkg/utils"
)

type ReviewService interface {
	Create(ctx context.Context, actor authz.Actor, titleID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetByID(ctx context.Context, titleID, reviewID uuid.UUID) (*response.ReviewResponse, error)
	List(ctx context.Context, titleID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	Update(ctx context.Context, actor authz.Actor, titleID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	Delete(ctx context.Context, actor authz.Actor, titleID, reviewID uuid.UUID) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) Create(ctx context.Context, actor authz.Actor, titleID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	if !actor.Authenticated {
		return nil, apperr.Unauthenticated("authentication required")
	}

	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.ID, titleID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, apperr.Internal("failed to create review", err)
	}
	if existing != nil {
		return nil, repository.ErrDuplicateReview()
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}

	// The unique index catches the race the pre-check cannot; the
	// repository reports it as the same duplicate error.
	if err := s.repo.Review.Create(ctx, review); err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return nil, err
		}
		s.log.Error("Failed to create review", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, apperr.Internal("failed to create review", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", titleID.String()),
		zap.String("author_id", actor.ID.String()))

	return s.toResponse(ctx, review, nil)
}

func (s *reviewService) GetByID(ctx context.Context, titleID, reviewID uuid.UUID) (*response.ReviewResponse, error) {
	review, err := s.resolve(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, review, nil)
}

func (s *reviewService) List(ctx context.Context, titleID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, titleID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list reviews", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, apperr.Internal("failed to list reviews", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to count reviews", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, apperr.Internal("failed to list reviews", err)
	}

	usernames := map[uuid.UUID]string{}
	out := make([]response.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp, err := s.toResponse(ctx, review, usernames)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

func (s *reviewService) Update(ctx context.Context, actor authz.Actor, titleID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update review validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	review, err := s.resolve(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := requireModifyOwned(actor, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, apperr.Internal("failed to update review", err)
	}

	return s.toResponse(ctx, review, nil)
}

func (s *reviewService) Delete(ctx context.Context, actor authz.Actor, titleID, reviewID uuid.UUID) error {
	review, err := s.resolve(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := requireModifyOwned(actor, review.AuthorID); err != nil {
		return err
	}

	// Comments under the review go with it (FK cascade).
	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return apperr.Internal("failed to delete review", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID.String()),
		zap.String("actor_id", actor.ID.String()))

	return nil
}

// resolve loads a review addressed through a title path. A review that
// exists under a different title is indistinguishable from a missing
// one.
func (s *reviewService) resolve(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, apperr.Internal("failed to find review", err)
	}
	if review == nil || review.TitleID != titleID {
		return nil, apperr.NotFound(fmt.Sprintf("review %s not found", reviewID))
	}

	return review, nil
}

func (s *reviewService) titleExists(ctx context.Context, titleID uuid.UUID) error {
	title, err := s.repo.Title.FindByID(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.String("title_id", titleID.String()))
		return apperr.Internal("failed to find title", err)
	}
	if title == nil {
		return apperr.NotFound(fmt.Sprintf("title %s not found", titleID))
	}
	return nil
}

func (s *reviewService) toResponse(ctx context.Context, review *entity.Review, usernames map[uuid.UUID]string) (*response.ReviewResponse, error) {
	username, err := s.authorUsername(ctx, review.AuthorID, usernames)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review, username)
	return &resp, nil
}

func (s *reviewService) authorUsername(ctx context.Context, authorID uuid.UUID, cache map[uuid.UUID]string) (string, error) {
	if cache != nil {
		if username, ok := cache[authorID]; ok {
			return username, nil
		}
	}

	author, err := s.repo.User.FindByID(ctx, authorID)
	if err != nil {
		s.log.Error("Failed to load review author", zap.Error(err), zap.String("author_id", authorID.String()))
		return "", apperr.Internal("failed to load author", err)
	}

	username := ""
	if author != nil {
		username = author.Username
	}
	if cache != nil {
		cache[authorID] = username
	}
	return username, nil
}

// requireModifyOwned distinguishes "log in first" from "not yours".
func requireModifyOwned(actor authz.Actor, ownerID uuid.UUID) error {
	if authz.CanModifyOwned(actor, ownerID) {
		return nil
	}
	if !actor.Authenticated {
		return apperr.Unauthenticated("authentication required")
	}
	return apperr.PermissionDenied("not allowed to modify this resource")
}
