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

type CommentService interface {
	Create(ctx context.Context, actor authz.Actor, titleID, reviewID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	GetByID(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*response.CommentResponse, error)
	List(ctx context.Context, titleID, reviewID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	Update(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID uuid.UUID, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	Delete(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID uuid.UUID) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) Create(ctx context.Context, actor authz.Actor, titleID, reviewID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create comment validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	if !actor.Authenticated {
		return nil, apperr.Unauthenticated("authentication required")
	}

	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.log.Error("Failed to create comment", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, apperr.Internal("failed to create comment", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", reviewID.String()),
		zap.String("author_id", actor.ID.String()))

	return s.toResponse(ctx, comment, nil)
}

func (s *commentService) GetByID(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*response.CommentResponse, error) {
	comment, err := s.resolveComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, comment, nil)
}

func (s *commentService) List(ctx context.Context, titleID, reviewID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, reviewID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list comments", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, apperr.Internal("failed to list comments", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to count comments", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, apperr.Internal("failed to list comments", err)
	}

	usernames := map[uuid.UUID]string{}
	out := make([]response.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		resp, err := s.toResponse(ctx, comment, usernames)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

func (s *commentService) Update(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID uuid.UUID, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update comment validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	comment, err := s.resolveComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := requireModifyOwned(actor, comment.AuthorID); err != nil {
		return nil, err
	}

	comment.Text = req.Text

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		s.log.Error("Failed to update comment", zap.Error(err), zap.String("comment_id", commentID.String()))
		return nil, apperr.Internal("failed to update comment", err)
	}

	return s.toResponse(ctx, comment, nil)
}

func (s *commentService) Delete(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID uuid.UUID) error {
	comment, err := s.resolveComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := requireModifyOwned(actor, comment.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, commentID); err != nil {
		s.log.Error("Failed to delete comment", zap.Error(err), zap.String("comment_id", commentID.String()))
		return apperr.Internal("failed to delete comment", err)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", commentID.String()),
		zap.String("actor_id", actor.ID.String()))

	return nil
}

// resolveReview checks the title→review leg of the path. A missing
// title or review is a 404; a review that exists but hangs off another
// title is a mismatch the caller should fix, so it is a validation
// error instead.
func (s *commentService) resolveReview(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error) {
	title, err := s.repo.Title.FindByID(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, apperr.Internal("failed to find title", err)
	}
	if title == nil {
		return nil, apperr.NotFound(fmt.Sprintf("title %s not found", titleID))
	}

	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, apperr.Internal("failed to find review", err)
	}
	if review == nil {
		return nil, apperr.NotFound(fmt.Sprintf("review %s not found", reviewID))
	}
	if review.TitleID != titleID {
		return nil, apperr.Validation("review does not belong to this title")
	}

	return review, nil
}

func (s *commentService) resolveComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*entity.Comment, error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		s.log.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", commentID.String()))
		return nil, apperr.Internal("failed to find comment", err)
	}
	if comment == nil {
		return nil, apperr.NotFound(fmt.Sprintf("comment %s not found", commentID))
	}
	if comment.ReviewID != reviewID {
		return nil, apperr.Validation("comment does not belong to this review")
	}

	return comment, nil
}

func (s *commentService) toResponse(ctx context.Context, comment *entity.Comment, usernames map[uuid.UUID]string) (*response.CommentResponse, error) {
	username := ""
	if usernames != nil {
		if cached, ok := usernames[comment.AuthorID]; ok {
			resp := response.CommentToResponse(comment, cached)
			return &resp, nil
		}
	}

	author, err := s.repo.User.FindByID(ctx, comment.AuthorID)
	if err != nil {
		s.log.Error("Failed to load comment author", zap.Error(err), zap.String("author_id", comment.AuthorID.String()))
		return nil, apperr.Internal("failed to load author", err)
	}
	if author != nil {
		username = author.Username
	}
	if usernames != nil {
		usernames[comment.AuthorID] = username
	}

	resp := response.CommentToResponse(comment, username)
	return &resp, nil
}
