package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/apperr"
	"content-review/internal/data/entity"
	"content-review/internal/data/repository"
	"content-review/internal/dto/request"
	"content-review/internal/dto/response"
	"content-review/pkg/utils"
)

type GenreService interface {
	Create(ctx context.Context, req *request.CreateGenreRequest) (*response.GenreResponse, error)
	List(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	genres repository.GenreRepository
	log    *zap.Logger
}

func NewGenreService(genres repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		genres: genres,
		log:    log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) Create(ctx context.Context, req *request.CreateGenreRequest) (*response.GenreResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create genre validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.genres.Create(ctx, genre); err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return nil, err
		}
		s.log.Error("Failed to create genre", zap.Error(err), zap.String("slug", req.Slug))
		return nil, apperr.Internal("failed to create genre", err)
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) List(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	genres, err := s.genres.FindAll(ctx, search, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list genres", zap.Error(err))
		return nil, apperr.Internal("failed to list genres", err)
	}

	total, err := s.genres.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count genres", zap.Error(err))
		return nil, apperr.Internal("failed to list genres", err)
	}

	out := make([]response.GenreResponse, len(genres))
	for i, genre := range genres {
		out[i] = response.GenreToResponse(genre)
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	genre, err := s.genres.FindBySlug(ctx, slug)
	if err != nil {
		s.log.Error("Failed to find genre", zap.Error(err), zap.String("slug", slug))
		return apperr.Internal("failed to find genre", err)
	}
	if genre == nil {
		return apperr.NotFound(fmt.Sprintf("genre %s not found", slug))
	}

	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		s.log.Error("Failed to delete genre", zap.Error(err), zap.String("slug", slug))
		return apperr.Internal("failed to delete genre", err)
	}

	s.log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}
