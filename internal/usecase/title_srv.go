package usecase

import (
	"context"
	"fmt"
	"math"
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

type TitleService interface {
	Create(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error)
	List(ctx context.Context, filter request.TitleListFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	Update(ctx context.Context, id uuid.UUID, req *request.UpdateTitleRequest) (*response.TitleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) Create(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create title validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}
	if category != nil {
		title.CategoryID = &category.ID
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs(genres)); err != nil {
		s.log.Error("Failed to create title", zap.Error(err), zap.String("name", req.Name))
		return nil, apperr.Internal("failed to create title", err)
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name))

	resp := response.TitleToResponse(title, nil, genres, category)
	return &resp, nil
}

func (s *titleService) GetByID(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error) {
	title, err := s.findTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, title)
}

func (s *titleService) List(ctx context.Context, filter request.TitleListFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	repoFilter := repository.TitleFilter{
		CategorySlug: filter.Category,
		GenreSlug:    filter.Genre,
		Name:         filter.Name,
		Year:         filter.Year,
	}

	titles, err := s.repo.Title.FindAll(ctx, repoFilter, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list titles", zap.Error(err))
		return nil, apperr.Internal("failed to list titles", err)
	}

	total, err := s.repo.Title.CountAll(ctx, repoFilter)
	if err != nil {
		s.log.Error("Failed to count titles", zap.Error(err))
		return nil, apperr.Internal("failed to list titles", err)
	}

	out := make([]response.TitleResponse, 0, len(titles))
	for _, title := range titles {
		resp, err := s.expand(ctx, title)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

func (s *titleService) Update(ctx context.Context, id uuid.UUID, req *request.UpdateTitleRequest) (*response.TitleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update title validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	title, err := s.findTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}
	var genres []*entity.Genre
	if req.Genre != nil {
		genres, err = s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
	}
	title.UpdatedAt = time.Now()

	// Row and genre set commit together or not at all.
	if req.Genre != nil {
		err = s.repo.Title.UpdateWithGenres(ctx, title, genreIDs(genres))
	} else {
		err = s.repo.Title.Update(ctx, title)
	}
	if err != nil {
		s.log.Error("Failed to update title", zap.Error(err), zap.String("title_id", id.String()))
		return nil, apperr.Internal("failed to update title", err)
	}

	return s.expand(ctx, title)
}

func (s *titleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findTitle(ctx, id); err != nil {
		return err
	}

	// Reviews and their comments go with the title (FK cascade).
	if err := s.repo.Title.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete title", zap.Error(err), zap.String("title_id", id.String()))
		return apperr.Internal("failed to delete title", err)
	}

	s.log.Info("Title deleted", zap.String("title_id", id.String()))
	return nil
}

func (s *titleService) findTitle(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.String("title_id", id.String()))
		return nil, apperr.Internal("failed to find title", err)
	}
	if title == nil {
		return nil, apperr.NotFound(fmt.Sprintf("title %s not found", id))
	}
	return title, nil
}

// expand assembles the full response shape: genres, category and the
// derived rating, which is always recomputed from the stored reviews.
func (s *titleService) expand(ctx context.Context, title *entity.Title) (*response.TitleResponse, error) {
	genres, err := s.repo.Genre.FindByTitleID(ctx, title.ID)
	if err != nil {
		s.log.Error("Failed to load title genres", zap.Error(err), zap.String("title_id", title.ID.String()))
		return nil, apperr.Internal("failed to load title", err)
	}

	var category *entity.Category
	if title.CategoryID != nil {
		category, err = s.findCategoryByID(ctx, *title.CategoryID)
		if err != nil {
			return nil, err
		}
	}

	rating, err := s.rating(ctx, title.ID)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title, rating, genres, category)
	return &resp, nil
}

func (s *titleService) rating(ctx context.Context, titleID uuid.UUID) (*float64, error) {
	avg, count, err := s.repo.Review.ScoreStats(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to compute rating", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, apperr.Internal("failed to compute rating", err)
	}
	if count == 0 {
		return nil, nil
	}

	rounded := math.Round(avg*10) / 10
	return &rounded, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*entity.Category, error) {
	if slug == nil {
		return nil, nil
	}

	category, err := s.repo.Category.FindBySlug(ctx, *slug)
	if err != nil {
		s.log.Error("Failed to resolve category", zap.Error(err), zap.String("slug", *slug))
		return nil, apperr.Internal("failed to resolve category", err)
	}
	if category == nil {
		return nil, apperr.ValidationFields("validation failed",
			map[string]string{"category": fmt.Sprintf("category %s does not exist", *slug)})
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, slugs)
	if err != nil {
		s.log.Error("Failed to resolve genres", zap.Error(err))
		return nil, apperr.Internal("failed to resolve genres", err)
	}

	found := make(map[string]bool, len(genres))
	for _, genre := range genres {
		found[genre.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, apperr.ValidationFields("validation failed",
				map[string]string{"genre": fmt.Sprintf("genre %s does not exist", slug)})
		}
	}

	return genres, nil
}

func (s *titleService) findCategoryByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load category", zap.Error(err), zap.String("category_id", id.String()))
		return nil, apperr.Internal("failed to load category", err)
	}
	return category, nil
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return apperr.ValidationFields("validation failed",
			map[string]string{"year": "year cannot be in the future"})
	}
	return nil
}

func genreIDs(genres []*entity.Genre) []uuid.UUID {
	ids := make([]uuid.UUID, len(genres))
	for i, genre := range genres {
		ids[i] = genre.ID
	}
	return ids
}
