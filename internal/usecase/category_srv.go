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

type CategoryService interface {
	Create(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error)
	List(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	log        *zap.Logger
}

func NewCategoryService(categories repository.CategoryRepository, log *zap.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		log:        log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) Create(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create category validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return nil, err
		}
		s.log.Error("Failed to create category", zap.Error(err), zap.String("slug", req.Slug))
		return nil, apperr.Internal("failed to create category", err)
	}

	s.log.Info("Category created", zap.String("slug", category.Slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error) {
	categories, err := s.categories.FindAll(ctx, search, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list categories", zap.Error(err))
		return nil, apperr.Internal("failed to list categories", err)
	}

	total, err := s.categories.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count categories", zap.Error(err))
		return nil, apperr.Internal("failed to list categories", err)
	}

	out := make([]response.CategoryResponse, len(categories))
	for i, category := range categories {
		out[i] = response.CategoryToResponse(category)
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		s.log.Error("Failed to find category", zap.Error(err), zap.String("slug", slug))
		return apperr.Internal("failed to find category", err)
	}
	if category == nil {
		return apperr.NotFound(fmt.Sprintf("category %s not found", slug))
	}

	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		s.log.Error("Failed to delete category", zap.Error(err), zap.String("slug", slug))
		return apperr.Internal("failed to delete category", err)
	}

	s.log.Info("Category deleted", zap.String("slug", slug))
	return nil
}
