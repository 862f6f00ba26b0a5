package service

import (
	"context"
	"slices"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		products:   products,
		logger:     logger.With().Str("service", "category").Logger(),
	}
}

func categoryFromInput(input *model.CategoryInput) (*model.Category, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, model.NewValidationError("title is required")
	}

	title := strings.TrimSpace(input.Title)
	s := slug.Make(title)
	if s == "" {
		return nil, model.NewValidationError("title must contain letters or digits")
	}

	return &model.Category{Title: title, Slug: s, ParentID: input.ParentID}, nil
}

// Create adds a category. The slug is derived from the title.
func (s *categoryService) Create(ctx context.Context, input *model.CategoryInput) (*model.Category, error) {
	category, err := categoryFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, storageError(err)
	}

	s.logger.Info().Int64("category_id", category.ID).Str("slug", category.Slug).Msg("category created")
	return category, nil
}

// Update renames or moves a category. A category cannot be moved below itself.
func (s *categoryService) Update(ctx context.Context, id int64, input *model.CategoryInput) (*model.Category, error) {
	category, err := categoryFromInput(input)
	if err != nil {
		return nil, err
	}
	category.ID = id

	if category.ParentID != nil {
		subtree, err := s.categories.SubtreeIDs(ctx, id)
		if err != nil {
			return nil, model.Transient(err)
		}
		if slices.Contains(subtree, *category.ParentID) {
			return nil, model.NewValidationError("a category cannot be its own ancestor")
		}
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, storageError(err)
	}

	s.logger.Info().Int64("category_id", id).Msg("category updated")
	return category, nil
}

// Get retrieves a category with every active product in its subtree.
func (s *categoryService) Get(ctx context.Context, id int64) (*model.CategoryDetail, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, model.Transient(err)
	}
	if category == nil {
		return nil, model.NewNotFoundError("category")
	}

	ids, err := s.categories.SubtreeIDs(ctx, id)
	if err != nil {
		return nil, model.Transient(err)
	}

	products, err := s.products.List(ctx, model.ProductFilter{CategoryIDs: ids, Limit: 100})
	if err != nil {
		return nil, model.Transient(err)
	}

	return &model.CategoryDetail{Category: *category, Products: products}, nil
}

// List retrieves categories.
func (s *categoryService) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error) {
	categories, err := s.categories.List(ctx, filter)
	if err != nil {
		return nil, model.Transient(err)
	}
	return categories, nil
}

// Delete removes a category. Its children become main categories.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
