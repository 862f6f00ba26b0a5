package service

import (
	"context"

	"storefront/internal/audit"
	"storefront/internal/model"
	"storefront/internal/objectstore"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const featuredLimit = 20

var (
	hundred    = decimal.NewFromInt(100)
	decimalOne = decimal.NewFromInt(1)
)

// productService implements ProductService.
type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	audit      audit.Recorder
	images     objectstore.Store
	logger     zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	recorder audit.Recorder,
	images objectstore.Store,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		audit:      recorder,
		images:     images,
		logger:     logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products matching the filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	switch filter.OrderBy {
	case "", model.OrderByNewest, model.OrderByMostSold, model.OrderByMostExpensive, model.OrderByLeastExpensive:
	default:
		return nil, model.NewValidationError("order_by must be one of newest, most_sold, most_expensive, least_expensive")
	}

	if filter.CategoryID != nil {
		ids, err := s.categories.SubtreeIDs(ctx, *filter.CategoryID)
		if err != nil {
			return nil, model.Transient(err)
		}
		if len(ids) == 0 {
			return []model.Product{}, nil
		}
		filter.CategoryIDs = ids
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, model.Transient(err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("search", filter.Search).
		Msg("retrieved products")

	return products, nil
}

// MostSold retrieves the best selling active products.
func (s *productService) MostSold(ctx context.Context) ([]model.Product, error) {
	return s.List(ctx, model.ProductFilter{OrderBy: model.OrderByMostSold, Limit: featuredLimit})
}

// HomePage retrieves active products flagged for the home page.
func (s *productService) HomePage(ctx context.Context) ([]model.Product, error) {
	return s.List(ctx, model.ProductFilter{HomePage: true, Limit: featuredLimit})
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64, withTrashed bool) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, model.Transient(err)
	}

	if product == nil || (!withTrashed && !product.IsActive()) {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.NewNotFoundError("product")
	}

	return product, nil
}

func validateProductInput(input *model.ProductInput) error {
	if input == nil {
		return model.NewValidationError("product is required")
	}
	if !input.BeforeDiscountPrice.IsPositive() {
		return model.NewValidationError("beforeDiscountPrice must be greater than zero")
	}
	if input.DiscountPercentage.IsNegative() || input.DiscountPercentage.GreaterThan(hundred) {
		return model.NewValidationError("discountPercentage must be between 0 and 100")
	}
	if input.Stock < 0 {
		return model.NewValidationError("stock must not be negative")
	}
	return nil
}

// applyInput copies the editable fields and derives the sale price.
func applyInput(p *model.Product, input *model.ProductInput) {
	p.Title = input.Title
	p.Description = input.Description
	p.Features = input.Features
	p.Image1 = input.Image1
	p.Image2 = input.Image2
	p.Image3 = input.Image3
	p.CategoryID = input.CategoryID
	p.ShowInHomePage = input.ShowInHomePage
	p.Stock = input.Stock
	p.BeforeDiscountPrice = input.BeforeDiscountPrice
	p.DiscountPercentage = input.DiscountPercentage
	p.Price = pricing.EffectivePrice(input.BeforeDiscountPrice, input.DiscountPercentage)
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &model.Product{Status: model.StatusActive}
	applyInput(product, input)

	err := inTx(ctx, s.products, s.logger, func(tx pgx.Tx) error {
		if err := s.products.Create(ctx, tx, product); err != nil {
			return err
		}
		s.audit.Record(ctx, tx, model.AuditTypeAdministrative, "product_creation", map[string]any{
			"product_id": product.ID,
			"title":      product.Title,
			"stock":      product.Stock,
			"price":      product.Price.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", product.ID).Msg("product created")
	return product, nil
}

// Update replaces a product's editable fields and records what changed.
func (s *productService) Update(ctx context.Context, id int64, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var product *model.Product
	err := inTx(ctx, s.products, s.logger, func(tx pgx.Tx) error {
		current, err := s.products.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return model.NewNotFoundError("product")
		}

		old := *current
		applyInput(current, input)

		if err := s.products.Update(ctx, tx, current); err != nil {
			return err
		}

		s.recordChanges(ctx, tx, &old, current)
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return product, nil
}

func (s *productService) recordChanges(ctx context.Context, tx pgx.Tx, old, updated *model.Product) {
	if updated.Stock != old.Stock {
		action := "add_stock"
		if updated.Stock < old.Stock {
			action = "remove_stock"
		}
		s.audit.Record(ctx, tx, model.AuditTypeInventory, action, map[string]any{
			"product_id": updated.ID,
			"old_stock":  old.Stock,
			"new_stock":  updated.Stock,
		})
	}

	if !updated.BeforeDiscountPrice.Equal(old.BeforeDiscountPrice) {
		action := "increase_price"
		if updated.BeforeDiscountPrice.LessThan(old.BeforeDiscountPrice) {
			action = "decrease_price"
		}
		s.audit.Record(ctx, tx, model.AuditTypeInventory, action, map[string]any{
			"product_id": updated.ID,
			"old_price":  old.BeforeDiscountPrice.String(),
			"new_price":  updated.BeforeDiscountPrice.String(),
		})
	}

	if !updated.DiscountPercentage.Equal(old.DiscountPercentage) {
		action := "increase_discount"
		if updated.DiscountPercentage.LessThan(old.DiscountPercentage) {
			action = "decrease_discount"
		}
		s.audit.Record(ctx, tx, model.AuditTypeInventory, action, map[string]any{
			"product_id":   updated.ID,
			"old_discount": old.DiscountPercentage.String(),
			"new_discount": updated.DiscountPercentage.String(),
		})
	}

	s.audit.Record(ctx, tx, model.AuditTypeAdministrative, "product_modification", map[string]any{
		"product_id": updated.ID,
		"title":      updated.Title,
	})
}

// SoftDelete hides a product from the catalogue.
func (s *productService) SoftDelete(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StatusDeleted, "product_soft_deleted")
}

// Restore brings a soft deleted product back into the catalogue.
func (s *productService) Restore(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StatusActive, "product_restored")
}

func (s *productService) setStatus(ctx context.Context, id int64, status model.Status, action string) error {
	err := inTx(ctx, s.products, s.logger, func(tx pgx.Tx) error {
		current, err := s.products.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return model.NewNotFoundError("product")
		}
		if current.Status == status {
			return nil
		}

		if err := s.products.SetStatus(ctx, tx, id, status); err != nil {
			return err
		}
		s.audit.Record(ctx, tx, model.AuditTypeStatus, action, map[string]any{
			"product_id": id,
			"old_status": string(current.Status),
			"new_status": string(status),
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("product_id", id).Str("status", string(status)).Msg("product status changed")
	return nil
}

// Destroy permanently removes a product, then its images. Image removal
// failures are logged and do not undo the deletion.
func (s *productService) Destroy(ctx context.Context, id int64) error {
	var keys []string
	err := inTx(ctx, s.products, s.logger, func(tx pgx.Tx) error {
		current, err := s.products.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return model.NewNotFoundError("product")
		}

		if err := s.products.Delete(ctx, tx, id); err != nil {
			return err
		}
		keys = current.ImageKeys()

		s.audit.Record(ctx, tx, model.AuditTypeAdministrative, "product_deletion", map[string]any{
			"product_id": id,
			"title":      current.Title,
			"images":     keys,
		})
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := s.images.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Int64("product_id", id).Str("key", key).Msg("failed to delete product image")
		}
	}

	s.logger.Info().Int64("product_id", id).Int("images", len(keys)).Msg("product destroyed")
	return nil
}
