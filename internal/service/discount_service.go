package service

import (
	"context"
	"strings"
	"time"

	"storefront/internal/discount"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// discountService implements DiscountService.
type discountService struct {
	discounts repository.DiscountRepository
	resolver  discount.Resolver
	logger    zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(discounts repository.DiscountRepository, resolver discount.Resolver, logger zerolog.Logger) DiscountService {
	return &discountService{
		discounts: discounts,
		resolver:  resolver,
		logger:    logger.With().Str("service", "discount").Logger(),
	}
}

func applyDiscountInput(d *model.Discount, input *model.DiscountInput) error {
	if input == nil || strings.TrimSpace(input.Code) == "" {
		return model.NewValidationError("code is required")
	}
	if input.Percentage.LessThan(decimalOne) || input.Percentage.GreaterThan(hundred) {
		return model.NewValidationError("percentage must be between 1 and 100")
	}
	if input.MaxAmount != nil && input.MaxAmount.IsNegative() {
		return model.NewValidationError("maxAmount must not be negative")
	}

	d.Code = strings.TrimSpace(input.Code)
	d.Percentage = input.Percentage
	d.MaxAmount = input.MaxAmount
	d.ExpiresAt = input.ExpiresAt
	return nil
}

// Create adds a discount code.
func (s *discountService) Create(ctx context.Context, input *model.DiscountInput) (*model.Discount, error) {
	d := &model.Discount{}
	if err := applyDiscountInput(d, input); err != nil {
		return nil, err
	}

	if err := s.discounts.Create(ctx, d); err != nil {
		return nil, storageError(err)
	}

	s.logger.Info().Int64("discount_id", d.ID).Str("code", d.Code).Msg("discount created")
	return d, nil
}

// Update replaces a discount's code, percentage, cap and expiry.
func (s *discountService) Update(ctx context.Context, id int64, input *model.DiscountInput) (*model.Discount, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDiscountInput(d, input); err != nil {
		return nil, err
	}

	if err := s.discounts.Update(ctx, d); err != nil {
		return nil, storageError(err)
	}

	s.logger.Info().Int64("discount_id", id).Msg("discount updated")
	return d, nil
}

// GetByID retrieves a discount regardless of status.
func (s *discountService) GetByID(ctx context.Context, id int64) (*model.Discount, error) {
	d, err := s.discounts.GetByID(ctx, id)
	if err != nil {
		return nil, model.Transient(err)
	}
	if d == nil {
		return nil, model.ErrDiscountNotFound
	}
	return d, nil
}

// GetByCode retrieves a code that can currently be applied.
func (s *discountService) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	return s.resolver.ResolveApplicable(ctx, code, time.Now())
}

// List retrieves active or soft deleted discounts.
func (s *discountService) List(ctx context.Context, status model.Status) ([]model.Discount, error) {
	if status != "" && status != model.StatusActive && status != model.StatusDeleted {
		return nil, model.NewValidationError("status must be active or deleted")
	}

	discounts, err := s.discounts.List(ctx, status)
	if err != nil {
		return nil, model.Transient(err)
	}
	return discounts, nil
}

// SoftDelete disables a discount code.
func (s *discountService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.discounts.SetStatus(ctx, id, model.StatusDeleted); err != nil {
		return storageError(err)
	}
	s.logger.Info().Int64("discount_id", id).Msg("discount soft deleted")
	return nil
}

// Restore re-enables a soft deleted discount code.
func (s *discountService) Restore(ctx context.Context, id int64) error {
	if err := s.discounts.SetStatus(ctx, id, model.StatusActive); err != nil {
		return storageError(err)
	}
	s.logger.Info().Int64("discount_id", id).Msg("discount restored")
	return nil
}

// Delete permanently removes a discount code. Orders keep their snapshot.
func (s *discountService) Delete(ctx context.Context, id int64) error {
	if err := s.discounts.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	s.logger.Info().Int64("discount_id", id).Msg("discount deleted")
	return nil
}
