package service

import (
	"context"
	"strings"
	"time"

	"storefront/internal/discount"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	carts     repository.CartRepository
	products  repository.ProductRepository
	discounts discount.Resolver
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	discounts discount.Resolver,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		carts:     carts,
		products:  products,
		discounts: discounts,
		logger:    logger.With().Str("service", "cart").Logger(),
		now:       time.Now,
	}
}

// Get prices the cart. Lines whose product is no longer sold are listed but
// left out of the totals.
func (s *cartService) Get(ctx context.Context, userID int64, discountCode *string) (*model.Cart, error) {
	lines, err := s.carts.GetLines(ctx, userID)
	if err != nil {
		return nil, model.Transient(err)
	}

	var applied *model.Discount
	if discountCode != nil && strings.TrimSpace(*discountCode) != "" {
		applied, err = s.discounts.ResolveApplicable(ctx, *discountCode, s.now())
		if err != nil {
			return nil, err
		}
	}

	sellable := make([]model.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Product != nil && line.Product.IsActive() {
			sellable = append(sellable, line)
		}
	}

	totals, err := pricing.Calculate(sellable, applied)
	if err != nil {
		return nil, err
	}

	return &model.Cart{
		Lines:          lines,
		Discount:       applied,
		BeforeDiscount: totals.BeforeDiscount,
		Total:          totals.Total,
	}, nil
}

// AddItem changes a line by a signed quantity. The resulting quantity may
// not exceed the product's stock; a line that drops below one is removed.
func (s *cartService) AddItem(ctx context.Context, userID int64, req *model.CartItemRequest) (*model.Cart, error) {
	if req == nil || req.Quantity == 0 {
		return nil, model.NewValidationError("quantity must not be zero")
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, model.Transient(err)
	}
	if product == nil {
		return nil, model.NewNotFoundError("product")
	}

	item, err := s.carts.GetItem(ctx, userID, req.ProductID)
	if err != nil {
		return nil, model.Transient(err)
	}

	current := 0
	if item != nil {
		current = item.Quantity
	}
	quantity := current + req.Quantity

	switch {
	case quantity < 1:
		if item != nil {
			if err := s.carts.DeleteItem(ctx, userID, req.ProductID); err != nil {
				return nil, storageError(err)
			}
		}
	case !product.IsActive():
		return nil, model.NewProductUnavailableError(product.ID)
	case quantity > product.Stock:
		s.logger.Debug().
			Int64("user_id", userID).
			Int64("product_id", product.ID).
			Int("quantity", quantity).
			Int("stock", product.Stock).
			Msg("cart quantity exceeds stock")
		return nil, model.ErrInvalidQuantity
	default:
		if err := s.carts.SetQuantity(ctx, userID, req.ProductID, quantity); err != nil {
			return nil, storageError(err)
		}
	}

	return s.Get(ctx, userID, nil)
}

// RemoveItem deletes a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	if err := s.carts.DeleteItem(ctx, userID, productID); err != nil {
		return storageError(err)
	}
	return nil
}
