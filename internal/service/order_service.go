package service

import (
	"context"
	"strings"
	"time"

	"storefront/internal/audit"
	"storefront/internal/discount"
	"storefront/internal/inventory"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/wallet"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	carts     repository.CartRepository
	addresses repository.AddressRepository
	discounts discount.Resolver
	inventory inventory.Manager
	ledger    wallet.Ledger
	audit     audit.Recorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	carts repository.CartRepository,
	addresses repository.AddressRepository,
	discounts discount.Resolver,
	inventory inventory.Manager,
	ledger wallet.Ledger,
	recorder audit.Recorder,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		users:     users,
		carts:     carts,
		addresses: addresses,
		discounts: discounts,
		inventory: inventory,
		ledger:    ledger,
		audit:     recorder,
		logger:    logger.With().Str("service", "order").Logger(),
		now:       time.Now,
	}
}

// Submit turns the caller's cart into an order in a single transaction.
// Every check runs before the first write; any failure rolls the whole
// transaction back so stock, wallet and cart are left untouched.
func (s *orderService) Submit(ctx context.Context, userID int64, req *model.SubmitOrderRequest) (order *model.Order, err error) {
	if req == nil {
		return nil, model.NewValidationError("order request is required")
	}

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return nil, model.Transient(err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, model.Transient(err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user")
	}

	lines, err := s.carts.LockLines(ctx, tx, userID)
	if err != nil {
		return nil, model.Transient(err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	if err := s.inventory.Reserve(lines); err != nil {
		s.logger.Info().Err(err).Int64("user_id", userID).Msg("order rejected: stock check failed")
		return nil, err
	}

	subtotal, err := pricing.Subtotal(lines)
	if err != nil {
		return nil, err
	}

	now := s.now()

	var applied *model.Discount
	if req.DiscountCode != nil && strings.TrimSpace(*req.DiscountCode) != "" {
		applied, err = s.discounts.ResolveApplicable(ctx, *req.DiscountCode, now)
		if err != nil {
			s.logger.Info().Err(err).Str("code", *req.DiscountCode).Msg("order rejected: discount not applicable")
			return nil, err
		}
	}

	total := pricing.ApplyDiscount(subtotal, applied)

	method := req.PaymentMethod
	if method == "" {
		method = model.PaymentMethodWallet
	}
	if !method.Valid() {
		return nil, model.ErrInvalidPaymentMethod
	}
	if method == model.PaymentMethodWallet && user.WalletBalance.LessThan(total) {
		s.logger.Info().
			Int64("user_id", userID).
			Str("balance", user.WalletBalance.String()).
			Str("total", total.String()).
			Msg("order rejected: insufficient wallet balance")
		return nil, model.ErrInsufficientFunds
	}

	address, err := s.addresses.GetByID(ctx, req.AddressID)
	if err != nil {
		return nil, model.Transient(err)
	}
	if address == nil || address.UserID != userID {
		return nil, model.ErrInvalidAddress
	}

	order = &model.Order{
		ID:                   uuid.New(),
		UserID:               userID,
		Address:              *address,
		PaymentMethod:        method,
		Status:               model.OrderStatusProcessing,
		Discount:             applied,
		BeforeDiscountAmount: subtotal,
		TotalAmount:          total,
		SubmittedAt:          now,
		UpdatedAt:            now,
	}
	order.Items = snapshotItems(order.ID, lines)

	if err := s.orders.CreateOrder(ctx, tx, order); err != nil {
		return nil, model.Transient(err)
	}
	if err := s.orders.CreateOrderItems(ctx, tx, order.Items); err != nil {
		return nil, model.Transient(err)
	}

	if err := s.inventory.Commit(ctx, tx, lines); err != nil {
		return nil, storageError(err)
	}

	if method == model.PaymentMethodWallet {
		if _, err := s.ledger.Debit(ctx, tx, user, total); err != nil {
			return nil, storageError(err)
		}
	}

	if err := s.carts.Clear(ctx, tx, userID); err != nil {
		return nil, model.Transient(err)
	}

	s.audit.Record(ctx, tx, model.AuditTypeOrder, "order_submitted", map[string]any{
		"order_id":       order.ID.String(),
		"user_id":        userID,
		"payment_method": string(method),
		"total_amount":   total.String(),
		"item_count":     len(order.Items),
	})

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, model.Transient(err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("user_id", userID).
		Int("item_count", len(order.Items)).
		Str("total", total.String()).
		Msg("order submitted successfully")

	return order, nil
}

func snapshotItems(orderID uuid.UUID, lines []model.CartLine) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		p := line.Product
		items = append(items, model.OrderItem{
			ID:                  uuid.New(),
			OrderID:             orderID,
			ProductID:           p.ID,
			Title:               p.Title,
			Image1:              p.Image1,
			BeforeDiscountPrice: p.BeforeDiscountPrice,
			DiscountPercentage:  p.DiscountPercentage,
			Price:               p.Price,
			Quantity:            line.Quantity,
			LineTotal:           pricing.LineTotal(p.Price, line.Quantity),
		})
	}
	return items
}

// storageError keeps domain errors raised during the write phase and marks
// everything else as retryable.
func storageError(err error) error {
	if _, ok := model.AsDomainError(err); ok {
		return err
	}
	return model.Transient(err)
}

// ListForUser retrieves the caller's orders, newest first.
func (s *orderService) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error) {
	orders, err := s.orders.List(ctx, model.OrderFilter{UserID: &userID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, model.Transient(err)
	}
	return orders, nil
}

// GetForUser retrieves one of the caller's orders. Orders of other users are reported as missing.
func (s *orderService) GetForUser(ctx context.Context, userID int64, id uuid.UUID) (*model.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		s.logger.Warn().Int64("user_id", userID).Str("order_id", id.String()).Msg("order belongs to another user")
		return nil, model.NewNotFoundError("order")
	}
	return order, nil
}

// List retrieves orders for administrators.
func (s *orderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, model.Transient(err)
	}
	return orders, nil
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, model.Transient(err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.NewNotFoundError("order")
	}

	return order, nil
}

// UpdateStatus moves an order from processing to shipped. Setting the
// current status again is a no-op; moving back to processing is rejected.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	if err := s.transitionStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *orderService) transitionStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (err error) {
	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return model.Transient(err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	current, err := s.orders.GetStatusForUpdate(ctx, tx, id)
	if err != nil {
		return model.Transient(err)
	}
	if current == nil {
		return model.NewNotFoundError("order")
	}

	if *current == status {
		return tx.Commit(ctx)
	}
	if *current == model.OrderStatusShipped {
		return model.ErrInvalidStatus
	}

	if err := s.orders.UpdateStatus(ctx, tx, id, status); err != nil {
		return storageError(err)
	}

	s.audit.Record(ctx, tx, model.AuditTypeOrder, "order_status_changed", map[string]any{
		"order_id":   id.String(),
		"old_status": string(*current),
		"new_status": string(status),
	})

	if err := tx.Commit(ctx); err != nil {
		return model.Transient(err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("old_status", string(*current)).
		Str("status", string(status)).
		Msg("order status updated")

	return nil
}
