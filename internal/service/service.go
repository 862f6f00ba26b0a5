package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves products matching the filter. A category filter includes
	// every descendant category.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// MostSold retrieves the best selling active products.
	MostSold(ctx context.Context) ([]model.Product, error)

	// HomePage retrieves active products flagged for the home page.
	HomePage(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a product. Soft deleted products are only returned when withTrashed is set.
	GetByID(ctx context.Context, id int64, withTrashed bool) (*model.Product, error)

	Create(ctx context.Context, input *model.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id int64, input *model.ProductInput) (*model.Product, error)

	// SoftDelete hides a product from the catalogue; Restore brings it back.
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error

	// Destroy permanently removes a product and its images.
	Destroy(ctx context.Context, id int64) error
}

// CategoryService defines operations for the category tree.
type CategoryService interface {
	Create(ctx context.Context, input *model.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id int64, input *model.CategoryInput) (*model.Category, error)

	// Get retrieves a category with every active product in its subtree.
	Get(ctx context.Context, id int64) (*model.CategoryDetail, error)

	List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error)
	Delete(ctx context.Context, id int64) error
}

// CartService defines operations on the caller's cart.
type CartService interface {
	// Get prices the cart, previewing the discount code when one is given.
	Get(ctx context.Context, userID int64, discountCode *string) (*model.Cart, error)

	// AddItem changes a line by a signed quantity. A line that drops below one is removed.
	AddItem(ctx context.Context, userID int64, req *model.CartItemRequest) (*model.Cart, error)

	RemoveItem(ctx context.Context, userID, productID int64) error
}

// DiscountService defines operations for discount code administration.
type DiscountService interface {
	Create(ctx context.Context, input *model.DiscountInput) (*model.Discount, error)
	Update(ctx context.Context, id int64, input *model.DiscountInput) (*model.Discount, error)
	GetByID(ctx context.Context, id int64) (*model.Discount, error)

	// GetByCode retrieves a code that can currently be applied.
	GetByCode(ctx context.Context, code string) (*model.Discount, error)

	List(ctx context.Context, status model.Status) ([]model.Discount, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// AddressService defines operations on the caller's shipping addresses.
type AddressService interface {
	Create(ctx context.Context, userID int64, input *model.AddressInput) (*model.Address, error)
	List(ctx context.Context, userID int64) ([]model.Address, error)
	Update(ctx context.Context, userID, id int64, input *model.AddressInput) (*model.Address, error)
	Delete(ctx context.Context, userID, id int64) error
}

// WalletService defines wallet read and adjustment operations.
type WalletService interface {
	// Get returns the balance with the most recent history entries.
	Get(ctx context.Context, userID int64) (*model.Wallet, error)

	History(ctx context.Context, userID int64, limit, offset int) ([]model.WalletHistory, error)

	// Adjust credits a positive amount or debits a negative one.
	Adjust(ctx context.Context, userID int64, amount decimal.Decimal) (*model.Wallet, error)
}

// OrderService defines operations for order submission and management.
type OrderService interface {
	// Submit turns the caller's cart into an order in a single transaction.
	Submit(ctx context.Context, userID int64, req *model.SubmitOrderRequest) (*model.Order, error)

	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error)
	GetForUser(ctx context.Context, userID int64, id uuid.UUID) (*model.Order, error)

	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// UpdateStatus moves an order from processing to shipped.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// AuditService defines read access to the audit log.
type AuditService interface {
	List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error)
	GetByID(ctx context.Context, id int64) (*model.AuditEntry, error)
}
