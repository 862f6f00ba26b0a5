package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Transactor starts database transactions.
type Transactor interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// StockChange is the state of a product row after a sale was applied.
type StockChange struct {
	ProductID int64
	Quantity  int
	Stock     int
	Status    model.Status
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	Transactor

	// List retrieves products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID regardless of status.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetForUpdate retrieves and locks a product row within the provided transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error)

	// Create inserts a new product within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, product *model.Product) error

	// Update replaces a product's editable fields within the provided transaction.
	Update(ctx context.Context, tx pgx.Tx, product *model.Product) error

	// SetStatus soft deletes or restores a product within the provided transaction.
	SetStatus(ctx context.Context, tx pgx.Tx, id int64, status model.Status) error

	// Delete permanently removes a product within the provided transaction.
	Delete(ctx context.Context, tx pgx.Tx, id int64) error

	// ApplySales decrements stock and increments sold count for each line.
	// A product whose stock drops below one is soft deleted.
	ApplySales(ctx context.Context, tx pgx.Tx, lines []model.CartLine) ([]StockChange, error)
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error)
	Delete(ctx context.Context, id int64) error

	// SubtreeIDs returns the category id and the ids of all its descendants.
	SubtreeIDs(ctx context.Context, id int64) ([]int64, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetLines retrieves the user's cart joined with product details.
	GetLines(ctx context.Context, userID int64) ([]model.CartLine, error)

	// LockLines retrieves the user's cart and locks both cart and product rows,
	// in ascending product id order, within the provided transaction.
	LockLines(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartLine, error)

	// GetItem retrieves a single cart row.
	GetItem(ctx context.Context, userID, productID int64) (*model.CartItem, error)

	// SetQuantity inserts or updates a cart row.
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) error

	// DeleteItem removes a single cart row.
	DeleteItem(ctx context.Context, userID, productID int64) error

	// Clear removes every cart row of the user within the provided transaction.
	Clear(ctx context.Context, tx pgx.Tx, userID int64) error
}

// DiscountRepository defines the interface for discount data access operations.
type DiscountRepository interface {
	Create(ctx context.Context, discount *model.Discount) error
	Update(ctx context.Context, discount *model.Discount) error
	GetByID(ctx context.Context, id int64) (*model.Discount, error)

	// GetByCode retrieves a discount by code, including soft deleted ones.
	GetByCode(ctx context.Context, code string) (*model.Discount, error)

	List(ctx context.Context, status model.Status) ([]model.Discount, error)
	SetStatus(ctx context.Context, id int64, status model.Status) error
	Delete(ctx context.Context, id int64) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	Transactor

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders matching the filter, newest first, with their items.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// GetStatusForUpdate locks an order row and returns its status.
	GetStatusForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.OrderStatus, error)

	// UpdateStatus sets the status of an order within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error
}

// UserRepository defines the interface for user and wallet data access operations.
type UserRepository interface {
	Transactor

	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetForUpdate retrieves and locks a user row within the provided transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.User, error)

	// UpdateWalletBalance sets the wallet balance within the provided transaction.
	UpdateWalletBalance(ctx context.Context, tx pgx.Tx, id int64, balance decimal.Decimal) error

	// CreateHistory appends a wallet history row within the provided transaction.
	CreateHistory(ctx context.Context, tx pgx.Tx, entry *model.WalletHistory) error

	// ListHistory retrieves wallet history for a user, newest first.
	ListHistory(ctx context.Context, userID int64, limit, offset int) ([]model.WalletHistory, error)
}

// AddressRepository defines the interface for address data access operations.
type AddressRepository interface {
	Transactor

	Create(ctx context.Context, tx pgx.Tx, address *model.Address) error
	Update(ctx context.Context, tx pgx.Tx, address *model.Address) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Address, error)
}

// AuditRepository defines the interface for audit log data access operations.
type AuditRepository interface {
	// Create inserts an audit entry using the given transaction or savepoint.
	Create(ctx context.Context, tx pgx.Tx, entry *model.AuditEntry) error

	GetByID(ctx context.Context, id int64) (*model.AuditEntry, error)
	List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error)
}
