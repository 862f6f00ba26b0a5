// Package mocks holds testify mocks shared by the service and component tests.
package mocks

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Tx is a minimal mock implementation of pgx.Tx.
type Tx struct {
	mock.Mock
	Committed  bool
	RolledBack bool
}

func (m *Tx) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Tx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.Committed = true
	return args.Error(0)
}

func (m *Tx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.RolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx; repositories are mocked so these are never reached.
func (m *Tx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *Tx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *Tx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *Tx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *Tx) Conn() *pgx.Conn                                               { return nil }

func txResult(args mock.Arguments) (pgx.Tx, error) {
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProductRepository mocks repository.ProductRepository.
type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return txResult(m.Called(ctx))
}

func (m *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *ProductRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *ProductRepository) Create(ctx context.Context, tx pgx.Tx, product *model.Product) error {
	return m.Called(ctx, tx, product).Error(0)
}

func (m *ProductRepository) Update(ctx context.Context, tx pgx.Tx, product *model.Product) error {
	return m.Called(ctx, tx, product).Error(0)
}

func (m *ProductRepository) SetStatus(ctx context.Context, tx pgx.Tx, id int64, status model.Status) error {
	return m.Called(ctx, tx, id, status).Error(0)
}

func (m *ProductRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *ProductRepository) ApplySales(ctx context.Context, tx pgx.Tx, lines []model.CartLine) ([]repository.StockChange, error) {
	args := m.Called(ctx, tx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StockChange), args.Error(1)
}

// CategoryRepository mocks repository.CategoryRepository.
type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *CategoryRepository) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CategoryRepository) SubtreeIDs(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// CartRepository mocks repository.CartRepository.
type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *CartRepository) LockLines(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *CartRepository) GetItem(ctx context.Context, userID, productID int64) (*model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *CartRepository) SetQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *CartRepository) DeleteItem(ctx context.Context, userID, productID int64) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *CartRepository) Clear(ctx context.Context, tx pgx.Tx, userID int64) error {
	return m.Called(ctx, tx, userID).Error(0)
}

// DiscountRepository mocks repository.DiscountRepository.
type DiscountRepository struct {
	mock.Mock
}

func (m *DiscountRepository) Create(ctx context.Context, discount *model.Discount) error {
	return m.Called(ctx, discount).Error(0)
}

func (m *DiscountRepository) Update(ctx context.Context, discount *model.Discount) error {
	return m.Called(ctx, discount).Error(0)
}

func (m *DiscountRepository) GetByID(ctx context.Context, id int64) (*model.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *DiscountRepository) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *DiscountRepository) List(ctx context.Context, status model.Status) ([]model.Discount, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Discount), args.Error(1)
}

func (m *DiscountRepository) SetStatus(ctx context.Context, id int64, status model.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *DiscountRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// OrderRepository mocks repository.OrderRepository.
type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return txResult(m.Called(ctx))
}

func (m *OrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *OrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	return m.Called(ctx, tx, items).Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *OrderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *OrderRepository) GetStatusForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.OrderStatus, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderStatus), args.Error(1)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error {
	return m.Called(ctx, tx, id, status).Error(0)
}

// UserRepository mocks repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return txResult(m.Called(ctx))
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) UpdateWalletBalance(ctx context.Context, tx pgx.Tx, id int64, balance decimal.Decimal) error {
	return m.Called(ctx, tx, id, balance).Error(0)
}

func (m *UserRepository) CreateHistory(ctx context.Context, tx pgx.Tx, entry *model.WalletHistory) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *UserRepository) ListHistory(ctx context.Context, userID int64, limit, offset int) ([]model.WalletHistory, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WalletHistory), args.Error(1)
}

// AddressRepository mocks repository.AddressRepository.
type AddressRepository struct {
	mock.Mock
}

func (m *AddressRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return txResult(m.Called(ctx))
}

func (m *AddressRepository) Create(ctx context.Context, tx pgx.Tx, address *model.Address) error {
	return m.Called(ctx, tx, address).Error(0)
}

func (m *AddressRepository) Update(ctx context.Context, tx pgx.Tx, address *model.Address) error {
	return m.Called(ctx, tx, address).Error(0)
}

func (m *AddressRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *AddressRepository) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Address), args.Error(1)
}

// AuditRepository mocks repository.AuditRepository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Create(ctx context.Context, tx pgx.Tx, entry *model.AuditEntry) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *AuditRepository) GetByID(ctx context.Context, id int64) (*model.AuditEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEntry), args.Error(1)
}

func (m *AuditRepository) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

// Recorder mocks audit.Recorder. Entries are kept for assertions.
type Recorder struct {
	Entries []model.AuditEntry
}

func (m *Recorder) Record(ctx context.Context, tx pgx.Tx, entryType, action string, data map[string]any) {
	m.Entries = append(m.Entries, model.AuditEntry{Type: entryType, Action: action, Data: data})
}

// Actions returns the recorded actions in order.
func (m *Recorder) Actions() []string {
	actions := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		actions = append(actions, e.Action)
	}
	return actions
}

// Resolver mocks discount.Resolver.
type Resolver struct {
	mock.Mock
}

func (m *Resolver) Resolve(ctx context.Context, code string) (*model.Discount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *Resolver) ResolveApplicable(ctx context.Context, code string, now time.Time) (*model.Discount, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

// Inventory mocks inventory.Manager.
type Inventory struct {
	mock.Mock
}

func (m *Inventory) Reserve(lines []model.CartLine) error {
	return m.Called(lines).Error(0)
}

func (m *Inventory) Commit(ctx context.Context, tx pgx.Tx, lines []model.CartLine) error {
	return m.Called(ctx, tx, lines).Error(0)
}

// Ledger mocks wallet.Ledger.
type Ledger struct {
	mock.Mock
}

func (m *Ledger) Debit(ctx context.Context, tx pgx.Tx, user *model.User, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, user, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *Ledger) Credit(ctx context.Context, tx pgx.Tx, user *model.User, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, user, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// Store mocks objectstore.Store.
type Store struct {
	mock.Mock
}

func (m *Store) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
