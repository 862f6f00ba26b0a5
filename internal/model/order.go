package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusProcessing || s == OrderStatusShipped
}

// PaymentMethod is how an order is paid.
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCash   PaymentMethod = "cash"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodWallet || m == PaymentMethodCash
}

// Order is an immutable record of a submitted cart.
// Address, Items and Discount are snapshots taken at submission time.
type Order struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	UserID               int64           `json:"userId" db:"user_id"`
	Address              Address         `json:"address" db:"address"`
	Items                []OrderItem     `json:"items"`
	PaymentMethod        PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Status               OrderStatus     `json:"status" db:"status"`
	Discount             *Discount       `json:"discount,omitempty" db:"discount"`
	BeforeDiscountAmount decimal.Decimal `json:"beforeDiscountAmount" db:"before_discount_amount"`
	TotalAmount          decimal.Decimal `json:"totalAmount" db:"total_amount"`
	SubmittedAt          time.Time       `json:"submittedAt" db:"submitted_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a product snapshot embedded in an order.
type OrderItem struct {
	ID                  uuid.UUID       `json:"-" db:"id"`
	OrderID             uuid.UUID       `json:"-" db:"order_id"`
	ProductID           int64           `json:"productId" db:"product_id"`
	Title               string          `json:"title" db:"title"`
	Image1              string          `json:"image1" db:"image1"`
	BeforeDiscountPrice decimal.Decimal `json:"beforeDiscountPrice" db:"before_discount_price"`
	DiscountPercentage  decimal.Decimal `json:"discountPercentage" db:"discount_percentage"`
	Price               decimal.Decimal `json:"price" db:"price"`
	Quantity            int             `json:"quantity" db:"quantity"`
	LineTotal           decimal.Decimal `json:"lineTotal" db:"line_total"`
}

// SubmitOrderRequest represents the request payload for submitting the caller's cart.
type SubmitOrderRequest struct {
	AddressID     int64         `json:"addressId" validate:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	DiscountCode  *string       `json:"discountCode,omitempty" validate:"omitempty,max=64"`
}

// UpdateOrderStatusRequest represents the admin payload for moving an order along.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	UserID *int64
	Status *OrderStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
