package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is an ephemeral cart row keyed by (user, product).
type CartItem struct {
	UserID    int64     `json:"-" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine pairs a cart row with the product it references.
// Product is nil when the referenced product no longer exists.
type CartLine struct {
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Cart is the priced view of a user's cart.
type Cart struct {
	Lines          []CartLine      `json:"lines"`
	Discount       *Discount       `json:"discount,omitempty"`
	BeforeDiscount decimal.Decimal `json:"beforeDiscount"`
	Total          decimal.Decimal `json:"total"`
}

// CartItemRequest changes a cart line by a signed quantity delta.
type CartItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,ne=0"`
}
