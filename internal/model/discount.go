package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount is a percentage code with an optional absolute cap and expiry.
type Discount struct {
	ID         int64            `json:"id" db:"id"`
	Code       string           `json:"code" db:"code"`
	Percentage decimal.Decimal  `json:"percentage" db:"percentage"`
	MaxAmount  *decimal.Decimal `json:"maxAmount,omitempty" db:"max_amount"`
	ExpiresAt  *time.Time       `json:"expiresAt,omitempty" db:"expires_at"`
	Status     Status           `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
}

// DiscountInput is the admin payload for creating or replacing a discount.
type DiscountInput struct {
	Code       string           `json:"code" validate:"required,max=64"`
	Percentage decimal.Decimal  `json:"percentage"`
	MaxAmount  *decimal.Decimal `json:"maxAmount,omitempty"`
	ExpiresAt  *time.Time       `json:"expiresAt,omitempty"`
}
