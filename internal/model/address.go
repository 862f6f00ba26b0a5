package model

import "time"

// Address is a shipping address owned by a user.
type Address struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Description string    `json:"description" db:"description"`
	Province    string    `json:"province" db:"province"`
	City        string    `json:"city" db:"city"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// AddressInput is the payload for creating or replacing an address.
type AddressInput struct {
	Description string `json:"description" validate:"required,max=1000"`
	Province    string `json:"province" validate:"required,max=255"`
	City        string `json:"city" validate:"required,max=255"`
}
