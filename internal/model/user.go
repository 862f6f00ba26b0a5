package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the account that owns a cart, addresses, orders and a wallet.
type User struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Email         *string         `json:"email,omitempty" db:"email"`
	PhoneNumber   string          `json:"phoneNumber" db:"phone_number"`
	WalletBalance decimal.Decimal `json:"walletBalance" db:"wallet_balance"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// WalletAction is the direction of a wallet movement.
type WalletAction string

const (
	WalletActionIncrease WalletAction = "increase"
	WalletActionDecrease WalletAction = "decrease"
)

// WalletHistory is an append-only record of a wallet movement.
type WalletHistory struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"userId" db:"user_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Action    *WalletAction   `json:"action,omitempty" db:"action"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// Wallet is the caller's balance with recent movements.
type Wallet struct {
	Balance decimal.Decimal `json:"balance"`
	History []WalletHistory `json:"history"`
}

// WalletAdjustRequest changes a user's balance by a signed amount.
type WalletAdjustRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
