// Package wallet moves money in and out of user wallets and keeps the history ledger.
package wallet

import (
	"context"

	"storefront/internal/audit"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger debits and credits a user's wallet inside an open transaction.
// The user row must already be locked by the caller.
type Ledger interface {
	// Debit subtracts amount and returns the new balance. A zero debit writes no history.
	Debit(ctx context.Context, tx pgx.Tx, user *model.User, amount decimal.Decimal) (decimal.Decimal, error)

	// Credit adds amount and returns the new balance. Every credit is recorded.
	Credit(ctx context.Context, tx pgx.Tx, user *model.User, amount decimal.Decimal) (decimal.Decimal, error)
}

type ledger struct {
	users  repository.UserRepository
	audit  audit.Recorder
	logger zerolog.Logger
}

// NewLedger creates a wallet Ledger.
func NewLedger(users repository.UserRepository, recorder audit.Recorder, logger zerolog.Logger) Ledger {
	return &ledger{
		users:  users,
		audit:  recorder,
		logger: logger.With().Str("component", "wallet").Logger(),
	}
}

func (l *ledger) Debit(ctx context.Context, tx pgx.Tx, user *model.User, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return user.WalletBalance, model.NewValidationError("debit amount must not be negative")
	}
	if user.WalletBalance.LessThan(amount) {
		l.logger.Debug().
			Int64("user_id", user.ID).
			Str("balance", user.WalletBalance.String()).
			Str("amount", amount.String()).
			Msg("insufficient wallet balance")
		return user.WalletBalance, model.ErrInsufficientFunds
	}
	if amount.IsZero() {
		return user.WalletBalance, nil
	}

	balance := user.WalletBalance.Sub(amount)
	if err := l.move(ctx, tx, user, amount, balance, model.WalletActionDecrease); err != nil {
		return user.WalletBalance, err
	}

	return balance, nil
}

func (l *ledger) Credit(ctx context.Context, tx pgx.Tx, user *model.User, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return user.WalletBalance, model.NewValidationError("credit amount must not be negative")
	}

	balance := user.WalletBalance.Add(amount)
	if err := l.move(ctx, tx, user, amount, balance, model.WalletActionIncrease); err != nil {
		return user.WalletBalance, err
	}

	return balance, nil
}

func (l *ledger) move(ctx context.Context, tx pgx.Tx, user *model.User, amount, balance decimal.Decimal, action model.WalletAction) error {
	if err := l.users.UpdateWalletBalance(ctx, tx, user.ID, balance); err != nil {
		return err
	}

	entry := &model.WalletHistory{UserID: user.ID, Amount: amount, Action: &action}
	if err := l.users.CreateHistory(ctx, tx, entry); err != nil {
		return err
	}

	l.audit.Record(ctx, tx, model.AuditTypeFinancial, "wallet_"+string(action), map[string]any{
		"user_id":     user.ID,
		"amount":      amount.String(),
		"old_balance": user.WalletBalance.String(),
		"new_balance": balance.String(),
	})

	l.logger.Info().
		Int64("user_id", user.ID).
		Str("action", string(action)).
		Str("amount", amount.String()).
		Msg("wallet updated")

	user.WalletBalance = balance
	return nil
}
