package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/wallet"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const recentHistory = 20

// walletService implements WalletService.
type walletService struct {
	users  repository.UserRepository
	ledger wallet.Ledger
	logger zerolog.Logger
}

// NewWalletService creates a new wallet service.
func NewWalletService(users repository.UserRepository, ledger wallet.Ledger, logger zerolog.Logger) WalletService {
	return &walletService{
		users:  users,
		ledger: ledger,
		logger: logger.With().Str("service", "wallet").Logger(),
	}
}

// Get returns the balance with the most recent history entries.
func (s *walletService) Get(ctx context.Context, userID int64) (*model.Wallet, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, model.Transient(err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user")
	}

	history, err := s.History(ctx, userID, recentHistory, 0)
	if err != nil {
		return nil, err
	}

	return &model.Wallet{Balance: user.WalletBalance, History: history}, nil
}

// History pages through the caller's wallet movements, newest first.
func (s *walletService) History(ctx context.Context, userID int64, limit, offset int) ([]model.WalletHistory, error) {
	history, err := s.users.ListHistory(ctx, userID, limit, offset)
	if err != nil {
		return nil, model.Transient(err)
	}
	return history, nil
}

// Adjust credits a positive amount or debits a negative one.
func (s *walletService) Adjust(ctx context.Context, userID int64, amount decimal.Decimal) (*model.Wallet, error) {
	if amount.IsZero() {
		return nil, model.NewValidationError("amount must not be zero")
	}

	err := inTx(ctx, s.users, s.logger, func(tx pgx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return model.NewNotFoundError("user")
		}

		if amount.IsPositive() {
			_, err = s.ledger.Credit(ctx, tx, user, amount)
		} else {
			_, err = s.ledger.Debit(ctx, tx, user, amount.Neg())
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Str("amount", amount.String()).Msg("wallet adjusted")
	return s.Get(ctx, userID)
}
