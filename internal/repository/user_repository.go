package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const userColumns = `id, name, email, phone_number, wallet_balance, created_at, updated_at`

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.WalletBalance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// BeginTx starts a new database transaction.
func (r *userRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("user_id", id).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// GetForUpdate retrieves and locks a user row within the provided transaction.
func (r *userRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 FOR UPDATE", userColumns)

	u, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to lock user")
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	return u, nil
}

// UpdateWalletBalance sets the wallet balance within the provided transaction.
func (r *userRepository) UpdateWalletBalance(ctx context.Context, tx pgx.Tx, id int64, balance decimal.Decimal) error {
	tag, err := tx.Exec(ctx, "UPDATE users SET wallet_balance = $2, updated_at = NOW() WHERE id = $1", id, balance)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update wallet balance")
		if isCheckViolation(err) {
			return model.ErrInsufficientFunds
		}
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("user")
	}

	return nil
}

// CreateHistory appends a wallet history row within the provided transaction.
func (r *userRepository) CreateHistory(ctx context.Context, tx pgx.Tx, entry *model.WalletHistory) error {
	query := `
		INSERT INTO wallet_history (user_id, amount, action)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, entry.UserID, entry.Amount, entry.Action).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", entry.UserID).Msg("failed to create wallet history")
		return fmt.Errorf("failed to create wallet history: %w", err)
	}

	return nil
}

// ListHistory retrieves wallet history for a user, newest first.
func (r *userRepository) ListHistory(ctx context.Context, userID int64, limit, offset int) ([]model.WalletHistory, error) {
	limit, offset = normalisePage(limit, offset)

	query := `
		SELECT id, user_id, amount, action, created_at
		FROM wallet_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query wallet history")
		return nil, fmt.Errorf("failed to query wallet history: %w", err)
	}
	defer rows.Close()

	history := []model.WalletHistory{}
	for rows.Next() {
		var h model.WalletHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Amount, &h.Action, &h.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan wallet history row")
			return nil, fmt.Errorf("failed to scan wallet history: %w", err)
		}
		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating wallet history rows")
		return nil, fmt.Errorf("error iterating wallet history: %w", err)
	}

	return history, nil
}
