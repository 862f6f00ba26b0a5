package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *addressRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// Create inserts a new address within the provided transaction.
func (r *addressRepository) Create(ctx context.Context, tx pgx.Tx, a *model.Address) error {
	query := `
		INSERT INTO addresses (user_id, description, province, city)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query, a.UserID, a.Description, a.Province, a.City).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", a.UserID).Msg("failed to create address")
		if isForeignKeyViolation(err) {
			return model.NewNotFoundError("user")
		}
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

// Update replaces an address within the provided transaction.
func (r *addressRepository) Update(ctx context.Context, tx pgx.Tx, a *model.Address) error {
	query := `
		UPDATE addresses
		SET description = $2, province = $3, city = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRow(ctx, query, a.ID, a.Description, a.Province, a.City).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NewNotFoundError("address")
		}
		r.logger.Error().Err(err).Int64("address_id", a.ID).Msg("failed to update address")
		return fmt.Errorf("failed to update address: %w", err)
	}

	return nil
}

// Delete removes an address within the provided transaction.
func (r *addressRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, "DELETE FROM addresses WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("address_id", id).Msg("failed to delete address")
		return fmt.Errorf("failed to delete address: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("address")
	}

	return nil
}

// GetByID retrieves an address by ID.
func (r *addressRepository) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	query := `
		SELECT id, user_id, description, province, city, created_at, updated_at
		FROM addresses
		WHERE id = $1
	`

	var a model.Address
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Description, &a.Province, &a.City, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("address_id", id).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &a, nil
}

// ListByUser retrieves all addresses of a user.
func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]model.Address, error) {
	query := `
		SELECT id, user_id, description, province, city, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}

	addresses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Address, error) {
		var a model.Address
		err := row.Scan(&a.ID, &a.UserID, &a.Description, &a.Province, &a.City, &a.CreatedAt, &a.UpdatedAt)
		return a, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read address rows")
		return nil, fmt.Errorf("failed to read addresses: %w", err)
	}

	return addresses, nil
}
