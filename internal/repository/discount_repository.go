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

const discountColumns = `id, code, percentage, max_amount, expires_at, status, created_at, updated_at`

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

func scanDiscount(row pgx.Row, d *model.Discount) error {
	return row.Scan(&d.ID, &d.Code, &d.Percentage, &d.MaxAmount, &d.ExpiresAt, &d.Status, &d.CreatedAt, &d.UpdatedAt)
}

func (r *discountRepository) translateWriteError(err error, code string) error {
	switch {
	case isUniqueViolation(err):
		return model.ErrDuplicate
	case isCheckViolation(err):
		return model.NewValidationError("percentage must be between 1 and 100 and max amount must not be negative")
	}
	r.logger.Error().Err(err).Str("code", code).Msg("failed to write discount")
	return fmt.Errorf("failed to write discount: %w", err)
}

// Create inserts a new discount.
func (r *discountRepository) Create(ctx context.Context, d *model.Discount) error {
	query := `
		INSERT INTO discounts (code, percentage, max_amount, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, d.Code, d.Percentage, d.MaxAmount, d.ExpiresAt).
		Scan(&d.ID, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return r.translateWriteError(err, d.Code)
	}

	return nil
}

// Update replaces a discount's code, percentage, cap and expiry.
func (r *discountRepository) Update(ctx context.Context, d *model.Discount) error {
	query := `
		UPDATE discounts
		SET code = $2, percentage = $3, max_amount = $4, expires_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING status, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, d.ID, d.Code, d.Percentage, d.MaxAmount, d.ExpiresAt).
		Scan(&d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NewNotFoundError("discount")
		}
		return r.translateWriteError(err, d.Code)
	}

	return nil
}

// GetByID retrieves a discount by ID.
func (r *discountRepository) GetByID(ctx context.Context, id int64) (*model.Discount, error) {
	query := fmt.Sprintf("SELECT %s FROM discounts WHERE id = $1", discountColumns)

	var d model.Discount
	if err := scanDiscount(r.pool.QueryRow(ctx, query, id), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("discount_id", id).Msg("failed to query discount")
		return nil, fmt.Errorf("failed to query discount: %w", err)
	}

	return &d, nil
}

// GetByCode retrieves a discount by code, including soft deleted ones.
func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	query := fmt.Sprintf("SELECT %s FROM discounts WHERE code = $1", discountColumns)

	var d model.Discount
	if err := scanDiscount(r.pool.QueryRow(ctx, query, code), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("discount not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount")
		return nil, fmt.Errorf("failed to query discount: %w", err)
	}

	return &d, nil
}

// List retrieves discounts with the given status, newest first.
func (r *discountRepository) List(ctx context.Context, status model.Status) ([]model.Discount, error) {
	if status == "" {
		status = model.StatusActive
	}

	query := fmt.Sprintf("SELECT %s FROM discounts WHERE status = $1 ORDER BY id DESC", discountColumns)

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query discounts")
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}

	discounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Discount, error) {
		var d model.Discount
		err := scanDiscount(row, &d)
		return d, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read discount rows")
		return nil, fmt.Errorf("failed to read discounts: %w", err)
	}

	return discounts, nil
}

// SetStatus soft deletes or restores a discount.
func (r *discountRepository) SetStatus(ctx context.Context, id int64, status model.Status) error {
	tag, err := r.pool.Exec(ctx, "UPDATE discounts SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	if err != nil {
		r.logger.Error().Err(err).Int64("discount_id", id).Msg("failed to update discount status")
		return fmt.Errorf("failed to update discount status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("discount")
	}

	return nil
}

// Delete permanently removes a discount. Orders keep their own snapshot.
func (r *discountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM discounts WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("discount_id", id).Msg("failed to delete discount")
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("discount")
	}

	return nil
}
