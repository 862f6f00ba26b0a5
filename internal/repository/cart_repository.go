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

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

var cartLinesQuery = fmt.Sprintf(`
	SELECT c.product_id, c.quantity, %s
	FROM cart_items c
	JOIN products p ON p.id = c.product_id
	WHERE c.user_id = $1
	ORDER BY c.product_id
`, productColumns)

func (r *cartRepository) queryLines(ctx context.Context, q querier, query string, userID int64) ([]model.CartLine, error) {
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	lines := []model.CartLine{}
	for rows.Next() {
		var line model.CartLine
		product := &model.Product{}
		if err := scanProduct(rows, product, &line.ProductID, &line.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		line.Product = product
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart rows")
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}

	return lines, nil
}

// GetLines retrieves the user's cart joined with product details.
func (r *cartRepository) GetLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return r.queryLines(ctx, r.pool, cartLinesQuery, userID)
}

// LockLines retrieves the user's cart and locks both cart and product rows,
// in ascending product id order, within the provided transaction.
func (r *cartRepository) LockLines(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartLine, error) {
	return r.queryLines(ctx, tx, cartLinesQuery+" FOR UPDATE OF c, p", userID)
}

// GetItem retrieves a single cart row.
func (r *cartRepository) GetItem(ctx context.Context, userID, productID int64) (*model.CartItem, error) {
	query := `
		SELECT user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, userID, productID).Scan(
		&item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("product_id", productID).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// SetQuantity inserts or updates a cart row.
func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, userID, productID, quantity); err != nil {
		r.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to set cart quantity")
		if isForeignKeyViolation(err) {
			return model.NewNotFoundError("product")
		}
		return fmt.Errorf("failed to set cart quantity: %w", err)
	}

	return nil
}

// DeleteItem removes a single cart row.
func (r *cartRepository) DeleteItem(ctx context.Context, userID, productID int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Int64("product_id", productID).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("cart item")
	}

	return nil
}

// Clear removes every cart row of the user within the provided transaction.
func (r *cartRepository) Clear(ctx context.Context, tx pgx.Tx, userID int64) error {
	tag, err := tx.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Int64("user_id", userID).
		Int64("removed", tag.RowsAffected()).
		Msg("cart cleared")

	return nil
}
