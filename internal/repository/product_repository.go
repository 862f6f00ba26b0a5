package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `
	p.id, p.title, p.description, p.features, p.image1, p.image2, p.image3, p.category_id,
	p.show_in_home_page, p.stock, p.before_discount_price, p.discount_percentage, p.price,
	p.sold_count, p.status, p.deleted_at, p.created_at, p.updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// scanProduct reads productColumns, optionally preceded by extra destinations.
func scanProduct(row pgx.Row, p *model.Product, extra ...any) error {
	dest := append(extra,
		&p.ID, &p.Title, &p.Description, &p.Features, &p.Image1, &p.Image2, &p.Image3, &p.CategoryID,
		&p.ShowInHomePage, &p.Stock, &p.BeforeDiscountPrice, &p.DiscountPercentage, &p.Price,
		&p.SoldCount, &p.Status, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return row.Scan(dest...)
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// BeginTx starts a new database transaction.
func (r *productRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// List retrieves products matching the filter.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	status := filter.Status
	if status == "" {
		status = model.StatusActive
	}
	limit, offset := normalisePage(filter.Limit, filter.Offset)

	conditions := []string{"p.status = $1"}
	args := []any{status}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.description ILIKE $%d OR p.features::text ILIKE $%d)", n, n, n))
	}

	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		conditions = append(conditions, fmt.Sprintf("p.category_id = ANY($%d)", len(args)))
	}

	if filter.HomePage {
		conditions = append(conditions, "p.show_in_home_page")
	}

	var orderBy string
	switch filter.OrderBy {
	case model.OrderByMostSold:
		orderBy = "p.sold_count DESC, p.id DESC"
	case model.OrderByMostExpensive:
		orderBy = "p.price DESC, p.id DESC"
	case model.OrderByLeastExpensive:
		orderBy = "p.price ASC, p.id DESC"
	default:
		orderBy = "p.created_at DESC, p.id DESC"
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, strings.Join(conditions, " AND "), orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("search", filter.Search).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := collectProducts(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read product rows")
		return nil, err
	}

	return products, nil
}

// GetByID retrieves a single product by its ID regardless of status.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE p.id = $1`, productColumns)

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetForUpdate retrieves and locks a product row within the provided transaction.
func (r *productRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE p.id = $1 FOR UPDATE`, productColumns)

	var p model.Product
	err := scanProduct(tx.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to lock product")
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	return &p, nil
}

// Create inserts a new product within the provided transaction.
func (r *productRepository) Create(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	query := `
		INSERT INTO products (
			title, description, features, image1, image2, image3, category_id, show_in_home_page,
			stock, before_discount_price, discount_percentage, price, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, sold_count, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		p.Title, p.Description, featuresOrEmpty(p.Features), p.Image1, p.Image2, p.Image3, p.CategoryID,
		p.ShowInHomePage, p.Stock, p.BeforeDiscountPrice, p.DiscountPercentage, p.Price, p.Status,
	).Scan(&p.ID, &p.SoldCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("title", p.Title).Msg("failed to create product")
		return translateProductWriteError(err, "failed to create product")
	}

	r.logger.Debug().Int64("product_id", p.ID).Msg("product created successfully")

	return nil
}

// Update replaces a product's editable fields within the provided transaction.
func (r *productRepository) Update(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, features = $4, image1 = $5, image2 = $6, image3 = $7,
			category_id = $8, show_in_home_page = $9, stock = $10, before_discount_price = $11,
			discount_percentage = $12, price = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, featuresOrEmpty(p.Features), p.Image1, p.Image2, p.Image3,
		p.CategoryID, p.ShowInHomePage, p.Stock, p.BeforeDiscountPrice, p.DiscountPercentage, p.Price,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NewNotFoundError("product")
		}
		r.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to update product")
		return translateProductWriteError(err, "failed to update product")
	}

	return nil
}

// SetStatus soft deletes or restores a product within the provided transaction.
func (r *productRepository) SetStatus(ctx context.Context, tx pgx.Tx, id int64, status model.Status) error {
	query := `
		UPDATE products
		SET status = $2,
			deleted_at = CASE WHEN $2 = 'deleted' THEN NOW() ELSE NULL END,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Str("status", string(status)).Msg("failed to set product status")
		return fmt.Errorf("failed to set product status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("product")
	}

	return nil
}

// Delete permanently removes a product within the provided transaction.
func (r *productRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("product")
	}

	return nil
}

// ApplySales decrements stock and increments sold count for each line.
// A product whose stock drops below one is soft deleted.
func (r *productRepository) ApplySales(ctx context.Context, tx pgx.Tx, lines []model.CartLine) ([]StockChange, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	query := `
		UPDATE products
		SET stock = stock - $2,
			sold_count = sold_count + $2,
			status = CASE WHEN stock - $2 < 1 THEN 'deleted' ELSE status END,
			deleted_at = CASE WHEN stock - $2 < 1 THEN NOW() ELSE deleted_at END,
			updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING stock, status
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.ProductID, line.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	changes := make([]StockChange, 0, len(lines))
	for _, line := range lines {
		change := StockChange{ProductID: line.ProductID, Quantity: line.Quantity}
		err := results.QueryRow().Scan(&change.Stock, &change.Status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				r.logger.Warn().
					Int64("product_id", line.ProductID).
					Int("quantity", line.Quantity).
					Msg("stock changed under lock")
				return nil, model.NewOutOfStockError(line.ProductID)
			}
			r.logger.Error().
				Err(err).
				Int64("product_id", line.ProductID).
				Msg("failed to apply sale")
			return nil, fmt.Errorf("failed to apply sale: %w", err)
		}
		changes = append(changes, change)
	}

	r.logger.Debug().
		Int("count", len(changes)).
		Msg("sales applied successfully")

	return changes, nil
}

func featuresOrEmpty(features []string) []string {
	if features == nil {
		return []string{}
	}
	return features
}

func translateProductWriteError(err error, msg string) error {
	switch {
	case isForeignKeyViolation(err):
		return model.NewValidationError("category does not exist")
	case isCheckViolation(err):
		return model.NewValidationError("product values are out of range")
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
