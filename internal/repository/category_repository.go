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

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

func (r *categoryRepository) translateWriteError(err error, c *model.Category) error {
	switch {
	case isUniqueViolation(err):
		return model.ErrDuplicate
	case isForeignKeyViolation(err):
		return model.NewValidationError("parent category does not exist")
	}
	r.logger.Error().Err(err).Str("slug", c.Slug).Msg("failed to write category")
	return fmt.Errorf("failed to write category: %w", err)
}

// Create inserts a new category.
func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (title, slug, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query, c.Title, c.Slug, c.ParentID).Scan(&c.ID, &c.CreatedAt); err != nil {
		return r.translateWriteError(err, c)
	}

	return nil
}

// Update replaces a category's title, slug and parent.
func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET title = $2, slug = $3, parent_id = $4
		WHERE id = $1
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, c.ID, c.Title, c.Slug, c.ParentID).Scan(&c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NewNotFoundError("category")
		}
		return r.translateWriteError(err, c)
	}

	return nil
}

// GetByID retrieves a category by ID.
func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx, "SELECT id, title, slug, parent_id, created_at FROM categories WHERE id = $1", id).
		Scan(&c.ID, &c.Title, &c.Slug, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &c, nil
}

// List retrieves categories, optionally only main ones or children of a parent.
func (r *categoryRepository) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error) {
	query := "SELECT id, title, slug, parent_id, created_at FROM categories"
	var args []any

	switch {
	case filter.ParentID != nil:
		query += " WHERE parent_id = $1"
		args = append(args, *filter.ParentID)
	case filter.MainOnly:
		query += " WHERE parent_id IS NULL"
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		var c model.Category
		err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.ParentID, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read category rows")
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

// Delete removes a category. Children and products are detached, not removed.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("category")
	}

	return nil
}

// SubtreeIDs returns the category id and the ids of all its descendants.
func (r *categoryRepository) SubtreeIDs(ctx context.Context, id int64) ([]int64, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM categories WHERE id = $1
			UNION
			SELECT c.id FROM categories c JOIN subtree s ON c.parent_id = s.id
		)
		SELECT id FROM subtree ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to query category subtree")
		return nil, fmt.Errorf("failed to query category subtree: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to read category subtree")
		return nil, fmt.Errorf("failed to read category subtree: %w", err)
	}

	return ids, nil
}
