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

// auditRepository implements the AuditRepository interface using PostgreSQL.
type auditRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAuditRepository creates a new PostgreSQL-backed audit log repository.
func NewAuditRepository(pool *pgxpool.Pool, logger zerolog.Logger) AuditRepository {
	return &auditRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "audit").Logger(),
	}
}

// Create inserts an audit entry using the given transaction or savepoint.
func (r *auditRepository) Create(ctx context.Context, tx pgx.Tx, entry *model.AuditEntry) error {
	if entry.Data == nil {
		entry.Data = map[string]any{}
	}

	query := `
		INSERT INTO audit_logs (type, action, data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, entry.Type, entry.Action, entry.Data).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("type", entry.Type).Str("action", entry.Action).Msg("failed to create audit entry")
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

// GetByID retrieves an audit entry by ID.
func (r *auditRepository) GetByID(ctx context.Context, id int64) (*model.AuditEntry, error) {
	var e model.AuditEntry
	err := r.pool.QueryRow(ctx, "SELECT id, type, action, data, created_at FROM audit_logs WHERE id = $1", id).
		Scan(&e.ID, &e.Type, &e.Action, &e.Data, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("audit_id", id).Msg("failed to query audit entry")
		return nil, fmt.Errorf("failed to query audit entry: %w", err)
	}

	return &e, nil
}

// List retrieves audit entries, newest first.
func (r *auditRepository) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error) {
	limit, offset = normalisePage(limit, offset)

	rows, err := r.pool.Query(ctx,
		"SELECT id, type, action, data, created_at FROM audit_logs ORDER BY id DESC LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query audit entries")
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AuditEntry, error) {
		var e model.AuditEntry
		err := row.Scan(&e.ID, &e.Type, &e.Action, &e.Data, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read audit rows")
		return nil, fmt.Errorf("failed to read audit entries: %w", err)
	}

	return entries, nil
}
