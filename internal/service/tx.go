package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// inTx runs fn inside a transaction started by t. The transaction is
// committed when fn succeeds and rolled back otherwise. Errors that are not
// domain errors are reported as transient.
func inTx(ctx context.Context, t repository.Transactor, logger zerolog.Logger, fn func(tx pgx.Tx) error) error {
	tx, err := t.BeginTx(ctx)
	if err != nil {
		return model.Transient(err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return storageError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to commit transaction")
		return model.Transient(err)
	}

	return nil
}
