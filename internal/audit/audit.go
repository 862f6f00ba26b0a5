// Package audit appends administrative log entries next to business changes.
package audit

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Recorder writes audit entries inside an open transaction.
// Recording is best effort: a failed entry never aborts the caller's transaction.
type Recorder interface {
	Record(ctx context.Context, tx pgx.Tx, entryType, action string, data map[string]any)
}

type recorder struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder backed by the audit repository.
func NewRecorder(repo repository.AuditRepository, logger zerolog.Logger) Recorder {
	return &recorder{
		repo:   repo,
		logger: logger.With().Str("component", "audit").Logger(),
		now:    time.Now,
	}
}

// Record writes the entry in a savepoint so that a failing insert leaves tx usable.
func (r *recorder) Record(ctx context.Context, tx pgx.Tx, entryType, action string, data map[string]any) {
	payload := make(map[string]any, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["timestamp"] = r.now().Unix()

	entry := &model.AuditEntry{Type: entryType, Action: action, Data: payload}

	sp, err := tx.Begin(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Str("type", entryType).Str("action", action).Msg("failed to open audit savepoint")
		return
	}

	if err := r.repo.Create(ctx, sp, entry); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			r.logger.Warn().Err(rbErr).Msg("failed to roll back audit savepoint")
		}
		r.logger.Warn().Err(err).Str("type", entryType).Str("action", action).Msg("audit entry dropped")
		return
	}

	if err := sp.Commit(ctx); err != nil {
		r.logger.Warn().Err(err).Str("type", entryType).Str("action", action).Msg("failed to release audit savepoint")
	}
}
