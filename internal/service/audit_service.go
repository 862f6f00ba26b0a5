package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// auditService implements AuditService.
type auditService struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditService creates a new audit log service.
func NewAuditService(repo repository.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("service", "audit").Logger(),
	}
}

func (s *auditService) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error) {
	entries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, model.Transient(err)
	}
	return entries, nil
}

func (s *auditService) GetByID(ctx context.Context, id int64) (*model.AuditEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, model.Transient(err)
	}
	if entry == nil {
		return nil, model.NewNotFoundError("audit entry")
	}
	return entry, nil
}
