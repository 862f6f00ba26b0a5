// Package discount looks up discount codes and decides whether they may be applied.
package discount

import (
	"context"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Resolver finds discount codes.
type Resolver interface {
	// Resolve returns the discount with the given code, including soft deleted ones.
	Resolve(ctx context.Context, code string) (*model.Discount, error)

	// ResolveApplicable returns the discount only if it can be applied at now.
	ResolveApplicable(ctx context.Context, code string, now time.Time) (*model.Discount, error)
}

// IsApplicable reports whether d may be attached to a new order at now.
func IsApplicable(d *model.Discount, now time.Time) bool {
	if d == nil || d.Status == model.StatusDeleted {
		return false
	}
	if d.ExpiresAt != nil && d.ExpiresAt.Before(now) {
		return false
	}
	return true
}

type resolver struct {
	repo   repository.DiscountRepository
	logger zerolog.Logger
}

// NewResolver creates a Resolver backed by the discount repository.
func NewResolver(repo repository.DiscountRepository, logger zerolog.Logger) Resolver {
	return &resolver{
		repo:   repo,
		logger: logger.With().Str("component", "discount-resolver").Logger(),
	}
}

func (r *resolver) Resolve(ctx context.Context, code string) (*model.Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, model.ErrDiscountNotFound
	}

	d, err := r.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, model.Transient(err)
	}
	if d == nil {
		r.logger.Debug().Str("code", code).Msg("discount code not found")
		return nil, model.ErrDiscountNotFound
	}

	return d, nil
}

func (r *resolver) ResolveApplicable(ctx context.Context, code string, now time.Time) (*model.Discount, error) {
	d, err := r.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	if !IsApplicable(d, now) {
		r.logger.Debug().
			Str("code", d.Code).
			Str("status", string(d.Status)).
			Msg("discount code not applicable")
		return nil, model.ErrDiscountExpired
	}

	return d, nil
}
