// Package inventory checks and applies stock movements for submitted carts.
package inventory

import (
	"context"

	"storefront/internal/audit"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Manager reserves and commits stock for cart lines.
type Manager interface {
	// Reserve checks every line against the stock of its locked product row.
	Reserve(lines []model.CartLine) error

	// Commit decrements stock and increments sold count for every line.
	// Products that run out of stock are soft deleted.
	Commit(ctx context.Context, tx pgx.Tx, lines []model.CartLine) error
}

type manager struct {
	products repository.ProductRepository
	audit    audit.Recorder
	logger   zerolog.Logger
}

// NewManager creates an inventory Manager.
func NewManager(products repository.ProductRepository, recorder audit.Recorder, logger zerolog.Logger) Manager {
	return &manager{
		products: products,
		audit:    recorder,
		logger:   logger.With().Str("component", "inventory").Logger(),
	}
}

func (m *manager) Reserve(lines []model.CartLine) error {
	for _, line := range lines {
		if line.Product == nil {
			return model.NewProductUnavailableError(line.ProductID)
		}
		if line.Quantity > line.Product.Stock {
			m.logger.Debug().
				Int64("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Int("stock", line.Product.Stock).
				Msg("insufficient stock")
			return model.NewOutOfStockError(line.ProductID)
		}
	}
	return nil
}

func (m *manager) Commit(ctx context.Context, tx pgx.Tx, lines []model.CartLine) error {
	changes, err := m.products.ApplySales(ctx, tx, lines)
	if err != nil {
		return err
	}

	for _, c := range changes {
		m.audit.Record(ctx, tx, model.AuditTypeInventory, "sale", map[string]any{
			"product_id": c.ProductID,
			"quantity":   c.Quantity,
			"stock":      c.Stock,
		})

		if c.Status == model.StatusDeleted {
			m.logger.Info().Int64("product_id", c.ProductID).Msg("product sold out")
			m.audit.Record(ctx, tx, model.AuditTypeStatus, "product_sold_out", map[string]any{
				"product_id": c.ProductID,
			})
		}
	}

	return nil
}
