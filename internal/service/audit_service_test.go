package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"
	"storefront/internal/testutil/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.AuditRepository)
	svc := NewAuditService(repo, zerolog.Nop())

	entries := []model.AuditEntry{{ID: 2, Type: model.AuditTypeOrder, Action: "order_submitted"}}
	repo.On("List", ctx, 20, 0).Return(entries, nil)
	repo.On("GetByID", ctx, int64(2)).Return(&entries[0], nil)
	repo.On("GetByID", ctx, int64(3)).Return(nil, nil)
	repo.On("GetByID", ctx, int64(4)).Return(nil, errors.New("database error"))

	got, err := svc.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	entry, err := svc.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "order_submitted", entry.Action)

	_, err = svc.GetByID(ctx, 3)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.GetByID(ctx, 4)
	assert.ErrorIs(t, err, model.ErrTransientFailure)
}
