package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/testutil/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRecorder(repo *mocks.AuditRepository) *recorder {
	r := NewRecorder(repo, zerolog.Nop()).(*recorder)
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	return r
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()

	tx := new(mocks.Tx)
	savepoint := new(mocks.Tx)
	repo := new(mocks.AuditRepository)

	tx.On("Begin", ctx).Return(savepoint, nil)
	savepoint.On("Commit", ctx).Return(nil)
	repo.On("Create", ctx, savepoint, mock.MatchedBy(func(e *model.AuditEntry) bool {
		return e.Type == model.AuditTypeOrder &&
			e.Action == "order_submitted" &&
			e.Data["order_id"] == "abc" &&
			e.Data["timestamp"] == int64(1700000000)
	})).Return(nil)

	data := map[string]any{"order_id": "abc"}
	newTestRecorder(repo).Record(ctx, tx, model.AuditTypeOrder, "order_submitted", data)

	repo.AssertExpectations(t)
	assert.True(t, savepoint.Committed)
	assert.NotContains(t, data, "timestamp", "caller data must not be modified")
}

func TestRecorder_FailureIsSwallowed(t *testing.T) {
	ctx := context.Background()

	t.Run("Insert fails", func(t *testing.T) {
		tx := new(mocks.Tx)
		savepoint := new(mocks.Tx)
		repo := new(mocks.AuditRepository)

		tx.On("Begin", ctx).Return(savepoint, nil)
		savepoint.On("Rollback", ctx).Return(nil)
		repo.On("Create", ctx, savepoint, mock.Anything).Return(errors.New("disk full"))

		newTestRecorder(repo).Record(ctx, tx, model.AuditTypeInventory, "sale", nil)

		assert.True(t, savepoint.RolledBack)
		assert.False(t, savepoint.Committed)
		assert.False(t, tx.RolledBack)
	})

	t.Run("Savepoint cannot be opened", func(t *testing.T) {
		tx := new(mocks.Tx)
		repo := new(mocks.AuditRepository)

		tx.On("Begin", ctx).Return(nil, errors.New("tx aborted"))

		newTestRecorder(repo).Record(ctx, tx, model.AuditTypeInventory, "sale", nil)

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
