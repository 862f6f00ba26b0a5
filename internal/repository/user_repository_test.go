package repository

import (
	"context"
	"testing"

	"storefront/internal/model"
	"storefront/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Wallet(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool, zerolog.Nop())
	ctx := context.Background()

	userID := testutil.SeedUser(t, pool, "alice", "100")

	user, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.WalletBalance.Equal(decimal.NewFromInt(100)))

	missing, err := repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	locked, err := repo.GetForUpdate(ctx, tx, userID)
	require.NoError(t, err)
	require.NotNil(t, locked)

	require.NoError(t, repo.UpdateWalletBalance(ctx, tx, userID, decimal.NewFromInt(40)))

	decrease := model.WalletActionDecrease
	entry := &model.WalletHistory{UserID: userID, Amount: decimal.NewFromInt(60), Action: &decrease}
	require.NoError(t, repo.CreateHistory(ctx, tx, entry))
	assert.NotZero(t, entry.ID)

	require.NoError(t, repo.CreateHistory(ctx, tx, &model.WalletHistory{UserID: userID, Amount: decimal.Zero}))
	require.NoError(t, tx.Commit(ctx))

	user, err = repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, user.WalletBalance.Equal(decimal.NewFromInt(40)))

	history, err := repo.ListHistory(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Nil(t, history[0].Action)
	require.NotNil(t, history[1].Action)
	assert.Equal(t, model.WalletActionDecrease, *history[1].Action)
}

func TestUserRepository_NegativeBalanceRejected(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool, zerolog.Nop())
	ctx := context.Background()

	userID := testutil.SeedUser(t, pool, "bob", "10")

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = repo.UpdateWalletBalance(ctx, tx, userID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
}
