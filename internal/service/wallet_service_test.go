package service

import (
	"context"
	"testing"

	"storefront/internal/model"
	"storefront/internal/testutil/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestWalletService_Get(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := NewWalletService(users, new(mocks.Ledger), zerolog.Nop())

	history := []model.WalletHistory{{ID: 1, UserID: 7, Amount: dec("200")}}
	users.On("GetByID", ctx, int64(7)).Return(&model.User{ID: 7, WalletBalance: dec("350.50")}, nil)
	users.On("ListHistory", ctx, int64(7), recentHistory, 0).Return(history, nil)

	w, err := svc.Get(ctx, 7)

	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(dec("350.5")))
	assert.Equal(t, history, w.History)
}

func TestWalletService_Get_UnknownUser(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	svc := NewWalletService(users, new(mocks.Ledger), zerolog.Nop())
	users.On("GetByID", ctx, int64(7)).Return(nil, nil)

	_, err := svc.Get(ctx, 7)

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestWalletService_Adjust(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		amount       string
		expectMethod string
		expectAmount string
		ledgerErr    error
		expectedErr  error
	}{
		{name: "Credit", amount: "150", expectMethod: "Credit", expectAmount: "150"},
		{name: "Debit", amount: "-40", expectMethod: "Debit", expectAmount: "40"},
		{name: "Debit above balance", amount: "-900", expectMethod: "Debit", expectAmount: "900", ledgerErr: model.ErrInsufficientFunds, expectedErr: model.ErrInsufficientFunds},
		{name: "Zero amount", amount: "0", expectedErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mocks.UserRepository)
			ledger := new(mocks.Ledger)
			tx := new(mocks.Tx)
			svc := NewWalletService(users, ledger, zerolog.Nop())

			user := &model.User{ID: 7, WalletBalance: dec("100")}
			users.On("BeginTx", ctx).Return(tx, nil).Maybe()
			tx.On("Commit", ctx).Return(nil).Maybe()
			tx.On("Rollback", ctx).Return(nil).Maybe()
			users.On("GetForUpdate", ctx, tx, int64(7)).Return(user, nil).Maybe()
			users.On("GetByID", ctx, int64(7)).Return(user, nil).Maybe()
			users.On("ListHistory", ctx, int64(7), recentHistory, 0).Return([]model.WalletHistory{}, nil).Maybe()
			if tt.expectMethod != "" {
				ledger.On(tt.expectMethod, ctx, tx, user, decimalEq(tt.expectAmount)).Return(decimal.Zero, tt.ledgerErr)
			}

			w, err := svc.Adjust(ctx, 7, dec(tt.amount))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.False(t, tx.Committed)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, w)
			assert.True(t, tx.Committed)
			ledger.AssertExpectations(t)
			ledger.AssertNumberOfCalls(t, tt.expectMethod, 1)
			ledger.AssertNotCalled(t, oppositeOf(tt.expectMethod), mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func oppositeOf(method string) string {
	if method == "Credit" {
		return "Debit"
	}
	return "Credit"
}
