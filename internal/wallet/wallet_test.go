package wallet

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"
	"storefront/internal/testutil/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decimalEq(v string) any {
	want := decimal.RequireFromString(v)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func historyWith(amount string, action model.WalletAction) any {
	want := decimal.RequireFromString(amount)
	return mock.MatchedBy(func(h *model.WalletHistory) bool {
		return h.Amount.Equal(want) && h.Action != nil && *h.Action == action
	})
}

func TestLedger_Debit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		balance         string
		amount          string
		setupMock       func(*mocks.UserRepository, *mocks.Tx)
		expectedBalance string
		expectedErr     error
		expectedAudits  int
	}{
		{
			name:    "Debit within balance",
			balance: "1000",
			amount:  "800",
			setupMock: func(m *mocks.UserRepository, tx *mocks.Tx) {
				m.On("UpdateWalletBalance", ctx, tx, int64(1), decimalEq("200")).Return(nil)
				m.On("CreateHistory", ctx, tx, historyWith("800", model.WalletActionDecrease)).Return(nil)
			},
			expectedBalance: "200",
			expectedAudits:  1,
		},
		{
			name:    "Debit entire balance",
			balance: "50.25",
			amount:  "50.25",
			setupMock: func(m *mocks.UserRepository, tx *mocks.Tx) {
				m.On("UpdateWalletBalance", ctx, tx, int64(1), decimalEq("0")).Return(nil)
				m.On("CreateHistory", ctx, tx, historyWith("50.25", model.WalletActionDecrease)).Return(nil)
			},
			expectedBalance: "0",
			expectedAudits:  1,
		},
		{
			name:            "Zero debit writes nothing",
			balance:         "10",
			amount:          "0",
			setupMock:       func(m *mocks.UserRepository, tx *mocks.Tx) {},
			expectedBalance: "10",
		},
		{
			name:            "Insufficient funds",
			balance:         "10",
			amount:          "10.01",
			setupMock:       func(m *mocks.UserRepository, tx *mocks.Tx) {},
			expectedBalance: "10",
			expectedErr:     model.ErrInsufficientFunds,
		},
		{
			name:            "Negative amount",
			balance:         "10",
			amount:          "-1",
			setupMock:       func(m *mocks.UserRepository, tx *mocks.Tx) {},
			expectedBalance: "10",
			expectedErr:     model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := new(mocks.Tx)
			users := new(mocks.UserRepository)
			tt.setupMock(users, tx)
			recorder := &mocks.Recorder{}

			user := &model.User{ID: 1, WalletBalance: decimal.RequireFromString(tt.balance)}
			balance, err := NewLedger(users, recorder, zerolog.Nop()).Debit(ctx, tx, user, decimal.RequireFromString(tt.amount))

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, balance.Equal(decimal.RequireFromString(tt.expectedBalance)), "balance %s", balance)
			assert.True(t, user.WalletBalance.Equal(decimal.RequireFromString(tt.expectedBalance)))
			assert.Len(t, recorder.Entries, tt.expectedAudits)
			users.AssertExpectations(t)
		})
	}
}

func TestLedger_Credit(t *testing.T) {
	ctx := context.Background()
	tx := new(mocks.Tx)

	users := new(mocks.UserRepository)
	users.On("UpdateWalletBalance", ctx, tx, int64(4), decimalEq("150")).Return(nil)
	users.On("CreateHistory", ctx, tx, historyWith("50", model.WalletActionIncrease)).Return(nil)
	recorder := &mocks.Recorder{}

	user := &model.User{ID: 4, WalletBalance: decimal.NewFromInt(100)}
	balance, err := NewLedger(users, recorder, zerolog.Nop()).Credit(ctx, tx, user, decimal.NewFromInt(50))

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(150)))
	require.Len(t, recorder.Entries, 1)
	assert.Equal(t, model.AuditTypeFinancial, recorder.Entries[0].Type)
	assert.Equal(t, "wallet_increase", recorder.Entries[0].Action)
	users.AssertExpectations(t)
}

func TestLedger_StorageFailureKeepsBalance(t *testing.T) {
	ctx := context.Background()
	tx := new(mocks.Tx)

	users := new(mocks.UserRepository)
	users.On("UpdateWalletBalance", ctx, tx, int64(1), mock.Anything).Return(errors.New("connection lost"))

	user := &model.User{ID: 1, WalletBalance: decimal.NewFromInt(100)}
	_, err := NewLedger(users, &mocks.Recorder{}, zerolog.Nop()).Debit(ctx, tx, user, decimal.NewFromInt(30))

	require.Error(t, err)
	assert.True(t, user.WalletBalance.Equal(decimal.NewFromInt(100)))
	users.AssertNotCalled(t, "CreateHistory", mock.Anything, mock.Anything, mock.Anything)
}
