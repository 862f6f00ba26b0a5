package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWalletService is a mock implementation of WalletService.
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) Get(ctx context.Context, userID int64) (*model.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallet), args.Error(1)
}

func (m *MockWalletService) History(ctx context.Context, userID int64, limit, offset int) ([]model.WalletHistory, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WalletHistory), args.Error(1)
}

func (m *MockWalletService) Adjust(ctx context.Context, userID int64, amount decimal.Decimal) (*model.Wallet, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallet), args.Error(1)
}

func TestWalletHandler_Get(t *testing.T) {
	mockService := new(MockWalletService)
	handler := NewWalletHandler(mockService, zerolog.Nop())

	mockService.On("Get", mock.Anything, int64(7)).
		Return(&model.Wallet{Balance: decimal.RequireFromString("1200.50"), History: []model.WalletHistory{}}, nil)

	w := httptest.NewRecorder()
	handler.Get(w, asUser(httptest.NewRequest(http.MethodGet, "/api/wallet", nil), 7))

	require.Equal(t, http.StatusOK, w.Code)

	var got model.Wallet
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1200.5")))
	mockService.AssertExpectations(t)
}

func TestWalletHandler_Adjust(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		pathID         string
		body           string
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Credit", pathID: "7", body: `{"amount": "250"}`, expectedStatus: http.StatusOK, expectService: true},
		{name: "Debit beyond balance", pathID: "7", body: `{"amount": "-5000"}`, mockError: model.ErrInsufficientFunds, expectedStatus: http.StatusPaymentRequired, expectService: true},
		{name: "Unknown user", pathID: "7", body: `{"amount": "10"}`, mockError: model.NewNotFoundError("user"), expectedStatus: http.StatusNotFound, expectService: true},
		{name: "Invalid user ID", pathID: "x", body: `{"amount": "10"}`, expectedStatus: http.StatusBadRequest},
		{name: "Malformed amount", pathID: "7", body: `{"amount": "ten"}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockWalletService)
			handler := NewWalletHandler(mockService, logger)

			if tt.expectService {
				var wallet *model.Wallet
				if tt.mockError == nil {
					wallet = &model.Wallet{Balance: decimal.NewFromInt(250)}
				}
				mockService.On("Adjust", mock.Anything, int64(7), mock.AnythingOfType("decimal.Decimal")).
					Return(wallet, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/users/"+tt.pathID+"/wallet", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()

			handler.Adjust(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestRespondError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	respondError(w, assert.AnError, zerolog.Nop())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeInternalError, resp.Error)
	assert.NotContains(t, resp.Message, assert.AnError.Error())
}
