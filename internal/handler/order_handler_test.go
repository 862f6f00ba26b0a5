package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Submit(ctx context.Context, userID int64, req *model.SubmitOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetForUser(ctx context.Context, userID int64, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// asUser attaches an authenticated user id to the request.
func asUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestOrderHandler_Submit(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()
	order := &model.Order{ID: orderID, UserID: 7, Status: model.OrderStatusProcessing, TotalAmount: decimal.NewFromInt(800)}

	tests := []struct {
		name           string
		body           string
		authenticated  bool
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"addressId": 3, "discountCode": "SPRING"}`,
			authenticated:  true,
			mockReturn:     order,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			body:           `{"addressId": 3}`,
			authenticated:  true,
			mockError:      model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeEmptyCart,
			expectService:  true,
		},
		{
			name:           "Out of stock",
			body:           `{"addressId": 3}`,
			authenticated:  true,
			mockError:      model.NewOutOfStockError(12),
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeOutOfStock,
			expectService:  true,
		},
		{
			name:           "Expired discount",
			body:           `{"addressId": 3, "discountCode": "OLD"}`,
			authenticated:  true,
			mockError:      model.ErrDiscountExpired,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   model.ErrCodeDiscountExpired,
			expectService:  true,
		},
		{
			name:           "Insufficient funds",
			body:           `{"addressId": 3}`,
			authenticated:  true,
			mockError:      model.ErrInsufficientFunds,
			expectedStatus: http.StatusPaymentRequired,
			expectedCode:   model.ErrCodeInsufficientFunds,
			expectService:  true,
		},
		{
			name:           "Storage failure",
			body:           `{"addressId": 3}`,
			authenticated:  true,
			mockError:      model.Transient(errors.New("connection reset")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   model.ErrCodeTransientFailure,
			expectService:  true,
		},
		{
			name:           "Missing address",
			body:           `{"paymentMethod": "cash"}`,
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Invalid JSON",
			body:           `{"addressId":`,
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Unauthenticated",
			body:           `{"addressId": 3}`,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   model.ErrCodeUnauthorised,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Submit", mock.Anything, int64(7), mock.AnythingOfType("*model.SubmitOrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			if tt.authenticated {
				req = asUser(req, 7)
			}
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
				if tt.expectedCode == model.ErrCodeOutOfStock {
					assert.Equal(t, int64(12), resp.ProductID)
				}
				if tt.expectedCode == model.ErrCodeTransientFailure {
					assert.NotContains(t, resp.Message, "connection reset")
				}
			} else {
				var got model.Order
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, orderID, got.ID)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderHandler_GetMine(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()

	tests := []struct {
		name           string
		pathID         string
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Success", pathID: orderID.String(), mockReturn: &model.Order{ID: orderID, UserID: 7}, expectedStatus: http.StatusOK, expectService: true},
		{name: "Order not found", pathID: orderID.String(), mockError: model.NewNotFoundError("order"), expectedStatus: http.StatusNotFound, expectService: true},
		{name: "Invalid UUID format", pathID: "invalid-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetForUser", mock.Anything, int64(7), orderID).Return(tt.mockReturn, tt.mockError)
			}

			req := asUser(httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.pathID, nil), 7)
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()

			handler.GetMine(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "GetForUser", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Filters are passed through", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		mockService.On("List", mock.Anything, mock.MatchedBy(func(f model.OrderFilter) bool {
			return f.Status != nil && *f.Status == model.OrderStatusShipped &&
				f.UserID != nil && *f.UserID == 7 &&
				f.From != nil && f.To == nil &&
				f.Limit == 5 && f.Offset == 10
		})).Return([]model.Order{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=shipped&user_id=7&from=2024-01-01T00:00:00Z&limit=5&offset=10", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Bad parameters are rejected", func(t *testing.T) {
		for _, query := range []string{"user_id=abc", "from=yesterday", "limit=-1", "offset=x"} {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?"+query, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, query)
			mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		}
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Shipped", body: `{"status": "shipped"}`, mockReturn: &model.Order{ID: orderID, Status: model.OrderStatusShipped}, expectedStatus: http.StatusOK, expectService: true},
		{name: "Transition rejected", body: `{"status": "processing"}`, mockError: model.ErrInvalidStatus, expectedStatus: http.StatusUnprocessableEntity, expectService: true},
		{name: "Missing status", body: `{}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("UpdateStatus", mock.Anything, orderID, mock.AnythingOfType("model.OrderStatus")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String()+"/status", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", orderID.String())
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if !tt.expectService {
				mockService.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
