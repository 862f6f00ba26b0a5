package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) MostSold(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) HomePage(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id int64, withTrashed bool) (*model.Product, error) {
	args := m.Called(ctx, id, withTrashed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input *model.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, input *model.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) Restore(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) Destroy(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestProductHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	testProducts := []model.Product{
		{ID: 1, Title: "Kettle", Price: decimal.NewFromInt(800), Status: model.StatusActive, CreatedAt: time.Now()},
		{ID: 2, Title: "Toaster", Price: decimal.NewFromInt(1200), Status: model.StatusActive, CreatedAt: time.Now()},
	}
	categoryID := int64(4)

	tests := []struct {
		name           string
		queryParams    string
		expectedFilter model.ProductFilter
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success with default pagination",
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:        "Search, category and ordering",
			queryParams: "?search=kettle&category=4&order_by=most_sold&limit=5&offset=10",
			expectedFilter: model.ProductFilter{
				Search:     "kettle",
				CategoryID: &categoryID,
				OrderBy:    model.OrderByMostSold,
				Limit:      5,
				Offset:     10,
			},
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid limit parameter",
			queryParams:    "?limit=invalid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid category parameter",
			queryParams:    "?category=0",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown ordering",
			queryParams:    "?order_by=cheapest",
			expectedFilter: model.ProductFilter{OrderBy: "cheapest"},
			mockError:      model.NewValidationError("unknown ordering"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Service error",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("List", mock.Anything, tt.expectedFilter).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductHandler_ListTrashed(t *testing.T) {
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, zerolog.Nop())

	mockService.On("List", mock.Anything, model.ProductFilter{Status: model.StatusDeleted}).
		Return([]model.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products/trashed", nil)
	w := httptest.NewRecorder()

	handler.ListTrashed(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	product := &model.Product{ID: 3, Title: "Kettle", Price: decimal.NewFromInt(800), Status: model.StatusActive}

	tests := []struct {
		name           string
		pathID         string
		admin          bool
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Success", pathID: "3", mockReturn: product, expectedStatus: http.StatusOK, expectService: true},
		{name: "Admin sees trashed", pathID: "3", admin: true, mockReturn: product, expectedStatus: http.StatusOK, expectService: true},
		{name: "Product not found", pathID: "3", mockError: model.NewNotFoundError("product"), expectedStatus: http.StatusNotFound, expectService: true},
		{name: "Non-numeric ID", pathID: "abc", expectedStatus: http.StatusBadRequest},
		{name: "Zero ID", pathID: "0", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, int64(3), tt.admin).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products/"+tt.pathID, nil)
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()

			if tt.admin {
				handler.AdminGetByID(w, req)
			} else {
				handler.GetByID(w, req)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var got model.Product
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, "Kettle", got.Title)
				assert.True(t, got.Price.Equal(decimal.NewFromInt(800)))
			}

			if !tt.expectService {
				mockService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		body           string
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"title": "Kettle", "description": "Steel", "features": ["1.7l"], "image1": "kettle.png", "stock": 10, "beforeDiscountPrice": "1000", "discountPercentage": "20"}`,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Missing title",
			body:           `{"description": "Steel", "image1": "kettle.png", "stock": 10, "beforeDiscountPrice": "1000"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Negative stock",
			body:           `{"title": "Kettle", "description": "Steel", "image1": "kettle.png", "stock": -1, "beforeDiscountPrice": "1000"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Unknown field",
			body:           `{"title": "Kettle", "price": "800"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Duplicate title",
			body:           `{"title": "Kettle", "description": "Steel", "image1": "kettle.png", "stock": 10, "beforeDiscountPrice": "1000"}`,
			mockError:      model.ErrDuplicate,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeDuplicate,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				var created *model.Product
				if tt.mockError == nil {
					created = &model.Product{ID: 11, Title: "Kettle", Price: decimal.NewFromInt(800)}
				}
				mockService.On("Create", mock.Anything, mock.MatchedBy(func(in *model.ProductInput) bool {
					return in.Title == "Kettle" && in.BeforeDiscountPrice.Equal(decimal.NewFromInt(1000))
				})).Return(created, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductHandler_Lifecycle(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		method         string
		call           func(h *ProductHandler) http.HandlerFunc
		mockError      error
		expectedStatus int
	}{
		{name: "Soft delete", method: "SoftDelete", call: func(h *ProductHandler) http.HandlerFunc { return h.SoftDelete }, expectedStatus: http.StatusNoContent},
		{name: "Restore", method: "Restore", call: func(h *ProductHandler) http.HandlerFunc { return h.Restore }, expectedStatus: http.StatusNoContent},
		{name: "Destroy", method: "Destroy", call: func(h *ProductHandler) http.HandlerFunc { return h.Destroy }, expectedStatus: http.StatusNoContent},
		{name: "Destroy missing product", method: "Destroy", call: func(h *ProductHandler) http.HandlerFunc { return h.Destroy }, mockError: model.NewNotFoundError("product"), expectedStatus: http.StatusNotFound},
		{name: "Soft delete storage failure", method: "SoftDelete", call: func(h *ProductHandler) http.HandlerFunc { return h.SoftDelete }, mockError: model.Transient(errors.New("timeout")), expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			mockService.On(tt.method, mock.Anything, int64(9)).Return(tt.mockError)

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/9", nil)
			req.SetPathValue("id", "9")
			w := httptest.NewRecorder()

			tt.call(handler)(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
