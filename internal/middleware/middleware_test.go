package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{name: "Preflight request", method: http.MethodOptions, expectedStatus: http.StatusNoContent},
		{name: "GET request", method: http.MethodGet, expectedStatus: http.StatusOK, expectHandler: true},
		{name: "PATCH request", method: http.MethodPatch, expectedStatus: http.StatusOK, expectHandler: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/api/cart", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
			assert.Equal(t, "Content-Type, Authorization, X-API-Key", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	logger := zerolog.Nop()
	validAPIKey := "test-api-key-123"

	tests := []struct {
		name           string
		path           string
		apiKey         string
		expectedStatus int
		expectHandler  bool
		expectedBody   string
	}{
		{name: "Valid API key", path: "/api/admin/orders", apiKey: validAPIKey, expectedStatus: http.StatusOK, expectHandler: true},
		{
			name:           "Invalid API key",
			path:           "/api/admin/orders",
			apiKey:         "invalid-key",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error": "UNAUTHORIZED", "message": "invalid API key"}`,
		},
		{
			name:           "Missing API key",
			path:           "/api/admin/orders",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error": "UNAUTHORIZED", "message": "missing API key"}`,
		},
		{name: "Health check bypasses auth", path: "/health", expectedStatus: http.StatusOK, expectHandler: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := APIKeyAuth(validAPIKey, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestBearerAuth(t *testing.T) {
	logger := zerolog.Nop()
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedUserID int64
	}{
		{
			name:           "Valid token",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "42", ExpiresAt: future}),
			expectedStatus: http.StatusOK,
			expectedUserID: 42,
		},
		{
			name:           "Missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Not a bearer token",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong secret",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-00"), jwt.RegisteredClaims{Subject: "42", ExpiresAt: future}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired token",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "42", ExpiresAt: past}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Token without expiry",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "42"}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Subject is not a user id",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice", ExpiresAt: future}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unsigned token",
			header:         "Bearer " + signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{Subject: "42", ExpiresAt: future}),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			handler := BearerAuth(testSecret, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := UserIDFromContext(r.Context())
				require.True(t, ok)
				gotUserID = id
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedUserID, gotUserID)
		})
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := UserIDFromContext(req.Context())

	assert.False(t, ok)
}

func TestLogging(t *testing.T) {
	logger := zerolog.Nop()

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusServiceUnavailable} {
		handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, status, w.Code)
	}
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		panicValue     any
		expectedStatus int
	}{
		{name: "No panic", expectedStatus: http.StatusOK},
		{name: "Panic with string", panicValue: "something went wrong", expectedStatus: http.StatusInternalServerError},
		{name: "Panic with error", panicValue: assert.AnError, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.panicValue != nil {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.panicValue != nil {
				assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
			}
		})
	}
}
