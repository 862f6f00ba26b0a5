package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/testutil/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsApplicable(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		discount *model.Discount
		expected bool
	}{
		{name: "Nil discount", discount: nil, expected: false},
		{name: "Active without expiry", discount: &model.Discount{Status: model.StatusActive}, expected: true},
		{name: "Active and not yet expired", discount: &model.Discount{Status: model.StatusActive, ExpiresAt: &future}, expected: true},
		{name: "Expired", discount: &model.Discount{Status: model.StatusActive, ExpiresAt: &past}, expected: false},
		{name: "Expires exactly now", discount: &model.Discount{Status: model.StatusActive, ExpiresAt: &now}, expected: true},
		{name: "Soft deleted", discount: &model.Discount{Status: model.StatusDeleted}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsApplicable(tt.discount, now))
		})
	}
}

func TestResolver_ResolveApplicable(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	past := now.Add(-24 * time.Hour)

	active := &model.Discount{ID: 1, Code: "SPRING", Percentage: decimal.NewFromInt(10), Status: model.StatusActive}
	expired := &model.Discount{ID: 2, Code: "OLD", Percentage: decimal.NewFromInt(10), Status: model.StatusActive, ExpiresAt: &past}
	deleted := &model.Discount{ID: 3, Code: "GONE", Percentage: decimal.NewFromInt(10), Status: model.StatusDeleted}

	tests := []struct {
		name        string
		code        string
		setupMock   func(*mocks.DiscountRepository)
		expected    *model.Discount
		expectedErr error
	}{
		{
			name:      "Applicable code",
			code:      " SPRING ",
			setupMock: func(m *mocks.DiscountRepository) { m.On("GetByCode", ctx, "SPRING").Return(active, nil) },
			expected:  active,
		},
		{
			name:        "Expired code",
			code:        "OLD",
			setupMock:   func(m *mocks.DiscountRepository) { m.On("GetByCode", ctx, "OLD").Return(expired, nil) },
			expectedErr: model.ErrDiscountExpired,
		},
		{
			name:        "Deleted code",
			code:        "GONE",
			setupMock:   func(m *mocks.DiscountRepository) { m.On("GetByCode", ctx, "GONE").Return(deleted, nil) },
			expectedErr: model.ErrDiscountExpired,
		},
		{
			name:        "Unknown code",
			code:        "NOPE",
			setupMock:   func(m *mocks.DiscountRepository) { m.On("GetByCode", ctx, "NOPE").Return(nil, nil) },
			expectedErr: model.ErrDiscountNotFound,
		},
		{
			name:        "Blank code",
			code:        "  ",
			setupMock:   func(m *mocks.DiscountRepository) {},
			expectedErr: model.ErrDiscountNotFound,
		},
		{
			name: "Storage failure",
			code: "SPRING",
			setupMock: func(m *mocks.DiscountRepository) {
				m.On("GetByCode", ctx, "SPRING").Return(nil, errors.New("conn reset"))
			},
			expectedErr: model.ErrTransientFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.DiscountRepository)
			tt.setupMock(repo)

			got, err := NewResolver(repo, zerolog.Nop()).ResolveApplicable(ctx, tt.code, now)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestResolver_ResolveReturnsDeleted(t *testing.T) {
	ctx := context.Background()
	deleted := &model.Discount{ID: 3, Code: "GONE", Status: model.StatusDeleted}

	repo := new(mocks.DiscountRepository)
	repo.On("GetByCode", ctx, "GONE").Return(deleted, nil)

	got, err := NewResolver(repo, zerolog.Nop()).Resolve(ctx, "GONE")
	require.NoError(t, err)
	assert.Equal(t, deleted, got)
}
