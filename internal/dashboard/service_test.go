package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Summary(ctx context.Context) (*Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Summary), args.Error(1)
}

func (m *MockRepository) Revenue(ctx context.Context, period Period) (*RevenueReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RevenueReport), args.Error(1)
}

func (m *MockRepository) Coaches(ctx context.Context) (*CoachReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CoachReport), args.Error(1)
}

func TestRevenueDefaultsToMonth(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Revenue", mock.Anything, PeriodMonth).Return(&RevenueReport{Period: "month"}, nil)

	report, err := svc.Revenue(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "month", report.Period)
	repo.AssertExpectations(t)
}

func TestRevenueRejectsUnknownPeriod(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	_, err := svc.Revenue(context.Background(), "decade")

	assert.ErrorIs(t, err, ErrInvalidPeriod)
	repo.AssertNotCalled(t, "Revenue", mock.Anything, mock.Anything)
}

func TestRevenueWindowBuckets(t *testing.T) {
	tests := []struct {
		period   Period
		lookback string
		bucket   string
	}{
		{PeriodWeek, "7 days", "day"},
		{PeriodMonth, "1 month", "day"},
		{PeriodQuarter, "3 months", "week"},
		{PeriodYear, "1 year", "month"},
	}

	for _, tt := range tests {
		lookback, bucket := revenueWindow(tt.period)
		assert.Equal(t, tt.lookback, lookback, "period %s", tt.period)
		assert.Equal(t, tt.bucket, bucket, "period %s", tt.period)
	}
}
