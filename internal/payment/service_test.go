package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coachadmin/internal/subscription"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetBySubscriptionID(ctx context.Context, id int) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]Payment, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Payment), args.Int(1), args.Error(2)
}

func (m *MockRepository) Recent(ctx context.Context, limit int) ([]Payment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

func (m *MockRepository) Stats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordPayment(ctx context.Context, id int, payment subscription.PaymentUpdate) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockRecorder) UpdatePayment(ctx context.Context, id int, patch subscription.PaymentPatch) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func TestRecordDelegatesToSubscriptionService(t *testing.T) {
	repo := new(MockRepository)
	recorder := new(MockRecorder)
	svc := NewService(repo, recorder)

	recorder.On("RecordPayment", mock.Anything, 5, mock.MatchedBy(func(u subscription.PaymentUpdate) bool {
		return u.Status == subscription.PaymentPaid && u.Method == "bank_transfer"
	})).Return(&subscription.Subscription{ID: 5}, nil)
	repo.On("GetBySubscriptionID", mock.Anything, 5).Return(&Payment{
		SubscriptionID: 5, PaymentStatus: "paid",
	}, nil)

	payment, err := svc.Record(context.Background(), 5, subscription.PaymentUpdate{
		Status: subscription.PaymentPaid,
		Method: "bank_transfer",
	})

	require.NoError(t, err)
	assert.Equal(t, "paid", payment.PaymentStatus)
	recorder.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestRecordPropagatesLifecycleErrors(t *testing.T) {
	repo := new(MockRepository)
	recorder := new(MockRecorder)
	svc := NewService(repo, recorder)

	recorder.On("RecordPayment", mock.Anything, 404, mock.Anything).Return(nil, subscription.ErrNotFound)

	_, err := svc.Record(context.Background(), 404, subscription.PaymentUpdate{
		Status: subscription.PaymentPaid,
	})

	assert.ErrorIs(t, err, subscription.ErrNotFound)
	repo.AssertNotCalled(t, "GetBySubscriptionID", mock.Anything, mock.Anything)
}

func TestUpdateDelegatesPatch(t *testing.T) {
	repo := new(MockRepository)
	recorder := new(MockRecorder)
	svc := NewService(repo, recorder)

	recorder.On("UpdatePayment", mock.Anything, 5, mock.MatchedBy(func(p subscription.PaymentPatch) bool {
		return p.Status != nil && *p.Status == subscription.PaymentFailed && p.Method == nil
	})).Return(&subscription.Subscription{ID: 5}, nil)
	repo.On("GetBySubscriptionID", mock.Anything, 5).Return(&Payment{SubscriptionID: 5}, nil)

	failed := subscription.PaymentFailed
	_, err := svc.Update(context.Background(), 5, subscription.PaymentPatch{Status: &failed})

	require.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestListComputesPages(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockRecorder))

	repo.On("List", mock.Anything, mock.MatchedBy(func(f ListFilter) bool {
		return f.Page == 1 && f.Limit == 10
	})).Return([]Payment{}, 15, nil)

	resp, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Pages)
}

func TestRecentDefaultsLimit(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockRecorder))

	repo.On("Recent", mock.Anything, 10).Return([]Payment{}, nil)

	_, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
