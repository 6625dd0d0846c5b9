package payment

import (
	"context"
	"errors"

	"coachadmin/internal/subscription"
)

var ErrNotFound = errors.New("payment not found")

// Recorder is the slice of the subscription service payments write through.
// Writes go through the subscription lifecycle so the reactivation rule runs
// in one place.
type Recorder interface {
	RecordPayment(ctx context.Context, id int, payment subscription.PaymentUpdate) (*subscription.Subscription, error)
	UpdatePayment(ctx context.Context, id int, patch subscription.PaymentPatch) (*subscription.Subscription, error)
}

type Service interface {
	Get(ctx context.Context, subscriptionID int) (*Payment, error)
	List(ctx context.Context, f ListFilter) (*ListResponse, error)
	Recent(ctx context.Context, limit int) ([]Payment, error)
	Stats(ctx context.Context) (*Stats, error)
	Record(ctx context.Context, subscriptionID int, update subscription.PaymentUpdate) (*Payment, error)
	Update(ctx context.Context, subscriptionID int, patch subscription.PaymentPatch) (*Payment, error)
}

type service struct {
	repo          Repository
	subscriptions Recorder
}

func NewService(repo Repository, subscriptions Recorder) Service {
	return &service{repo: repo, subscriptions: subscriptions}
}

func (s *service) Get(ctx context.Context, subscriptionID int) (*Payment, error) {
	return s.repo.GetBySubscriptionID(ctx, subscriptionID)
}

func (s *service) List(ctx context.Context, f ListFilter) (*ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	payments, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	pages := total / f.Limit
	if total%f.Limit != 0 {
		pages++
	}

	return &ListResponse{
		Total:    total,
		Page:     f.Page,
		Pages:    pages,
		Payments: payments,
	}, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Payment, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.Recent(ctx, limit)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *service) Record(ctx context.Context, subscriptionID int, update subscription.PaymentUpdate) (*Payment, error) {
	if _, err := s.subscriptions.RecordPayment(ctx, subscriptionID, update); err != nil {
		return nil, err
	}
	return s.repo.GetBySubscriptionID(ctx, subscriptionID)
}

func (s *service) Update(ctx context.Context, subscriptionID int, patch subscription.PaymentPatch) (*Payment, error) {
	if _, err := s.subscriptions.UpdatePayment(ctx, subscriptionID, patch); err != nil {
		return nil, err
	}
	return s.repo.GetBySubscriptionID(ctx, subscriptionID)
}
