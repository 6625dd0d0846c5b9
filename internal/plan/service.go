package plan

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("plan not found")
	ErrInvalidDuration = errors.New("duration_days must be a positive integer")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrPlanInUse       = errors.New("plan has active subscriptions")
)

// SubscriptionCounter reports how many active subscriptions reference a plan.
// The delete guard needs nothing else from the subscription store.
type SubscriptionCounter interface {
	CountActiveForPlan(ctx context.Context, planID int) (int, error)
}

type Service interface {
	Create(ctx context.Context, params CreateParams) (*Plan, error)
	Get(ctx context.Context, id int) (*Plan, error)
	List(ctx context.Context, f ListFilter) (*ListResponse, error)
	Update(ctx context.Context, id int, patch UpdatePatch) (*Plan, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo          Repository
	subscriptions SubscriptionCounter
}

func NewService(repo Repository, subscriptions SubscriptionCounter) Service {
	return &service{repo: repo, subscriptions: subscriptions}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Plan, error) {
	if params.DurationDays <= 0 {
		return nil, ErrInvalidDuration
	}
	if params.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	// New plans are active unless the request says otherwise.
	isActive := true
	if params.IsActive != nil {
		isActive = *params.IsActive
	}

	return s.repo.Create(ctx, &Plan{
		Name:         params.Name,
		Description:  params.Description,
		Price:        params.Price,
		DurationDays: params.DurationDays,
		Features:     params.Features,
		IsActive:     isActive,
	})
}

func (s *service) Get(ctx context.Context, id int) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter) (*ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	plans, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	pages := total / f.Limit
	if total%f.Limit != 0 {
		pages++
	}

	return &ListResponse{
		Total: total,
		Page:  f.Page,
		Pages: pages,
		Plans: plans,
	}, nil
}

func (s *service) Update(ctx context.Context, id int, patch UpdatePatch) (*Plan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		plan.Name = *patch.Name
	}
	if patch.Description != nil {
		plan.Description = patch.Description
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		plan.Price = *patch.Price
	}
	if patch.DurationDays != nil {
		if *patch.DurationDays <= 0 {
			return nil, ErrInvalidDuration
		}
		plan.DurationDays = *patch.DurationDays
	}
	if patch.Features != nil {
		plan.Features = *patch.Features
	}
	if patch.IsActive != nil {
		plan.IsActive = *patch.IsActive
	}

	return s.repo.Update(ctx, plan)
}

// Delete refuses to remove a plan that still has active subscriptions.
// Cancelled and expired subscriptions keep their plan_id, so plans stay
// referenced by history; deactivate a plan instead of deleting it when
// history must survive.
func (s *service) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.subscriptions.CountActiveForPlan(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPlanInUse
	}

	return s.repo.Delete(ctx, id)
}
