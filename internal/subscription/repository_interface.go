package subscription

import (
	"context"
	"time"
)

type Repository interface {
	// WithCoachLock runs fn inside a transaction holding a per-coach
	// advisory lock, so an overlap check and the write it guards are
	// atomic with respect to concurrent writes for the same coach.
	WithCoachLock(ctx context.Context, coachID int, fn func(Repository) error) error

	Create(ctx context.Context, sub *Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id int) (*Subscription, error)
	GetDetails(ctx context.Context, id int) (*WithDetails, error)
	Update(ctx context.Context, sub *Subscription) (*Subscription, error)
	Delete(ctx context.Context, id int) error

	ExistsOverlapping(ctx context.Context, coachID int, start, end time.Time, excludeID int) (bool, error)

	List(ctx context.Context, f ListFilter) ([]WithDetails, int, error)
	ListByCoach(ctx context.Context, coachID int) ([]WithDetails, error)

	CountActiveForCoach(ctx context.Context, coachID int) (int, error)
	CountActiveForPlan(ctx context.Context, planID int) (int, error)

	Stats(ctx context.Context) (*Stats, error)

	ExpiringBetween(ctx context.Context, from, to time.Time, onlyUnnotified bool, limit, offset int) ([]WithDetails, int, error)
	PendingPayments(ctx context.Context, limit, offset int) ([]WithDetails, int, error)

	MarkNotified(ctx context.Context, id int, at time.Time) error
	MarkPaymentReminded(ctx context.Context, id int, at time.Time) error
}
