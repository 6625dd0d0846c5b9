package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"coachadmin/internal/metrics"
)

var (
	ErrNotFound             = errors.New("subscription not found")
	ErrCoachNotFound        = errors.New("coach not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrInvalidDateRange     = errors.New("end_date must not be before start_date")
	ErrOverlap              = errors.New("coach already has a subscription for this period")
	ErrInvalidStatus        = errors.New("invalid subscription status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidDuration      = errors.New("duration_days must be a positive integer")
)

// CoachDirectory is the slice of the coach store the lifecycle rules need.
type CoachDirectory interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// PlanDirectory is the slice of the plan store the lifecycle rules need.
type PlanDirectory interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type Service interface {
	Create(ctx context.Context, params CreateParams) (*Subscription, error)
	Get(ctx context.Context, id int) (*WithDetails, error)
	List(ctx context.Context, f ListFilter) (*ListResponse, error)
	Update(ctx context.Context, id int, patch UpdatePatch) (*Subscription, error)
	Renew(ctx context.Context, id, durationDays int) (*Subscription, error)
	Cancel(ctx context.Context, id int, reason string) (*Subscription, error)
	RecordPayment(ctx context.Context, id int, payment PaymentUpdate) (*Subscription, error)
	UpdatePayment(ctx context.Context, id int, patch PaymentPatch) (*Subscription, error)
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (*Stats, error)
	ExpiringSoon(ctx context.Context, days int) ([]WithDetails, error)
	ListByCoach(ctx context.Context, coachID int) ([]WithDetails, error)
}

type service struct {
	repo    Repository
	coaches CoachDirectory
	plans   PlanDirectory
}

func NewService(repo Repository, coaches CoachDirectory, plans PlanDirectory) Service {
	return &service{
		repo:    repo,
		coaches: coaches,
		plans:   plans,
	}
}

// overlaps reports whether two closed date intervals share at least one day.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Subscription, error) {
	if params.EndDate.Before(params.StartDate) {
		return nil, ErrInvalidDateRange
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	paymentStatus := params.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = PaymentPaid
	}
	if !ValidPaymentStatus(paymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	exists, err := s.coaches.Exists(ctx, params.CoachID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCoachNotFound
	}

	exists, err = s.plans.Exists(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPlanNotFound
	}

	var created *Subscription
	err = s.repo.WithCoachLock(ctx, params.CoachID, func(r Repository) error {
		conflict, err := r.ExistsOverlapping(ctx, params.CoachID, params.StartDate, params.EndDate, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrOverlap
		}

		created, err = r.Create(ctx, &Subscription{
			CoachID:       params.CoachID,
			PlanID:        params.PlanID,
			StartDate:     params.StartDate,
			EndDate:       params.EndDate,
			Status:        status,
			PaymentStatus: paymentStatus,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrOverlap) {
			metrics.RecordOverlapConflict()
		}
		return nil, err
	}

	metrics.RecordSubscriptionCreated()
	return created, nil
}

func (s *service) Get(ctx context.Context, id int) (*WithDetails, error) {
	return s.repo.GetDetails(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter) (*ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	subs, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	pages := total / f.Limit
	if total%f.Limit != 0 {
		pages++
	}

	return &ListResponse{
		Total:         total,
		Page:          f.Page,
		Pages:         pages,
		Subscriptions: subs,
	}, nil
}

func (s *service) Update(ctx context.Context, id int, patch UpdatePatch) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.CoachID != nil && *patch.CoachID != sub.CoachID {
		exists, err := s.coaches.Exists(ctx, *patch.CoachID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrCoachNotFound
		}
	}

	if patch.PlanID != nil && *patch.PlanID != sub.PlanID {
		exists, err := s.plans.Exists(ctx, *patch.PlanID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrPlanNotFound
		}
	}

	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, ErrInvalidStatus
	}
	if patch.PaymentStatus != nil && !ValidPaymentStatus(*patch.PaymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	newCoachID := sub.CoachID
	if patch.CoachID != nil {
		newCoachID = *patch.CoachID
	}
	newStart := sub.StartDate
	if patch.StartDate != nil {
		newStart = *patch.StartDate
	}
	newEnd := sub.EndDate
	if patch.EndDate != nil {
		newEnd = *patch.EndDate
	}

	if newEnd.Before(newStart) {
		return nil, ErrInvalidDateRange
	}

	needsOverlapCheck := patch.StartDate != nil || patch.EndDate != nil || newCoachID != sub.CoachID

	var updated *Subscription
	err = s.repo.WithCoachLock(ctx, newCoachID, func(r Repository) error {
		if needsOverlapCheck {
			conflict, err := r.ExistsOverlapping(ctx, newCoachID, newStart, newEnd, sub.ID)
			if err != nil {
				return err
			}
			if conflict {
				return ErrOverlap
			}
		}

		sub.CoachID = newCoachID
		if patch.PlanID != nil {
			sub.PlanID = *patch.PlanID
		}
		sub.StartDate = newStart
		sub.EndDate = newEnd
		if patch.Status != nil {
			sub.Status = *patch.Status
		}
		if patch.PaymentStatus != nil {
			sub.PaymentStatus = *patch.PaymentStatus
		}

		var err error
		updated, err = r.Update(ctx, sub)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrOverlap) {
			metrics.RecordOverlapConflict()
		}
		return nil, err
	}

	return updated, nil
}

// Renew extends the subscription by durationDays past its current end date.
// The overlap check is anchored at the old end date: a renewal extends
// committed time rather than opening a new period.
func (s *service) Renew(ctx context.Context, id, durationDays int) (*Subscription, error) {
	if durationDays <= 0 {
		return nil, ErrInvalidDuration
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldEnd := sub.EndDate
	newEnd := oldEnd.AddDate(0, 0, durationDays)

	var renewed *Subscription
	err = s.repo.WithCoachLock(ctx, sub.CoachID, func(r Repository) error {
		conflict, err := r.ExistsOverlapping(ctx, sub.CoachID, oldEnd, newEnd, sub.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrOverlap
		}

		sub.EndDate = newEnd
		sub.Status = StatusActive

		renewed, err = r.Update(ctx, sub)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrOverlap) {
			metrics.RecordOverlapConflict()
		}
		return nil, err
	}

	metrics.RecordSubscriptionRenewed()
	return renewed, nil
}

// Cancel narrows the coach's committed time, so no overlap check is needed.
// Cancelling an already cancelled subscription is not an error.
func (s *service) Cancel(ctx context.Context, id int, reason string) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = "Cancelled by admin"
	}
	now := time.Now()

	sub.Status = StatusCancelled
	sub.CancellationReason = &reason
	sub.CancelledAt = &now

	cancelled, err := s.repo.Update(ctx, sub)
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionCancelled()
	return cancelled, nil
}

func (s *service) RecordPayment(ctx context.Context, id int, payment PaymentUpdate) (*Subscription, error) {
	if !ValidPaymentStatus(payment.Status) {
		return nil, ErrInvalidPaymentStatus
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	method := payment.Method
	if method == "" {
		method = "manual"
	}
	reference := payment.Reference
	if reference == "" {
		reference = uuid.NewString()
	}
	now := time.Now()

	sub.PaymentStatus = payment.Status
	sub.PaymentDate = &now
	sub.PaymentMethod = &method
	sub.PaymentReference = &reference
	sub.PaymentNotes = &payment.Notes

	// A successful payment reactivates a non-active subscription.
	if payment.Status == PaymentPaid && sub.Status != StatusActive {
		sub.Status = StatusActive
	}

	updated, err := s.repo.Update(ctx, sub)
	if err != nil {
		return nil, err
	}

	metrics.RecordPayment(string(payment.Status))
	return updated, nil
}

func (s *service) UpdatePayment(ctx context.Context, id int, patch PaymentPatch) (*Subscription, error) {
	if patch.Status != nil && !ValidPaymentStatus(*patch.Status) {
		return nil, ErrInvalidPaymentStatus
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		sub.PaymentStatus = *patch.Status
		if *patch.Status == PaymentPaid && sub.Status != StatusActive {
			sub.Status = StatusActive
		}
	}
	if patch.Method != nil {
		sub.PaymentMethod = patch.Method
	}
	if patch.Reference != nil {
		sub.PaymentReference = patch.Reference
	}
	if patch.Notes != nil {
		sub.PaymentNotes = patch.Notes
	}

	return s.repo.Update(ctx, sub)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *service) ExpiringSoon(ctx context.Context, days int) ([]WithDetails, error) {
	if days <= 0 {
		days = 7
	}
	today := time.Now().Truncate(24 * time.Hour)
	subs, _, err := s.repo.ExpiringBetween(ctx, today, today.AddDate(0, 0, days), false, 0, 0)
	return subs, err
}

func (s *service) ListByCoach(ctx context.Context, coachID int) ([]WithDetails, error) {
	return s.repo.ListByCoach(ctx, coachID)
}
