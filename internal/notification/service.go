package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"coachadmin/internal/logger"
	"coachadmin/internal/subscription"
)

var (
	ErrNotFound         = errors.New("subscription not found")
	ErrNoPendingPayment = errors.New("subscription has no pending payment")
	ErrEmailDisabled    = errors.New("email notifications are disabled")
)

// SubscriptionStore is the slice of the subscription repository the
// notification flows read and flag.
type SubscriptionStore interface {
	GetDetails(ctx context.Context, id int) (*subscription.WithDetails, error)
	ExpiringBetween(ctx context.Context, from, to time.Time, onlyUnnotified bool, limit, offset int) ([]subscription.WithDetails, int, error)
	PendingPayments(ctx context.Context, limit, offset int) ([]subscription.WithDetails, int, error)
	MarkNotified(ctx context.Context, id int, at time.Time) error
	MarkPaymentReminded(ctx context.Context, id int, at time.Time) error
}

// Notifier queues outbound messages; internal/email implements it.
type Notifier interface {
	SendRenewalReminder(ctx context.Context, email, name, planName string, endDate time.Time) error
	SendPaymentReminder(ctx context.Context, email, name, planName string, amount decimal.Decimal) error
}

type Service interface {
	Overview(ctx context.Context, page, limit int) (*Overview, error)
	SendExpiring(ctx context.Context, id int) (*subscription.WithDetails, error)
	SendPaymentReminder(ctx context.Context, id int) (*subscription.WithDetails, error)
	SendBulkExpiring(ctx context.Context, days int) (*BulkResult, error)
	GetSettings() Settings
	UpdateSettings(req SettingsRequest) Settings
}

type service struct {
	store    SubscriptionStore
	notifier Notifier

	mu       sync.RWMutex
	settings Settings
}

func NewService(store SubscriptionStore, notifier Notifier) Service {
	return &service{
		store:    store,
		notifier: notifier,
		settings: DefaultSettings(),
	}
}

func today() time.Time {
	return time.Now().Truncate(24 * time.Hour)
}

func (s *service) Overview(ctx context.Context, page, limit int) (*Overview, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	now := today()
	window := s.GetSettings().ExpiringWindowDays

	expiring, expiringTotal, err := s.store.ExpiringBetween(ctx, now, now.AddDate(0, 0, window), false, limit, offset)
	if err != nil {
		return nil, err
	}

	// Subscriptions past their end date whose status has not been flipped
	// yet; same query shape, window behind today.
	expired, expiredTotal, err := s.store.ExpiringBetween(ctx, now.AddDate(0, 0, -7), now, false, limit, offset)
	if err != nil {
		return nil, err
	}

	pending, pendingTotal, err := s.store.PendingPayments(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Expiring:        CandidateList{Total: expiringTotal, Items: expiring},
		RecentlyExpired: CandidateList{Total: expiredTotal, Items: expired},
		PendingPayments: CandidateList{Total: pendingTotal, Items: pending},
	}, nil
}

func (s *service) SendExpiring(ctx context.Context, id int) (*subscription.WithDetails, error) {
	if !s.GetSettings().EmailEnabled {
		return nil, ErrEmailDisabled
	}

	sub, err := s.store.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.notifier.SendRenewalReminder(ctx, sub.CoachEmail, sub.CoachName, sub.PlanName, sub.EndDate); err != nil {
		return nil, err
	}

	if err := s.store.MarkNotified(ctx, id, time.Now()); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *service) SendPaymentReminder(ctx context.Context, id int) (*subscription.WithDetails, error) {
	if !s.GetSettings().EmailEnabled {
		return nil, ErrEmailDisabled
	}

	sub, err := s.store.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if sub.PaymentStatus != subscription.PaymentPending {
		return nil, ErrNoPendingPayment
	}

	if err := s.notifier.SendPaymentReminder(ctx, sub.CoachEmail, sub.CoachName, sub.PlanName, sub.PlanPrice); err != nil {
		return nil, err
	}

	if err := s.store.MarkPaymentReminded(ctx, id, time.Now()); err != nil {
		return nil, err
	}

	return sub, nil
}

// SendBulkExpiring notifies every unnotified active subscription ending
// within the window. Rows are processed independently; one failure does not
// abort the rest.
func (s *service) SendBulkExpiring(ctx context.Context, days int) (*BulkResult, error) {
	if !s.GetSettings().EmailEnabled {
		return nil, ErrEmailDisabled
	}
	if days <= 0 {
		days = s.GetSettings().ExpiringWindowDays
	}

	now := today()
	candidates, _, err := s.store.ExpiringBetween(ctx, now, now.AddDate(0, 0, days), true, 0, 0)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{Sent: []int{}, Failures: []BulkFailure{}}
	for _, sub := range candidates {
		if err := s.notifier.SendRenewalReminder(ctx, sub.CoachEmail, sub.CoachName, sub.PlanName, sub.EndDate); err != nil {
			logger.Errorf("bulk expiring: queueing for subscription %d failed: %v", sub.ID, err)
			result.Failures = append(result.Failures, BulkFailure{SubscriptionID: sub.ID, Error: err.Error()})
			continue
		}
		if err := s.store.MarkNotified(ctx, sub.ID, time.Now()); err != nil {
			logger.Errorf("bulk expiring: flagging subscription %d failed: %v", sub.ID, err)
			result.Failures = append(result.Failures, BulkFailure{SubscriptionID: sub.ID, Error: err.Error()})
			continue
		}
		result.Sent = append(result.Sent, sub.ID)
	}

	return result, nil
}

func (s *service) GetSettings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *service) UpdateSettings(req SettingsRequest) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ExpiringWindowDays != nil && *req.ExpiringWindowDays > 0 {
		s.settings.ExpiringWindowDays = *req.ExpiringWindowDays
	}
	if req.EmailEnabled != nil {
		s.settings.EmailEnabled = *req.EmailEnabled
	}
	if req.RenewalSubject != nil && *req.RenewalSubject != "" {
		s.settings.RenewalSubject = *req.RenewalSubject
	}
	if req.PaymentSubject != nil && *req.PaymentSubject != "" {
		s.settings.PaymentSubject = *req.PaymentSubject
	}

	return s.settings
}
