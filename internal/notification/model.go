package notification

import "coachadmin/internal/subscription"

// CandidateList is one section of the overview: the rows on the current page
// plus the unpaginated total.
type CandidateList struct {
	Total int                        `json:"total"`
	Items []subscription.WithDetails `json:"items"`
}

// Overview mirrors the three things the back office chases: renewals coming
// up, renewals already missed, and unpaid subscriptions.
type Overview struct {
	Expiring        CandidateList `json:"expiring"`
	RecentlyExpired CandidateList `json:"recently_expired"`
	PendingPayments CandidateList `json:"pending_payments"`
}

type BulkFailure struct {
	SubscriptionID int    `json:"subscription_id"`
	Error          string `json:"error"`
}

type BulkResult struct {
	Sent     []int         `json:"sent"`
	Failures []BulkFailure `json:"failures"`
}

// Settings hold the notification knobs. They live in memory only; defaults
// are restored on restart.
type Settings struct {
	ExpiringWindowDays int    `json:"expiring_window_days"`
	EmailEnabled       bool   `json:"email_enabled"`
	RenewalSubject     string `json:"renewal_subject"`
	PaymentSubject     string `json:"payment_subject"`
}

func DefaultSettings() Settings {
	return Settings{
		ExpiringWindowDays: 7,
		EmailEnabled:       true,
		RenewalSubject:     "Your subscription expires soon",
		PaymentSubject:     "Payment reminder for your subscription",
	}
}

type SettingsRequest struct {
	ExpiringWindowDays *int    `json:"expiring_window_days"`
	EmailEnabled       *bool   `json:"email_enabled"`
	RenewalSubject     *string `json:"renewal_subject"`
	PaymentSubject     *string `json:"payment_subject"`
}

type BulkRequest struct {
	Days int `json:"days"`
}
