package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string
type PaymentStatus string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"

	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
)

func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusExpired || s == StatusCancelled
}

func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentPaid || s == PaymentPending || s == PaymentFailed
}

type Subscription struct {
	ID                      int           `db:"id" json:"id"`
	CoachID                 int           `db:"coach_id" json:"coach_id"`
	PlanID                  int           `db:"plan_id" json:"plan_id"`
	StartDate               time.Time     `db:"start_date" json:"start_date"`
	EndDate                 time.Time     `db:"end_date" json:"end_date"`
	Status                  Status        `db:"status" json:"status"`
	PaymentStatus           PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentDate             *time.Time    `db:"payment_date" json:"payment_date,omitempty"`
	PaymentMethod           *string       `db:"payment_method" json:"payment_method,omitempty"`
	PaymentReference        *string       `db:"payment_reference" json:"payment_reference,omitempty"`
	PaymentNotes            *string       `db:"payment_notes" json:"payment_notes,omitempty"`
	CancellationReason      *string       `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledAt             *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
	NotificationSent        bool          `db:"notification_sent" json:"notification_sent"`
	LastNotificationDate    *time.Time    `db:"last_notification_date" json:"last_notification_date,omitempty"`
	PaymentReminderSent     bool          `db:"payment_reminder_sent" json:"payment_reminder_sent"`
	LastPaymentReminderDate *time.Time    `db:"last_payment_reminder_date" json:"last_payment_reminder_date,omitempty"`
	CreatedAt               time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time     `db:"updated_at" json:"updated_at"`
}

// WithDetails joins the owning coach and plan onto a subscription row for
// list and report endpoints.
type WithDetails struct {
	Subscription
	CoachName  string          `db:"coach_name" json:"coach_name"`
	CoachEmail string          `db:"coach_email" json:"coach_email"`
	PlanName   string          `db:"plan_name" json:"plan_name"`
	PlanPrice  decimal.Decimal `db:"plan_price" json:"plan_price"`
}

// CreateParams carries the validated input of a create operation. Empty
// Status/PaymentStatus select the defaults (active/paid).
type CreateParams struct {
	CoachID       int
	PlanID        int
	StartDate     time.Time
	EndDate       time.Time
	Status        Status
	PaymentStatus PaymentStatus
}

// UpdatePatch is a partial update. Nil means "leave unchanged", so explicit
// zero values survive the merge.
type UpdatePatch struct {
	CoachID       *int
	PlanID        *int
	StartDate     *time.Time
	EndDate       *time.Time
	Status        *Status
	PaymentStatus *PaymentStatus
}

// PaymentUpdate carries the input of a record-payment operation.
type PaymentUpdate struct {
	Status    PaymentStatus
	Method    string
	Reference string
	Notes     string
}

// PaymentPatch is a partial payment update. Nil leaves the field unchanged.
type PaymentPatch struct {
	Status    *PaymentStatus
	Method    *string
	Reference *string
	Notes     *string
}

// ListFilter narrows and paginates subscription listings.
type ListFilter struct {
	Status        Status
	PaymentStatus PaymentStatus
	CoachID       int
	PlanID        int
	StartFrom     *time.Time
	StartTo       *time.Time
	Page          int
	Limit         int
}

type ListResponse struct {
	Total         int           `json:"total"`
	Page          int           `json:"page"`
	Pages         int           `json:"pages"`
	Subscriptions []WithDetails `json:"subscriptions"`
}

type StatusCount struct {
	Status Status `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type PaymentStatusCount struct {
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	Count         int           `db:"count" json:"count"`
}

type PlanCount struct {
	PlanID   int    `db:"plan_id" json:"plan_id"`
	PlanName string `db:"plan_name" json:"plan_name"`
	Count    int    `db:"count" json:"count"`
}

type Stats struct {
	StatusCounts         []StatusCount        `json:"status_counts"`
	PaymentStatusCounts  []PaymentStatusCount `json:"payment_status_counts"`
	TotalRevenue         decimal.Decimal      `json:"total_revenue"`
	SubscriptionsPerPlan []PlanCount          `json:"subscriptions_per_plan"`
}

// HTTP request bodies. Dates travel as YYYY-MM-DD strings and are parsed in
// the handler before reaching the service.
type CreateRequest struct {
	CoachID       int    `json:"coach_id" binding:"required"`
	PlanID        int    `json:"plan_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type UpdateRequest struct {
	CoachID       *int    `json:"coach_id"`
	PlanID        *int    `json:"plan_id"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

type RenewRequest struct {
	DurationDays int `json:"duration_days" binding:"required"`
}

type CancelRequest struct {
	CancellationReason string `json:"cancellation_reason"`
}
