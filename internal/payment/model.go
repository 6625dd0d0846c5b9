package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a reporting projection: one row per subscription, read from the
// payment columns of the subscriptions table joined with coach and plan.
type Payment struct {
	SubscriptionID   int             `db:"subscription_id" json:"subscription_id"`
	CoachID          int             `db:"coach_id" json:"coach_id"`
	CoachName        string          `db:"coach_name" json:"coach_name"`
	PlanID           int             `db:"plan_id" json:"plan_id"`
	PlanName         string          `db:"plan_name" json:"plan_name"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	Status           string          `db:"status" json:"status"`
	PaymentStatus    string          `db:"payment_status" json:"payment_status"`
	PaymentDate      *time.Time      `db:"payment_date" json:"payment_date"`
	PaymentMethod    *string         `db:"payment_method" json:"payment_method"`
	PaymentReference *string         `db:"payment_reference" json:"payment_reference"`
	PaymentNotes     *string         `db:"payment_notes" json:"payment_notes"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

type ListFilter struct {
	PaymentStatus string
	Method        string
	CoachID       int
	PlanID        int
	PaidFrom      *time.Time
	PaidTo        *time.Time
	Page          int
	Limit         int
}

type ListResponse struct {
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Payments []Payment `json:"payments"`
}

type StatusTotal struct {
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	Count         int             `db:"count" json:"count"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
}

type MethodTotal struct {
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	Count         int             `db:"count" json:"count"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
}

type MonthlyTotal struct {
	Month  time.Time       `db:"month" json:"month"`
	Count  int             `db:"count" json:"count"`
	Amount decimal.Decimal `db:"amount" json:"amount"`
}

type Stats struct {
	ByStatus []StatusTotal  `json:"by_status"`
	ByMethod []MethodTotal  `json:"by_method"`
	Monthly  []MonthlyTotal `json:"monthly"`
}

// RecordRequest is the POST /api/payments body.
type RecordRequest struct {
	SubscriptionID int    `json:"subscription_id" binding:"required"`
	PaymentStatus  string `json:"payment_status" binding:"required"`
	Method         string `json:"payment_method"`
	Reference      string `json:"payment_reference"`
	Notes          string `json:"payment_notes"`
}

// UpdateRequest is the PUT /api/payments/:id body.
type UpdateRequest struct {
	PaymentStatus *string `json:"payment_status"`
	Method        *string `json:"payment_method"`
	Reference     *string `json:"payment_reference"`
	Notes         *string `json:"payment_notes"`
}
