package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

type MonthlyRevenue struct {
	Month   time.Time       `db:"month" json:"month"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
	Count   int             `db:"count" json:"count"`
}

type PlanBreakdown struct {
	PlanID   int    `db:"plan_id" json:"plan_id"`
	PlanName string `db:"plan_name" json:"plan_name"`
	Count    int    `db:"count" json:"count"`
}

type RecentSubscription struct {
	ID        int       `db:"id" json:"id"`
	CoachName string    `db:"coach_name" json:"coach_name"`
	PlanName  string    `db:"plan_name" json:"plan_name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Summary struct {
	TotalCoaches        int                  `json:"total_coaches"`
	ActiveCoaches       int                  `json:"active_coaches"`
	TotalSubscriptions  int                  `json:"total_subscriptions"`
	ActiveSubscriptions int                  `json:"active_subscriptions"`
	TotalRevenue        decimal.Decimal      `json:"total_revenue"`
	MonthlyRevenue      []MonthlyRevenue     `json:"monthly_revenue"`
	ActiveByPlan        []PlanBreakdown      `json:"active_by_plan"`
	RecentSubscriptions []RecentSubscription `json:"recent_subscriptions"`
	ExpiringSoon        int                  `json:"expiring_soon"`
}

type RevenuePoint struct {
	Bucket  time.Time       `db:"bucket" json:"bucket"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
	Count   int             `db:"count" json:"count"`
}

type PlanRevenue struct {
	PlanID   int             `db:"plan_id" json:"plan_id"`
	PlanName string          `db:"plan_name" json:"plan_name"`
	Revenue  decimal.Decimal `db:"revenue" json:"revenue"`
	Count    int             `db:"count" json:"count"`
}

type RevenueReport struct {
	Period string         `json:"period"`
	Series []RevenuePoint `json:"series"`
	ByPlan []PlanRevenue  `json:"by_plan"`
}

type CoachStatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type MonthlyCount struct {
	Month time.Time `db:"month" json:"month"`
	Count int       `db:"count" json:"count"`
}

type TopCoach struct {
	CoachID   int             `db:"coach_id" json:"coach_id"`
	CoachName string          `db:"coach_name" json:"coach_name"`
	TotalPaid decimal.Decimal `db:"total_paid" json:"total_paid"`
	Payments  int             `db:"payments" json:"payments"`
}

type IdleCoach struct {
	CoachID   int    `db:"coach_id" json:"coach_id"`
	CoachName string `db:"coach_name" json:"coach_name"`
	Email     string `db:"email" json:"email"`
}

type CoachReport struct {
	ByStatus      []CoachStatusCount `json:"by_status"`
	NewPerMonth   []MonthlyCount     `json:"new_per_month"`
	TopByRevenue  []TopCoach         `json:"top_by_revenue"`
	WithoutActive []IdleCoach        `json:"without_active_subscriptions"`
}
