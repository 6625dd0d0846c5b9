package dashboard

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Summary(ctx context.Context) (*Summary, error)
	Revenue(ctx context.Context, period Period) (*RevenueReport, error)
	Coaches(ctx context.Context) (*CoachReport, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{}

	counts := struct {
		TotalCoaches        int `db:"total_coaches"`
		ActiveCoaches       int `db:"active_coaches"`
		TotalSubscriptions  int `db:"total_subscriptions"`
		ActiveSubscriptions int `db:"active_subscriptions"`
		ExpiringSoon        int `db:"expiring_soon"`
	}{}
	if err := r.db.GetContext(ctx, &counts, `
		SELECT
			(SELECT COUNT(*) FROM coaches) AS total_coaches,
			(SELECT COUNT(*) FROM coaches WHERE status = 'active') AS active_coaches,
			(SELECT COUNT(*) FROM subscriptions) AS total_subscriptions,
			(SELECT COUNT(*) FROM subscriptions WHERE status = 'active') AS active_subscriptions,
			(SELECT COUNT(*) FROM subscriptions
			 WHERE status = 'active'
			   AND end_date BETWEEN NOW() AND NOW() + INTERVAL '7 days') AS expiring_soon`); err != nil {
		return nil, err
	}
	s.TotalCoaches = counts.TotalCoaches
	s.ActiveCoaches = counts.ActiveCoaches
	s.TotalSubscriptions = counts.TotalSubscriptions
	s.ActiveSubscriptions = counts.ActiveSubscriptions
	s.ExpiringSoon = counts.ExpiringSoon

	if err := r.db.GetContext(ctx, &s.TotalRevenue, `
		SELECT COALESCE(SUM(p.price), 0)
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = 'paid'`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &s.MonthlyRevenue, `
		SELECT date_trunc('month', s.payment_date) AS month,
		       COALESCE(SUM(p.price), 0) AS revenue,
		       COUNT(*) AS count
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = 'paid'
		  AND s.payment_date >= date_trunc('month', NOW()) - INTERVAL '5 months'
		GROUP BY month
		ORDER BY month`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &s.ActiveByPlan, `
		SELECT s.plan_id, p.name AS plan_name, COUNT(*) AS count
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.status = 'active'
		GROUP BY s.plan_id, p.name
		ORDER BY count DESC`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &s.RecentSubscriptions, `
		SELECT s.id, c.name AS coach_name, p.name AS plan_name,
		       s.start_date, s.end_date, s.status, s.created_at
		FROM subscriptions s
		JOIN coaches c ON c.id = s.coach_id
		JOIN plans p ON p.id = s.plan_id
		ORDER BY s.created_at DESC
		LIMIT 5`); err != nil {
		return nil, err
	}

	return s, nil
}

// revenueWindow maps a report period to its lookback interval and the series
// bucket size.
func revenueWindow(period Period) (lookback, bucket string) {
	switch period {
	case PeriodWeek:
		return "7 days", "day"
	case PeriodQuarter:
		return "3 months", "week"
	case PeriodYear:
		return "1 year", "month"
	default:
		return "1 month", "day"
	}
}

func (r *repository) Revenue(ctx context.Context, period Period) (*RevenueReport, error) {
	lookback, bucket := revenueWindow(period)

	report := &RevenueReport{Period: string(period)}

	query := fmt.Sprintf(`
		SELECT date_trunc('%s', s.payment_date) AS bucket,
		       COALESCE(SUM(p.price), 0) AS revenue,
		       COUNT(*) AS count
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = 'paid'
		  AND s.payment_date >= NOW() - INTERVAL '%s'
		GROUP BY bucket
		ORDER BY bucket`, bucket, lookback)
	if err := r.db.SelectContext(ctx, &report.Series, query); err != nil {
		return nil, err
	}

	byPlan := fmt.Sprintf(`
		SELECT s.plan_id, p.name AS plan_name,
		       COALESCE(SUM(p.price), 0) AS revenue,
		       COUNT(*) AS count
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = 'paid'
		  AND s.payment_date >= NOW() - INTERVAL '%s'
		GROUP BY s.plan_id, p.name
		ORDER BY revenue DESC`, lookback)
	if err := r.db.SelectContext(ctx, &report.ByPlan, byPlan); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *repository) Coaches(ctx context.Context) (*CoachReport, error) {
	report := &CoachReport{}

	if err := r.db.SelectContext(ctx, &report.ByStatus, `
		SELECT status, COUNT(*) AS count
		FROM coaches
		GROUP BY status
		ORDER BY status`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &report.NewPerMonth, `
		SELECT date_trunc('month', created_at) AS month, COUNT(*) AS count
		FROM coaches
		WHERE created_at >= date_trunc('month', NOW()) - INTERVAL '5 months'
		GROUP BY month
		ORDER BY month`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &report.TopByRevenue, `
		SELECT s.coach_id, c.name AS coach_name,
		       COALESCE(SUM(p.price), 0) AS total_paid,
		       COUNT(*) AS payments
		FROM subscriptions s
		JOIN coaches c ON c.id = s.coach_id
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = 'paid'
		GROUP BY s.coach_id, c.name
		ORDER BY total_paid DESC
		LIMIT 5`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &report.WithoutActive, `
		SELECT c.id AS coach_id, c.name AS coach_name, c.email
		FROM coaches c
		WHERE NOT EXISTS (
			SELECT 1 FROM subscriptions s
			WHERE s.coach_id = c.id AND s.status = 'active'
		)
		ORDER BY c.name`); err != nil {
		return nil, err
	}

	return report, nil
}
