package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `s.id AS subscription_id, s.coach_id, c.name AS coach_name,
		s.plan_id, p.name AS plan_name, p.price AS amount,
		s.status, s.payment_status, s.payment_date, s.payment_method,
		s.payment_reference, s.payment_notes, s.created_at`

const paymentJoin = `FROM subscriptions s
	JOIN coaches c ON c.id = s.coach_id
	JOIN plans p ON p.id = s.plan_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBySubscriptionID(ctx context.Context, id int) (*Payment, error) {
	payment := &Payment{}
	err := r.db.GetContext(ctx, payment, `
		SELECT `+paymentColumns+`
		`+paymentJoin+`
		WHERE s.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Payment, int, error) {
	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.PaymentStatus != "" {
		conds = append(conds, "s.payment_status = "+arg(f.PaymentStatus))
	}
	if f.Method != "" {
		conds = append(conds, "s.payment_method = "+arg(f.Method))
	}
	if f.CoachID != 0 {
		conds = append(conds, "s.coach_id = "+arg(f.CoachID))
	}
	if f.PlanID != 0 {
		conds = append(conds, "s.plan_id = "+arg(f.PlanID))
	}
	if f.PaidFrom != nil && f.PaidTo != nil {
		conds = append(conds, "s.payment_date BETWEEN "+arg(*f.PaidFrom)+" AND "+arg(*f.PaidTo))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		fmt.Sprintf("SELECT COUNT(*) %s %s", paymentJoin, where), args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s %s %s ORDER BY s.payment_date DESC NULLS LAST LIMIT %s OFFSET %s",
		paymentColumns, paymentJoin, where, arg(f.Limit), arg((f.Page-1)*f.Limit))

	payments := []Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		`+paymentJoin+`
		WHERE s.payment_date IS NOT NULL
		ORDER BY s.payment_date DESC
		LIMIT $1`, limit)
	return payments, err
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := r.db.SelectContext(ctx, &stats.ByStatus, `
		SELECT s.payment_status, COUNT(*) AS count, COALESCE(SUM(p.price), 0) AS amount
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		GROUP BY s.payment_status
		ORDER BY s.payment_status`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &stats.ByMethod, `
		SELECT s.payment_method, COUNT(*) AS count, COALESCE(SUM(p.price), 0) AS amount
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_method IS NOT NULL
		GROUP BY s.payment_method
		ORDER BY count DESC`); err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &stats.Monthly, `
		SELECT date_trunc('month', s.payment_date) AS month,
		       COUNT(*) AS count,
		       COALESCE(SUM(p.price), 0) AS amount
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = 'paid'
		  AND s.payment_date >= date_trunc('month', NOW()) - INTERVAL '5 months'
		GROUP BY month
		ORDER BY month`); err != nil {
		return nil, err
	}

	return stats, nil
}
