package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// coachLockNamespace keys pg_advisory_xact_lock so subscription locks cannot
// collide with other advisory lock users on the same database.
const coachLockNamespace = 4217

const subscriptionColumns = `id, coach_id, plan_id, start_date, end_date, status, payment_status,
		payment_date, payment_method, payment_reference, payment_notes,
		cancellation_reason, cancelled_at,
		notification_sent, last_notification_date,
		payment_reminder_sent, last_payment_reminder_date,
		created_at, updated_at`

const detailColumns = `s.id, s.coach_id, s.plan_id, s.start_date, s.end_date, s.status, s.payment_status,
		s.payment_date, s.payment_method, s.payment_reference, s.payment_notes,
		s.cancellation_reason, s.cancelled_at,
		s.notification_sent, s.last_notification_date,
		s.payment_reminder_sent, s.last_payment_reminder_date,
		s.created_at, s.updated_at,
		c.name AS coach_name, c.email AS coach_email,
		p.name AS plan_name, p.price AS plan_price`

const detailJoin = `FROM subscriptions s
	JOIN coaches c ON c.id = s.coach_id
	JOIN plans p ON p.id = s.plan_id`

type repository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, ext: db}
}

func (r *repository) WithCoachLock(ctx context.Context, coachID int, fn func(Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, coachLockNamespace, coachID); err != nil {
		return fmt.Errorf("acquire coach lock: %w", err)
	}

	if err := fn(&repository{db: r.db, ext: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Create(ctx context.Context, sub *Subscription) (*Subscription, error) {
	created := &Subscription{}
	err := sqlx.GetContext(ctx, r.ext, created, `
		INSERT INTO subscriptions (coach_id, plan_id, start_date, end_date, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+subscriptionColumns,
		sub.CoachID, sub.PlanID, sub.StartDate, sub.EndDate, sub.Status, sub.PaymentStatus)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	sub := &Subscription{}
	err := sqlx.GetContext(ctx, r.ext, sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) GetDetails(ctx context.Context, id int) (*WithDetails, error) {
	sub := &WithDetails{}
	err := sqlx.GetContext(ctx, r.ext, sub, `
		SELECT `+detailColumns+`
		`+detailJoin+`
		WHERE s.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) Update(ctx context.Context, sub *Subscription) (*Subscription, error) {
	updated := &Subscription{}
	err := sqlx.GetContext(ctx, r.ext, updated, `
		UPDATE subscriptions
		SET coach_id = $1,
		    plan_id = $2,
		    start_date = $3,
		    end_date = $4,
		    status = $5,
		    payment_status = $6,
		    payment_date = $7,
		    payment_method = $8,
		    payment_reference = $9,
		    payment_notes = $10,
		    cancellation_reason = $11,
		    cancelled_at = $12,
		    updated_at = NOW()
		WHERE id = $13
		RETURNING `+subscriptionColumns,
		sub.CoachID, sub.PlanID, sub.StartDate, sub.EndDate, sub.Status, sub.PaymentStatus,
		sub.PaymentDate, sub.PaymentMethod, sub.PaymentReference, sub.PaymentNotes,
		sub.CancellationReason, sub.CancelledAt, sub.ID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.ext.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsOverlapping reports whether the coach holds any subscription, in any
// status, whose closed [start_date, end_date] interval intersects
// [start, end]. Boundary-touching intervals count as overlapping.
func (r *repository) ExistsOverlapping(ctx context.Context, coachID int, start, end time.Time, excludeID int) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.ext, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE coach_id = $1
			  AND id <> $2
			  AND start_date <= $3
			  AND end_date >= $4
		)`, coachID, excludeID, end, start)
	return exists, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]WithDetails, int, error) {
	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "s.status = "+arg(f.Status))
	}
	if f.PaymentStatus != "" {
		conds = append(conds, "s.payment_status = "+arg(f.PaymentStatus))
	}
	if f.CoachID != 0 {
		conds = append(conds, "s.coach_id = "+arg(f.CoachID))
	}
	if f.PlanID != 0 {
		conds = append(conds, "s.plan_id = "+arg(f.PlanID))
	}
	if f.StartFrom != nil && f.StartTo != nil {
		conds = append(conds, "s.start_date BETWEEN "+arg(*f.StartFrom)+" AND "+arg(*f.StartTo))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := sqlx.GetContext(ctx, r.ext, &total,
		fmt.Sprintf("SELECT COUNT(*) FROM subscriptions s %s", where), args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY s.start_date DESC LIMIT %s OFFSET %s`,
		detailColumns, detailJoin, where, arg(f.Limit), arg((f.Page-1)*f.Limit))

	subs := []WithDetails{}
	if err := sqlx.SelectContext(ctx, r.ext, &subs, query, args...); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *repository) ListByCoach(ctx context.Context, coachID int) ([]WithDetails, error) {
	subs := []WithDetails{}
	err := sqlx.SelectContext(ctx, r.ext, &subs, `
		SELECT `+detailColumns+`
		`+detailJoin+`
		WHERE s.coach_id = $1
		ORDER BY s.start_date DESC`, coachID)
	return subs, err
}

func (r *repository) CountActiveForCoach(ctx context.Context, coachID int) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.ext, &count, `
		SELECT COUNT(*) FROM subscriptions
		WHERE coach_id = $1 AND status = 'active'`, coachID)
	return count, err
}

func (r *repository) CountActiveForPlan(ctx context.Context, planID int) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.ext, &count, `
		SELECT COUNT(*) FROM subscriptions
		WHERE plan_id = $1 AND status = 'active'`, planID)
	return count, err
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := sqlx.SelectContext(ctx, r.ext, &stats.StatusCounts, `
		SELECT status, COUNT(*) AS count
		FROM subscriptions
		GROUP BY status
		ORDER BY status`); err != nil {
		return nil, err
	}

	if err := sqlx.SelectContext(ctx, r.ext, &stats.PaymentStatusCounts, `
		SELECT payment_status, COUNT(*) AS count
		FROM subscriptions
		GROUP BY payment_status
		ORDER BY payment_status`); err != nil {
		return nil, err
	}

	if err := sqlx.GetContext(ctx, r.ext, &stats.TotalRevenue, `
		SELECT COALESCE(SUM(p.price), 0)
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = 'paid'`); err != nil {
		return nil, err
	}

	if err := sqlx.SelectContext(ctx, r.ext, &stats.SubscriptionsPerPlan, `
		SELECT s.plan_id, p.name AS plan_name, COUNT(*) AS count
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		GROUP BY s.plan_id, p.name
		ORDER BY count DESC`); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repository) ExpiringBetween(ctx context.Context, from, to time.Time, onlyUnnotified bool, limit, offset int) ([]WithDetails, int, error) {
	conds := "s.status = 'active' AND s.end_date BETWEEN $1 AND $2"
	if onlyUnnotified {
		conds += " AND s.notification_sent = FALSE"
	}

	var total int
	err := sqlx.GetContext(ctx, r.ext, &total,
		fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", detailJoin, conds), from, to)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY s.end_date ASC", detailColumns, detailJoin, conds)
	args := []interface{}{from, to}
	if limit > 0 {
		query += " LIMIT $3 OFFSET $4"
		args = append(args, limit, offset)
	}

	subs := []WithDetails{}
	if err := sqlx.SelectContext(ctx, r.ext, &subs, query, args...); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *repository) PendingPayments(ctx context.Context, limit, offset int) ([]WithDetails, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.ext, &total, `
		SELECT COUNT(*) FROM subscriptions s WHERE s.payment_status = 'pending'`)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE s.payment_status = 'pending' ORDER BY s.created_at DESC`,
		detailColumns, detailJoin)
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	subs := []WithDetails{}
	if err := sqlx.SelectContext(ctx, r.ext, &subs, query, args...); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *repository) MarkNotified(ctx context.Context, id int, at time.Time) error {
	res, err := r.ext.ExecContext(ctx, `
		UPDATE subscriptions
		SET notification_sent = TRUE,
		    last_notification_date = $1,
		    updated_at = NOW()
		WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) MarkPaymentReminded(ctx context.Context, id int, at time.Time) error {
	res, err := r.ext.ExecContext(ctx, `
		UPDATE subscriptions
		SET payment_reminder_sent = TRUE,
		    last_payment_reminder_date = $1,
		    updated_at = NOW()
		WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
