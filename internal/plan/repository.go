package plan

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const planColumns = `id, name, description, price, duration_days, features, is_active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, plan *Plan) (*Plan, error) {
	created := &Plan{}
	err := r.db.GetContext(ctx, created, `
		INSERT INTO plans (name, description, price, duration_days, features, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+planColumns,
		plan.Name, plan.Description, plan.Price, plan.DurationDays, plan.Features, plan.IsActive)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	plan := &Plan{}
	err := r.db.GetContext(ctx, plan, `
		SELECT `+planColumns+`
		FROM plans
		WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM plans WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Plan, int, error) {
	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*f.IsActive))
	}
	if f.Search != "" {
		conds = append(conds, "name ILIKE "+arg("%"+f.Search+"%"))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		fmt.Sprintf("SELECT COUNT(*) FROM plans %s", where), args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM plans %s ORDER BY price ASC LIMIT %s OFFSET %s",
		planColumns, where, arg(f.Limit), arg((f.Page-1)*f.Limit))

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

func (r *repository) Update(ctx context.Context, plan *Plan) (*Plan, error) {
	updated := &Plan{}
	err := r.db.GetContext(ctx, updated, `
		UPDATE plans
		SET name = $1,
		    description = $2,
		    price = $3,
		    duration_days = $4,
		    features = $5,
		    is_active = $6,
		    updated_at = NOW()
		WHERE id = $7
		RETURNING `+planColumns,
		plan.Name, plan.Description, plan.Price, plan.DurationDays,
		plan.Features, plan.IsActive, plan.ID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
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
