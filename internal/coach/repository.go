package coach

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const coachColumns = `id, name, email, password_hash, phone, profile_photo_url, status,
		bio, specialization, last_login, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, coach *Coach) (*Coach, error) {
	created := &Coach{}
	err := r.db.GetContext(ctx, created, `
		INSERT INTO coaches (name, email, password_hash, phone, profile_photo_url, status, bio, specialization)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+coachColumns,
		coach.Name, coach.Email, coach.PasswordHash, coach.Phone,
		coach.ProfilePhotoURL, coach.Status, coach.Bio, coach.Specialization)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Coach, error) {
	coach := &Coach{}
	err := r.db.GetContext(ctx, coach, `
		SELECT `+coachColumns+`
		FROM coaches
		WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return coach, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM coaches WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM coaches WHERE LOWER(email) = LOWER($1) AND id <> $2)`,
		email, excludeID)
	return exists, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Coach, int, error) {
	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s)", p, p))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		fmt.Sprintf("SELECT COUNT(*) FROM coaches %s", where), args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM coaches %s ORDER BY name ASC LIMIT %s OFFSET %s",
		coachColumns, where, arg(f.Limit), arg((f.Page-1)*f.Limit))

	coaches := []Coach{}
	if err := r.db.SelectContext(ctx, &coaches, query, args...); err != nil {
		return nil, 0, err
	}
	return coaches, total, nil
}

func (r *repository) Update(ctx context.Context, coach *Coach) (*Coach, error) {
	updated := &Coach{}
	err := r.db.GetContext(ctx, updated, `
		UPDATE coaches
		SET name = $1,
		    email = $2,
		    password_hash = $3,
		    phone = $4,
		    profile_photo_url = $5,
		    status = $6,
		    bio = $7,
		    specialization = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING `+coachColumns,
		coach.Name, coach.Email, coach.PasswordHash, coach.Phone,
		coach.ProfilePhotoURL, coach.Status, coach.Bio, coach.Specialization, coach.ID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coaches WHERE id = $1`, id)
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
