package admin

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

const adminColumns = `id, name, email, password_hash, role, last_login, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, admin *Admin) (*Admin, error) {
	created := &Admin{}
	err := r.db.GetContext(ctx, created, `
		INSERT INTO admins (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+adminColumns,
		admin.Name, admin.Email, admin.PasswordHash, admin.Role)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Admin, error) {
	admin := &Admin{}
	err := r.db.GetContext(ctx, admin, `
		SELECT `+adminColumns+`
		FROM admins
		WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	admin := &Admin{}
	err := r.db.GetContext(ctx, admin, `
		SELECT `+adminColumns+`
		FROM admins
		WHERE LOWER(email) = LOWER($1)`, email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *repository) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE LOWER(email) = LOWER($1) AND id <> $2)`,
		email, excludeID)
	return exists, err
}

func (r *repository) List(ctx context.Context) ([]Admin, error) {
	admins := []Admin{}
	err := r.db.SelectContext(ctx, &admins, `
		SELECT `+adminColumns+`
		FROM admins
		ORDER BY name ASC`)
	return admins, err
}

func (r *repository) Update(ctx context.Context, admin *Admin) (*Admin, error) {
	updated := &Admin{}
	err := r.db.GetContext(ctx, updated, `
		UPDATE admins
		SET name = $1,
		    email = $2,
		    password_hash = $3,
		    role = $4,
		    updated_at = NOW()
		WHERE id = $5
		RETURNING `+adminColumns,
		admin.Name, admin.Email, admin.PasswordHash, admin.Role, admin.ID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
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

func (r *repository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admins SET last_login = $1 WHERE id = $2`, at, id)
	return err
}
