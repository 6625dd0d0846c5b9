package admin

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, admin *Admin) (*Admin, error)
	GetByID(ctx context.Context, id int) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	EmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	List(ctx context.Context) ([]Admin, error)
	Update(ctx context.Context, admin *Admin) (*Admin, error)
	Delete(ctx context.Context, id int) error
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
}
