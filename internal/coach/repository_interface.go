package coach

import "context"

type Repository interface {
	Create(ctx context.Context, coach *Coach) (*Coach, error)
	GetByID(ctx context.Context, id int) (*Coach, error)
	Exists(ctx context.Context, id int) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Coach, int, error)
	Update(ctx context.Context, coach *Coach) (*Coach, error)
	Delete(ctx context.Context, id int) error
}
