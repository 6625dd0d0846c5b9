package plan

import "context"

type Repository interface {
	Create(ctx context.Context, plan *Plan) (*Plan, error)
	GetByID(ctx context.Context, id int) (*Plan, error)
	Exists(ctx context.Context, id int) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Plan, int, error)
	Update(ctx context.Context, plan *Plan) (*Plan, error)
	Delete(ctx context.Context, id int) error
}
