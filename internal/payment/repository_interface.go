package payment

import "context"

type Repository interface {
	GetBySubscriptionID(ctx context.Context, id int) (*Payment, error)
	List(ctx context.Context, f ListFilter) ([]Payment, int, error)
	Recent(ctx context.Context, limit int) ([]Payment, error)
	Stats(ctx context.Context) (*Stats, error)
}
