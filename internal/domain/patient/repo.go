package patient

import "context"

type Repository interface {
	// Ensure creates the patient row if it does not already exist.
	Ensure(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
