package teacher

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Teacher entities.
type Repository interface {
	Create(ctx context.Context, teacher *Teacher) error
	CreateBatch(ctx context.Context, teachers []*Teacher) error // All or nothing
	GetByID(ctx context.Context, id int64) (*Teacher, error)
	Update(ctx context.Context, teacher *Teacher) error // Writes Email and GroupID
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Teacher, error)
	ListWithGroup(ctx context.Context, limit int) ([]*Teacher, error)

	// Literal SQL probes, used to cross-check what the mapping layer wrote.
	CountWithGroup(ctx context.Context) (int64, error)
	EmailByID(ctx context.Context, id int64) (string, error)
}
