package member

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for the Member aggregate
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindAll(ctx context.Context, filter Filter) ([]Member, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Member, error)
	FindDelinquent(ctx context.Context) ([]Member, error)
	Save(ctx context.Context, m *Member) error
	Count(ctx context.Context, filter Filter) (int64, error)
}
