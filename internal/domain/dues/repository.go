package dues

import (
	"context"

	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DueRecordRepository defines persistence operations for due records
type DueRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DueRecord, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]DueRecord, error)
	FindByMemberID(ctx context.Context, memberID uuid.UUID) ([]DueRecord, error)
	// FindByMembersAndPeriod returns existing records whose member is in the
	// given set and whose billing period matches exactly. Pure read; this is
	// the duplicate detector's only dependency.
	FindByMembersAndPeriod(ctx context.Context, memberIDs []uuid.UUID, period valueobject.Period) ([]DueRecord, error)
	FindByBatchID(ctx context.Context, batchID uuid.UUID) ([]DueRecord, error)
	InsertMany(ctx context.Context, records []DueRecord) error
	Save(ctx context.Context, record *DueRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBatchID(ctx context.Context, batchID uuid.UUID) error
}

// BatchRepository defines persistence operations for bulk registration batches
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	// FindAll returns batches ordered newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Batch, error)
	Save(ctx context.Context, batch *Batch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
