package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBatchRepository implements dues.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by ID. Returns (nil, nil) when no row exists.
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.Batch, error) {
	var model models.BatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds batches matching the filter, newest first by default
func (r *GormBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dues.Batch, error) {
	var found []models.BatchModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BatchModel{}), filter)

	orderBy := ValidateSortField(filter.OrderBy, BatchSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}

	result := make([]dues.Batch, len(found))
	for i := range found {
		result[i] = *found[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *dues.Batch) error {
	model := models.BatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a batch header by ID. Child records are removed separately
// through DueRecordRepository.DeleteByBatchID inside the same transaction.
func (r *GormBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BatchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts batches matching the filter
func (r *GormBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BatchModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(concept) LIKE ?", pattern)
	}
	if month, ok := filter.Filters["period_month"]; ok {
		query = query.Where("period_month = ?", month)
	}
	if year, ok := filter.Filters["period_year"]; ok {
		query = query.Where("period_year = ?", year)
	}
	if dueType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", dueType)
	}
	return query
}

var _ dues.BatchRepository = (*GormBatchRepository)(nil)
