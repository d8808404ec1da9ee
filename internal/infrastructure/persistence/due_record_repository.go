package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/asociacion/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDueRecordRepository implements dues.DueRecordRepository using GORM
type GormDueRecordRepository struct {
	db *gorm.DB
}

// NewGormDueRecordRepository creates a new GormDueRecordRepository
func NewGormDueRecordRepository(db *gorm.DB) *GormDueRecordRepository {
	return &GormDueRecordRepository{db: db}
}

// FindByID finds a due record by ID. Returns (nil, nil) when no row exists.
func (r *GormDueRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.DueRecord, error) {
	var model models.DueRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all due records matching the filter
func (r *GormDueRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dues.DueRecord, error) {
	var found []models.DueRecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DueRecordModel{}), filter)

	orderBy := ValidateSortField(filter.OrderBy, DueRecordSortFields, "date")
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
	return toDomainDueRecords(found), nil
}

// FindByMemberID finds all due records for one member, newest payment first
func (r *GormDueRecordRepository) FindByMemberID(ctx context.Context, memberID uuid.UUID) ([]dues.DueRecord, error) {
	var found []models.DueRecordModel
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date DESC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainDueRecords(found), nil
}

// FindByMembersAndPeriod finds existing records for the given members in the
// given billing period. Used by the duplicate detector before a bulk run.
func (r *GormDueRecordRepository) FindByMembersAndPeriod(ctx context.Context, memberIDs []uuid.UUID, period valueobject.Period) ([]dues.DueRecord, error) {
	if len(memberIDs) == 0 {
		return []dues.DueRecord{}, nil
	}
	var found []models.DueRecordModel
	if err := r.db.WithContext(ctx).
		Where("member_id IN ? AND period_month = ? AND period_year = ?",
			memberIDs, period.Month, period.Year).
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainDueRecords(found), nil
}

// FindByBatchID finds all due records belonging to a batch
func (r *GormDueRecordRepository) FindByBatchID(ctx context.Context, batchID uuid.UUID) ([]dues.DueRecord, error) {
	var found []models.DueRecordModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainDueRecords(found), nil
}

// InsertMany inserts all given records in a single batched statement
func (r *GormDueRecordRepository) InsertMany(ctx context.Context, records []dues.DueRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.DueRecordModel, len(records))
	for i := range records {
		rows[i].FromDomain(&records[i])
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

// Save creates or updates a due record
func (r *GormDueRecordRepository) Save(ctx context.Context, record *dues.DueRecord) error {
	model := models.DueRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a due record by ID
func (r *GormDueRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DueRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByBatchID deletes all due records belonging to a batch. Deleting a
// batch with no children is not an error.
func (r *GormDueRecordRepository) DeleteByBatchID(ctx context.Context, batchID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.DueRecordModel{}, "batch_id = ?", batchID).Error
}

func (r *GormDueRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(concept) LIKE ? OR LOWER(comment) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if memberID, ok := filter.Filters["member_id"]; ok {
		query = query.Where("member_id = ?", memberID)
	}
	if month, ok := filter.Filters["period_month"]; ok {
		query = query.Where("period_month = ?", month)
	}
	if year, ok := filter.Filters["period_year"]; ok {
		query = query.Where("period_year = ?", year)
	}
	return query
}

func toDomainDueRecords(found []models.DueRecordModel) []dues.DueRecord {
	result := make([]dues.DueRecord, len(found))
	for i := range found {
		result[i] = *found[i].ToDomain()
	}
	return result
}

var _ dues.DueRecordRepository = (*GormDueRecordRepository)(nil)
