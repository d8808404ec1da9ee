package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMemberRepository implements member.Repository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID. Returns (nil, nil) when no row exists.
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter member.Filter) ([]member.Member, error) {
	var found []models.MemberModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MemberModel{}), filter)
	query = r.applyPagination(query, filter)

	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainMembers(found), nil
}

// FindByIDs finds the members whose IDs are in the given set
func (r *GormMemberRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]member.Member, error) {
	if len(ids) == 0 {
		return []member.Member{}, nil
	}
	var found []models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainMembers(found), nil
}

// FindDelinquent finds active members whose paid balance is below their quota
func (r *GormMemberRepository) FindDelinquent(ctx context.Context) ([]member.Member, error) {
	var found []models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND paid_total < quota", member.StatusActive).
		Order("last_name ASC, first_name ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainMembers(found), nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, m *member.Member) error {
	model := models.MemberModelFromDomain(m)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter member.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MemberModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search and status narrowing without pagination
func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter member.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(document) LIKE ? OR LOWER(lot) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// applyPagination applies ordering and pagination
func (r *GormMemberRepository) applyPagination(query *gorm.DB, filter member.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, MemberSortFields, "last_name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

func toDomainMembers(found []models.MemberModel) []member.Member {
	result := make([]member.Member, len(found))
	for i := range found {
		result[i] = *found[i].ToDomain()
	}
	return result
}

var _ member.Repository = (*GormMemberRepository)(nil)
