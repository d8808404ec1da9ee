package dues

import (
	"context"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepository is a mock implementation of member.Repository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter member.Filter) ([]member.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]member.Member, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindDelinquent(ctx context.Context) ([]member.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, mem *member.Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockMemberRepository) Count(ctx context.Context, filter member.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockDueRecordRepository is a mock implementation of dues.DueRecordRepository
type MockDueRecordRepository struct {
	mock.Mock
}

func (m *MockDueRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.DueRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.DueRecord), args.Error(1)
}

func (m *MockDueRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dues.DueRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]dues.DueRecord), args.Error(1)
}

func (m *MockDueRecordRepository) FindByMemberID(ctx context.Context, memberID uuid.UUID) ([]dues.DueRecord, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]dues.DueRecord), args.Error(1)
}

func (m *MockDueRecordRepository) FindByMembersAndPeriod(ctx context.Context, memberIDs []uuid.UUID, period valueobject.Period) ([]dues.DueRecord, error) {
	args := m.Called(ctx, memberIDs, period)
	return args.Get(0).([]dues.DueRecord), args.Error(1)
}

func (m *MockDueRecordRepository) FindByBatchID(ctx context.Context, batchID uuid.UUID) ([]dues.DueRecord, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]dues.DueRecord), args.Error(1)
}

func (m *MockDueRecordRepository) InsertMany(ctx context.Context, records []dues.DueRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockDueRecordRepository) Save(ctx context.Context, record *dues.DueRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDueRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDueRecordRepository) DeleteByBatchID(ctx context.Context, batchID uuid.UUID) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

// MockBatchRepository is a mock implementation of dues.BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dues.Batch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]dues.Batch), args.Error(1)
}

func (m *MockBatchRepository) Save(ctx context.Context, batch *dues.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
