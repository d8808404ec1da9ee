package member

import (
	"context"
	"testing"

	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of member.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter member.Filter) ([]member.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]member.Member, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockRepository) FindDelinquent(ctx context.Context) ([]member.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, mem *member.Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context, filter member.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func testMember(t *testing.T) *member.Member {
	t.Helper()
	m, err := member.NewMember("Ana", "García", "11111111", "A-1", decimal.NewFromInt(50))
	require.NoError(t, err)
	return m
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid member", func(t *testing.T) {
		repo := &MockRepository{}
		service := NewService(repo, zap.NewNop())
		repo.On("Save", ctx, mock.Anything).Return(nil)

		m, err := service.Create(ctx, CreateMemberInput{
			FirstName: "Ana",
			LastName:  "García",
			Document:  "11111111",
			Lot:       "A-1",
			Quota:     decimal.NewFromInt(50),
		})
		require.NoError(t, err)
		assert.Equal(t, member.StatusActive, m.Status)
		assert.True(t, m.PaidTotal.IsZero())
	})

	t.Run("missing document", func(t *testing.T) {
		repo := &MockRepository{}
		service := NewService(repo, zap.NewNop())

		_, err := service.Create(ctx, CreateMemberInput{FirstName: "Ana"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		repo := &MockRepository{}
		service := NewService(repo, zap.NewNop())
		m := testMember(t)

		repo.On("FindByID", ctx, m.ID).Return(m, nil)
		repo.On("Save", ctx, m).Return(nil)

		lot := "B-7"
		quota := decimal.NewFromInt(60)
		updated, err := service.Update(ctx, m.ID, UpdateMemberInput{Lot: &lot, Quota: &quota})
		require.NoError(t, err)
		assert.Equal(t, "B-7", updated.Lot)
		assert.True(t, updated.Quota.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, "Ana", updated.FirstName)
	})

	t.Run("status transition", func(t *testing.T) {
		repo := &MockRepository{}
		service := NewService(repo, zap.NewNop())
		m := testMember(t)

		repo.On("FindByID", ctx, m.ID).Return(m, nil)
		repo.On("Save", ctx, m).Return(nil)

		inactive := member.StatusInactive
		updated, err := service.Update(ctx, m.ID, UpdateMemberInput{Status: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.IsActive())
	})

	t.Run("negative quota rejected", func(t *testing.T) {
		repo := &MockRepository{}
		service := NewService(repo, zap.NewNop())
		m := testMember(t)

		repo.On("FindByID", ctx, m.ID).Return(m, nil)

		negative := decimal.NewFromInt(-1)
		_, err := service.Update(ctx, m.ID, UpdateMemberInput{Quota: &negative})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown member", func(t *testing.T) {
		repo := &MockRepository{}
		service := NewService(repo, zap.NewNop())
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := service.Update(ctx, id, UpdateMemberInput{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{}
	service := NewService(repo, zap.NewNop())

	filter := member.Filter{Filter: shared.DefaultFilter()}
	repo.On("FindAll", ctx, filter).Return([]member.Member{*testMember(t)}, nil)
	repo.On("Count", ctx, filter).Return(int64(1), nil)

	page, err := service.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
}

func TestService_ListDelinquent(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{}
	service := NewService(repo, zap.NewNop())

	m := testMember(t)
	repo.On("FindDelinquent", ctx).Return([]member.Member{*m}, nil)

	members, err := service.ListDelinquent(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].IsDelinquent())
}
