package dues

import (
	"context"
	"errors"
	"testing"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bulkFixture struct {
	memberRepo *MockMemberRepository
	dueRepo    *MockDueRecordRepository
	batchRepo  *MockBatchRepository
	service    *BulkRegistrationService
}

func newBulkFixture() *bulkFixture {
	memberRepo := &MockMemberRepository{}
	dueRepo := &MockDueRecordRepository{}
	batchRepo := &MockBatchRepository{}
	scope := NewNoOpTransactionScope(memberRepo, dueRepo, batchRepo)
	return &bulkFixture{
		memberRepo: memberRepo,
		dueRepo:    dueRepo,
		batchRepo:  batchRepo,
		service:    NewBulkRegistrationService(memberRepo, dueRepo, scope, zap.NewNop()),
	}
}

func TestBulkRegistrationService_CheckDuplicates(t *testing.T) {
	ctx := context.Background()
	m1 := testMember(t, "Ana", "11111111", "A-1")
	event := testEvent()

	t.Run("maps colliding records with member names", func(t *testing.T) {
		f := newBulkFixture()
		existing, err := dues.NewDueRecord(m1.ID, "Cuota Enero", dues.DueTypeMonthly,
			event.Period, decimal.NewFromInt(50), event.DefaultDate, "")
		require.NoError(t, err)

		f.dueRepo.On("FindByMembersAndPeriod", ctx, mock.Anything, event.Period).
			Return([]dues.DueRecord{*existing}, nil)
		f.memberRepo.On("FindByIDs", ctx, mock.Anything).Return([]member.Member{m1}, nil)

		candidates, err := f.service.CheckDuplicates(ctx, []uuid.UUID{m1.ID}, event.Period)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, m1.ID, candidates[0].MemberID)
		assert.Equal(t, m1.FullName(), candidates[0].MemberName)
		assert.Equal(t, "Cuota Enero", candidates[0].Concept)
	})

	t.Run("empty member set short-circuits", func(t *testing.T) {
		f := newBulkFixture()
		candidates, err := f.service.CheckDuplicates(ctx, nil, event.Period)
		require.NoError(t, err)
		assert.Empty(t, candidates)
		f.dueRepo.AssertNotCalled(t, "FindByMembersAndPeriod")
	})
}

func TestBulkRegistrationService_CreateBatch(t *testing.T) {
	ctx := context.Background()
	event := testEvent()

	t.Run("persists header, children and ledger updates together", func(t *testing.T) {
		f := newBulkFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")
		m2 := testMember(t, "Luis", "22222222", "B-2")

		f.memberRepo.On("FindAll", ctx, mock.Anything).Return([]member.Member{m1, m2}, nil)
		f.dueRepo.On("FindByMembersAndPeriod", ctx, mock.Anything, event.Period).
			Return([]dues.DueRecord{}, nil)

		var savedBatch *dues.Batch
		f.batchRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			savedBatch = args.Get(1).(*dues.Batch)
		}).Return(nil)

		var inserted []dues.DueRecord
		f.dueRepo.On("InsertMany", ctx, mock.Anything).Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]dues.DueRecord)
		}).Return(nil)

		f.memberRepo.On("FindByID", ctx, m1.ID).Return(&m1, nil)
		f.memberRepo.On("Save", ctx, &m1).Return(nil)

		result, err := f.service.CreateBatch(ctx, CreateBatchRequest{
			Event: event,
			Selections: []MemberSelection{
				{MemberID: m1.ID, Selected: true},
				{MemberID: m2.ID, Selected: false, Comment: "viajó"},
			},
		})
		require.NoError(t, err)

		require.NotNil(t, savedBatch)
		assert.Equal(t, savedBatch.ID, result.BatchID)
		assert.Equal(t, 2, result.Totals.Records)
		assert.Equal(t, 1, result.Totals.Paid)
		assert.Equal(t, 1, result.Totals.Pending)
		assert.True(t, result.Totals.TotalAmount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, 1, result.Summary.Selected)
		assert.Equal(t, 1, result.Summary.Unselected)

		require.Len(t, inserted, 2)
		for _, r := range inserted {
			require.NotNil(t, r.BatchID)
			assert.Equal(t, savedBatch.ID, *r.BatchID)
		}

		// only the paid record touches the ledger
		assert.True(t, m1.PaidTotal.Equal(decimal.NewFromInt(50)))
		f.memberRepo.AssertNotCalled(t, "FindByID", ctx, m2.ID)
	})

	t.Run("empty roster is rejected before any write", func(t *testing.T) {
		f := newBulkFixture()
		f.memberRepo.On("FindAll", ctx, mock.Anything).Return([]member.Member{}, nil)
		f.dueRepo.On("FindByMembersAndPeriod", ctx, mock.Anything, event.Period).
			Return([]dues.DueRecord{}, nil)

		_, err := f.service.CreateBatch(ctx, CreateBatchRequest{Event: event})
		assert.ErrorIs(t, err, shared.ErrZeroScope)
		f.batchRepo.AssertNotCalled(t, "Save")
		f.dueRepo.AssertNotCalled(t, "InsertMany")
	})

	t.Run("selection for an unknown member fails", func(t *testing.T) {
		f := newBulkFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")
		f.memberRepo.On("FindAll", ctx, mock.Anything).Return([]member.Member{m1}, nil)
		f.dueRepo.On("FindByMembersAndPeriod", ctx, mock.Anything, event.Period).
			Return([]dues.DueRecord{}, nil)

		_, err := f.service.CreateBatch(ctx, CreateBatchRequest{
			Event:      event,
			Selections: []MemberSelection{{MemberID: uuid.New(), Selected: true}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "MEMBER_NOT_FOUND", domainErr.Code)
	})

	t.Run("duplicates start deselected and produce pending records", func(t *testing.T) {
		f := newBulkFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")
		existing, err := dues.NewDueRecord(m1.ID, "Cuota Enero", dues.DueTypeMonthly,
			event.Period, decimal.NewFromInt(50), event.DefaultDate, "")
		require.NoError(t, err)

		f.memberRepo.On("FindAll", ctx, mock.Anything).Return([]member.Member{m1}, nil)
		f.dueRepo.On("FindByMembersAndPeriod", ctx, mock.Anything, event.Period).
			Return([]dues.DueRecord{*existing}, nil)
		f.batchRepo.On("Save", ctx, mock.Anything).Return(nil)

		var inserted []dues.DueRecord
		f.dueRepo.On("InsertMany", ctx, mock.Anything).Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]dues.DueRecord)
		}).Return(nil)

		result, err := f.service.CreateBatch(ctx, CreateBatchRequest{Event: event})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Summary.DuplicatesExcluded)
		require.Len(t, inserted, 1)
		assert.Equal(t, dues.DueStatusPending, inserted[0].Status)
		assert.Equal(t, dues.DefaultUnpaidComment, inserted[0].Comment)
		f.memberRepo.AssertNotCalled(t, "Save")
	})
}

func TestBulkRegistrationService_CommitFailure(t *testing.T) {
	ctx := context.Background()
	event := testEvent()

	f := newBulkFixture()
	m1 := testMember(t, "Ana", "11111111", "A-1")
	f.memberRepo.On("FindAll", ctx, mock.Anything).Return([]member.Member{m1}, nil)
	f.dueRepo.On("FindByMembersAndPeriod", ctx, mock.Anything, event.Period).
		Return([]dues.DueRecord{}, nil)
	f.batchRepo.On("Save", ctx, mock.Anything).Return(nil)
	f.dueRepo.On("InsertMany", ctx, mock.Anything).Return(errors.New("connection reset"))

	w, err := f.service.StartWizard(ctx, event)
	require.NoError(t, err)
	_, err = w.Confirm()
	require.NoError(t, err)

	_, err = f.service.Commit(ctx, w)
	require.Error(t, err)

	assert.Equal(t, StepConfirmingSummary, w.Step, "wizard returns to the last stable step")
	assert.Contains(t, w.LastError, "connection reset")
	f.memberRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// a second persistence attempt after a failure goes through the same path
func TestBulkRegistrationService_RetryAfterFailure(t *testing.T) {
	ctx := context.Background()
	event := testEvent()

	f := newBulkFixture()
	m1 := testMember(t, "Ana", "11111111", "A-1")
	f.memberRepo.On("FindAll", ctx, mock.Anything).Return([]member.Member{m1}, nil)
	f.dueRepo.On("FindByMembersAndPeriod", ctx, mock.Anything, event.Period).
		Return([]dues.DueRecord{}, nil)
	f.batchRepo.On("Save", ctx, mock.Anything).Return(nil)
	f.dueRepo.On("InsertMany", ctx, mock.Anything).Return(errors.New("timeout")).Once()
	f.dueRepo.On("InsertMany", ctx, mock.Anything).Return(nil)
	f.memberRepo.On("FindByID", ctx, m1.ID).Return(&m1, nil)
	f.memberRepo.On("Save", ctx, &m1).Return(nil)

	w, err := f.service.StartWizard(ctx, event)
	require.NoError(t, err)
	_, err = w.Confirm()
	require.NoError(t, err)

	_, err = f.service.Commit(ctx, w)
	require.Error(t, err)
	require.Equal(t, StepConfirmingSummary, w.Step)

	result, err := f.service.Commit(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, StepDone, w.Step)
	assert.Equal(t, 1, result.Totals.Paid)
}
