package dues

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dueFixture struct {
	memberRepo *MockMemberRepository
	dueRepo    *MockDueRecordRepository
	service    *DueService
}

func newDueFixture() *dueFixture {
	memberRepo := &MockMemberRepository{}
	dueRepo := &MockDueRecordRepository{}
	scope := NewNoOpTransactionScope(memberRepo, dueRepo, &MockBatchRepository{})
	return &dueFixture{
		memberRepo: memberRepo,
		dueRepo:    dueRepo,
		service:    NewDueService(dueRepo, memberRepo, scope, zap.NewNop()),
	}
}

func TestDueService_Create(t *testing.T) {
	ctx := context.Background()
	event := testEvent()

	t.Run("paid record updates the member balance", func(t *testing.T) {
		f := newDueFixture()
		m := testMember(t, "Ana", "11111111", "A-1")

		f.memberRepo.On("FindByID", ctx, m.ID).Return(&m, nil)
		f.dueRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.memberRepo.On("Save", ctx, &m).Return(nil)

		record, err := f.service.Create(ctx, CreateDueRequest{
			MemberID: m.ID,
			Concept:  "Multa asamblea",
			Type:     dues.DueTypeFine,
			Period:   event.Period,
			Amount:   decimal.NewFromInt(20),
			Date:     event.DefaultDate,
		})
		require.NoError(t, err)
		assert.Equal(t, dues.DueStatusPaid, record.Status)
		assert.Nil(t, record.BatchID)
		assert.True(t, m.PaidTotal.Equal(decimal.NewFromInt(20)))
	})

	t.Run("pending record leaves the balance alone", func(t *testing.T) {
		f := newDueFixture()
		m := testMember(t, "Ana", "11111111", "A-1")

		f.memberRepo.On("FindByID", ctx, m.ID).Return(&m, nil)
		f.dueRepo.On("Save", ctx, mock.Anything).Return(nil)

		record, err := f.service.Create(ctx, CreateDueRequest{
			MemberID: m.ID,
			Concept:  "Cuota Enero",
			Type:     dues.DueTypeMonthly,
			Period:   event.Period,
			Amount:   decimal.Zero,
			Date:     event.DefaultDate,
			Comment:  "No pagó",
		})
		require.NoError(t, err)
		assert.Equal(t, dues.DueStatusPending, record.Status)
		f.memberRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown member is rejected before the record write", func(t *testing.T) {
		f := newDueFixture()
		id := uuid.New()
		f.memberRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := f.service.Create(ctx, CreateDueRequest{
			MemberID: id,
			Concept:  "Cuota Enero",
			Type:     dues.DueTypeMonthly,
			Period:   event.Period,
			Amount:   decimal.NewFromInt(20),
			Date:     event.DefaultDate,
		})
		require.Error(t, err)
		f.dueRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDueService_Update(t *testing.T) {
	ctx := context.Background()
	newDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("applies the ledger delta", func(t *testing.T) {
		f := newDueFixture()
		m := testMember(t, "Ana", "11111111", "A-1")
		m.AddPaid(decimal.NewFromInt(50))
		record := paidChild(t, m.ID, 50)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)
		f.dueRepo.On("Save", ctx, &record).Return(nil)
		f.memberRepo.On("FindByID", ctx, m.ID).Return(&m, nil)
		f.memberRepo.On("Save", ctx, &m).Return(nil)

		updated, err := f.service.Update(ctx, record.ID, UpdateChildRequest{
			Amount: decimal.NewFromInt(70), Date: newDate,
		})
		require.NoError(t, err)
		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(70)))
		assert.True(t, m.PaidTotal.Equal(decimal.NewFromInt(70)), "50 + 20")
	})

	t.Run("batch-bound records must go through the batch editor", func(t *testing.T) {
		f := newDueFixture()
		m := testMember(t, "Ana", "11111111", "A-1")
		record := paidChild(t, m.ID, 50)
		record.AttachToBatch(uuid.New())

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)

		_, err := f.service.Update(ctx, record.ID, UpdateChildRequest{
			Amount: decimal.NewFromInt(70), Date: newDate,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "RECORD_IN_BATCH", domainErr.Code)
	})

	t.Run("ledger failure is surfaced distinctly", func(t *testing.T) {
		f := newDueFixture()
		m := testMember(t, "Ana", "11111111", "A-1")
		record := paidChild(t, m.ID, 50)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)
		f.dueRepo.On("Save", ctx, &record).Return(nil)
		f.memberRepo.On("FindByID", ctx, m.ID).Return(nil, errors.New("connection reset"))

		_, err := f.service.Update(ctx, record.ID, UpdateChildRequest{
			Amount: decimal.NewFromInt(70), Date: newDate,
		})
		assert.ErrorIs(t, err, shared.ErrLedgerAdjustment)
	})
}

func TestDueService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("reverses a paid record out of the balance", func(t *testing.T) {
		f := newDueFixture()
		m := testMember(t, "Ana", "11111111", "A-1")
		m.AddPaid(decimal.NewFromInt(50))
		record := paidChild(t, m.ID, 50)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)
		f.memberRepo.On("FindByID", ctx, m.ID).Return(&m, nil)
		f.memberRepo.On("Save", ctx, &m).Return(nil)
		f.dueRepo.On("Delete", ctx, record.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, record.ID))
		assert.True(t, m.PaidTotal.IsZero())
	})

	t.Run("batch-bound records cannot be deleted individually", func(t *testing.T) {
		f := newDueFixture()
		record := paidChild(t, uuid.New(), 50)
		record.AttachToBatch(uuid.New())

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)

		err := f.service.Delete(ctx, record.ID)
		require.Error(t, err)
		f.dueRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
