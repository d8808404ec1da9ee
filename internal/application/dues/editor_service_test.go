package dues

import (
	"context"
	"errors"
	"testing"
	"time"

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

type editorFixture struct {
	memberRepo *MockMemberRepository
	dueRepo    *MockDueRecordRepository
	batchRepo  *MockBatchRepository
	service    *BatchEditorService
}

func newEditorFixture() *editorFixture {
	memberRepo := &MockMemberRepository{}
	dueRepo := &MockDueRecordRepository{}
	batchRepo := &MockBatchRepository{}
	scope := NewNoOpTransactionScope(memberRepo, dueRepo, batchRepo)
	return &editorFixture{
		memberRepo: memberRepo,
		dueRepo:    dueRepo,
		batchRepo:  batchRepo,
		service:    NewBatchEditorService(batchRepo, dueRepo, memberRepo, scope, zap.NewNop()),
	}
}

func editorBatch(t *testing.T, children []dues.DueRecord) *dues.Batch {
	t.Helper()
	event := testEvent()
	batch, err := dues.NewBatch(event.Concept, event.Type, event.Period,
		event.BaseAmount, event.DefaultDate, "", children)
	require.NoError(t, err)
	for i := range children {
		children[i].AttachToBatch(batch.ID)
	}
	return batch
}

func paidChild(t *testing.T, memberID uuid.UUID, amount int64) dues.DueRecord {
	t.Helper()
	event := testEvent()
	r, err := dues.NewDueRecord(memberID, event.Concept, event.Type, event.Period,
		decimal.NewFromInt(amount), event.DefaultDate, "")
	require.NoError(t, err)
	return *r
}

func TestBatchEditorService_GetBatchDetail(t *testing.T) {
	ctx := context.Background()
	m1 := testMember(t, "Ana", "11111111", "A-1")
	m2 := testMember(t, "Luis", "22222222", "B-2")

	children := []dues.DueRecord{paidChild(t, m1.ID, 50), paidChild(t, m2.ID, 0)}
	batch := editorBatch(t, children)

	setup := func(f *editorFixture) {
		f.batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)
		f.dueRepo.On("FindByBatchID", ctx, batch.ID).Return(children, nil)
		f.memberRepo.On("FindByIDs", ctx, mock.Anything).Return([]member.Member{m1, m2}, nil)
	}

	t.Run("joins children with member data", func(t *testing.T) {
		f := newEditorFixture()
		setup(f)

		detail, err := f.service.GetBatchDetail(ctx, batch.ID, DetailFilter{})
		require.NoError(t, err)
		require.Len(t, detail.Children, 2)
		assert.Equal(t, m1.FullName(), detail.Children[0].MemberName)
		assert.Equal(t, "11111111", detail.Children[0].MemberDocument)
	})

	t.Run("status filter narrows children but not totals", func(t *testing.T) {
		f := newEditorFixture()
		setup(f)

		paid := dues.DueStatusPaid
		detail, err := f.service.GetBatchDetail(ctx, batch.ID, DetailFilter{Status: &paid})
		require.NoError(t, err)
		require.Len(t, detail.Children, 1)
		assert.Equal(t, m1.ID, detail.Children[0].Record.MemberID)
		assert.Equal(t, 2, detail.Batch.Totals.Records, "totals keep describing the full set")
	})

	t.Run("search filter matches member fields", func(t *testing.T) {
		f := newEditorFixture()
		setup(f)

		detail, err := f.service.GetBatchDetail(ctx, batch.ID, DetailFilter{Search: "luis"})
		require.NoError(t, err)
		require.Len(t, detail.Children, 1)
		assert.Equal(t, m2.ID, detail.Children[0].Record.MemberID)
	})

	t.Run("unknown batch", func(t *testing.T) {
		f := newEditorFixture()
		id := uuid.New()
		f.batchRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := f.service.GetBatchDetail(ctx, id, DetailFilter{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestBatchEditorService_UpdateChildRecord(t *testing.T) {
	ctx := context.Background()
	newDate := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)

	t.Run("lowering a paid amount applies a negative ledger delta", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")
		m1.AddPaid(decimal.NewFromInt(50))

		child := paidChild(t, m1.ID, 50)
		batch := editorBatch(t, []dues.DueRecord{child})
		record := child
		record.AttachToBatch(batch.ID)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)
		f.dueRepo.On("Save", ctx, &record).Return(nil)
		f.memberRepo.On("FindByID", ctx, m1.ID).Return(&m1, nil)
		f.memberRepo.On("Save", ctx, &m1).Return(nil)
		f.batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)
		f.dueRepo.On("FindByBatchID", ctx, batch.ID).Return([]dues.DueRecord{record}, nil)
		f.batchRepo.On("Save", ctx, batch).Return(nil)

		updated, err := f.service.UpdateChildRecord(ctx, batch.ID, record.ID, UpdateChildRequest{
			Amount: decimal.NewFromInt(25), Date: newDate, Comment: "pago parcial",
		})
		require.NoError(t, err)

		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, dues.DueStatusPaid, updated.Status)
		assert.True(t, m1.PaidTotal.Equal(decimal.NewFromInt(25)), "50 - 25")
	})

	t.Run("zeroing an amount flips to pending and reverses the ledger", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")
		m1.AddPaid(decimal.NewFromInt(50))

		child := paidChild(t, m1.ID, 50)
		batch := editorBatch(t, []dues.DueRecord{child})
		record := child
		record.AttachToBatch(batch.ID)

		// the store hands back the already-updated row when totals recompute
		afterEdit := record
		_, err := afterEdit.Revise(decimal.Zero, newDate, "anulado")
		require.NoError(t, err)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)
		f.dueRepo.On("Save", ctx, &record).Return(nil)
		f.memberRepo.On("FindByID", ctx, m1.ID).Return(&m1, nil)
		f.memberRepo.On("Save", ctx, &m1).Return(nil)
		f.batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)
		f.dueRepo.On("FindByBatchID", ctx, batch.ID).Return([]dues.DueRecord{afterEdit}, nil)
		f.batchRepo.On("Save", ctx, batch).Return(nil)

		updated, err := f.service.UpdateChildRecord(ctx, batch.ID, record.ID, UpdateChildRequest{
			Amount: decimal.Zero, Date: newDate, Comment: "anulado",
		})
		require.NoError(t, err)

		assert.Equal(t, dues.DueStatusPending, updated.Status)
		assert.True(t, m1.PaidTotal.IsZero())
		assert.Equal(t, 0, batch.Totals.Paid)
		assert.Equal(t, 1, batch.Totals.Pending)
	})

	t.Run("pending to pending leaves the ledger alone", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")

		child := paidChild(t, m1.ID, 0)
		batch := editorBatch(t, []dues.DueRecord{child})
		record := child
		record.AttachToBatch(batch.ID)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)
		f.dueRepo.On("Save", ctx, &record).Return(nil)
		f.batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)
		f.dueRepo.On("FindByBatchID", ctx, batch.ID).Return([]dues.DueRecord{record}, nil)
		f.batchRepo.On("Save", ctx, batch).Return(nil)

		_, err := f.service.UpdateChildRecord(ctx, batch.ID, record.ID, UpdateChildRequest{
			Amount: decimal.Zero, Date: newDate, Comment: "sigue pendiente",
		})
		require.NoError(t, err)
		f.memberRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("ledger failure after the record write is surfaced distinctly", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")

		child := paidChild(t, m1.ID, 50)
		batch := editorBatch(t, []dues.DueRecord{child})
		record := child
		record.AttachToBatch(batch.ID)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)
		f.dueRepo.On("Save", ctx, &record).Return(nil)
		f.memberRepo.On("FindByID", ctx, m1.ID).Return(nil, errors.New("connection reset"))

		_, err := f.service.UpdateChildRecord(ctx, batch.ID, record.ID, UpdateChildRequest{
			Amount: decimal.NewFromInt(25), Date: newDate,
		})
		assert.ErrorIs(t, err, shared.ErrLedgerAdjustment, "not swallowed as a generic failure")
		f.dueRepo.AssertCalled(t, "Save", ctx, &record)
	})

	t.Run("record from another batch is not found", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")

		child := paidChild(t, m1.ID, 50)
		otherBatch := editorBatch(t, []dues.DueRecord{child})
		record := child
		record.AttachToBatch(otherBatch.ID)

		f.dueRepo.On("FindByID", ctx, record.ID).Return(&record, nil)

		_, err := f.service.UpdateChildRecord(ctx, uuid.New(), record.ID, UpdateChildRequest{
			Amount: decimal.NewFromInt(25), Date: newDate,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestBatchEditorService_DeleteBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("reverses paid amounts then removes children and header", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")
		m2 := testMember(t, "Luis", "22222222", "B-2")
		m1.AddPaid(decimal.NewFromInt(50))
		m2.AddPaid(decimal.NewFromInt(30))

		children := []dues.DueRecord{paidChild(t, m1.ID, 50), paidChild(t, m2.ID, 0)}
		batch := editorBatch(t, children)

		var order []string
		f.batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)
		f.dueRepo.On("FindByBatchID", ctx, batch.ID).Return(children, nil)
		f.memberRepo.On("FindByID", ctx, m1.ID).Return(&m1, nil)
		f.memberRepo.On("Save", ctx, &m1).Run(func(mock.Arguments) {
			order = append(order, "reverse")
		}).Return(nil)
		f.dueRepo.On("DeleteByBatchID", ctx, batch.ID).Run(func(mock.Arguments) {
			order = append(order, "delete-children")
		}).Return(nil)
		f.batchRepo.On("Delete", ctx, batch.ID).Run(func(mock.Arguments) {
			order = append(order, "delete-header")
		}).Return(nil)

		require.NoError(t, f.service.DeleteBatch(ctx, batch.ID))

		assert.Equal(t, []string{"reverse", "delete-children", "delete-header"}, order)
		assert.True(t, m1.PaidTotal.IsZero())
		assert.True(t, m2.PaidTotal.Equal(decimal.NewFromInt(30)), "pending child leaves the ledger alone")
	})

	t.Run("reversal clamps the balance at zero", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")
		m1.AddPaid(decimal.NewFromInt(20)) // less than the child amount

		children := []dues.DueRecord{paidChild(t, m1.ID, 50)}
		batch := editorBatch(t, children)

		f.batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)
		f.dueRepo.On("FindByBatchID", ctx, batch.ID).Return(children, nil)
		f.memberRepo.On("FindByID", ctx, m1.ID).Return(&m1, nil)
		f.memberRepo.On("Save", ctx, &m1).Return(nil)
		f.dueRepo.On("DeleteByBatchID", ctx, batch.ID).Return(nil)
		f.batchRepo.On("Delete", ctx, batch.ID).Return(nil)

		require.NoError(t, f.service.DeleteBatch(ctx, batch.ID))
		assert.True(t, m1.PaidTotal.IsZero(), "never negative")
	})

	t.Run("reversal failure aborts before any delete", func(t *testing.T) {
		f := newEditorFixture()
		m1 := testMember(t, "Ana", "11111111", "A-1")

		children := []dues.DueRecord{paidChild(t, m1.ID, 50)}
		batch := editorBatch(t, children)

		f.batchRepo.On("FindByID", ctx, batch.ID).Return(batch, nil)
		f.dueRepo.On("FindByBatchID", ctx, batch.ID).Return(children, nil)
		f.memberRepo.On("FindByID", ctx, m1.ID).Return(&m1, nil)
		f.memberRepo.On("Save", ctx, &m1).Return(errors.New("connection reset"))

		err := f.service.DeleteBatch(ctx, batch.ID)
		require.Error(t, err)
		f.dueRepo.AssertNotCalled(t, "DeleteByBatchID", mock.Anything, mock.Anything)
		f.batchRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown batch", func(t *testing.T) {
		f := newEditorFixture()
		id := uuid.New()
		f.batchRepo.On("FindByID", ctx, id).Return(nil, nil)

		assert.ErrorIs(t, f.service.DeleteBatch(ctx, id), shared.ErrNotFound)
	})
}

func TestBatchEditorService_ListBatches(t *testing.T) {
	ctx := context.Background()
	f := newEditorFixture()
	batch := editorBatch(t, []dues.DueRecord{paidChild(t, uuid.New(), 50)})

	filter := shared.DefaultFilter()
	f.batchRepo.On("FindAll", ctx, filter).Return([]dues.Batch{*batch}, nil)
	f.batchRepo.On("Count", ctx, filter).Return(int64(1), nil)

	page, err := f.service.ListBatches(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, batch.Concept, page.Items[0].Concept)
}
