package dues

import (
	"context"
	"fmt"
	"time"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ChildRecordView is a due record joined with its owning member for the
// batch detail screen.
type ChildRecordView struct {
	Record         dues.DueRecord `json:"aporte"`
	MemberName     string         `json:"socio_nombre"`
	MemberDocument string         `json:"socio_dni"`
	MemberLot      string         `json:"socio_lote"`
}

// BatchDetail is a batch header together with its (optionally filtered)
// child records.
type BatchDetail struct {
	Batch    dues.Batch        `json:"registro_masivo"`
	Children []ChildRecordView `json:"aportes"`
}

// DetailFilter narrows the child records shown in a batch detail
type DetailFilter struct {
	Search string
	Status *dues.DueStatus
}

// UpdateChildRequest carries the editable fields of one child record
type UpdateChildRequest struct {
	Amount  decimal.Decimal `json:"monto"`
	Date    time.Time       `json:"fecha"`
	Comment string          `json:"comentario"`
}

// BatchEditorService supports working with an existing bulk registration:
// listing batches, viewing one batch's children, revising a single child
// record and deleting a whole batch with full ledger reversal.
type BatchEditorService struct {
	batchRepo  dues.BatchRepository
	dueRepo    dues.DueRecordRepository
	memberRepo member.Repository
	scope      TransactionScope
	logger     *zap.Logger
}

// NewBatchEditorService creates a new BatchEditorService
func NewBatchEditorService(
	batchRepo dues.BatchRepository,
	dueRepo dues.DueRecordRepository,
	memberRepo member.Repository,
	scope TransactionScope,
	logger *zap.Logger,
) *BatchEditorService {
	return &BatchEditorService{
		batchRepo:  batchRepo,
		dueRepo:    dueRepo,
		memberRepo: memberRepo,
		scope:      scope,
		logger:     logger,
	}
}

// ListBatches returns batch headers newest first
func (s *BatchEditorService) ListBatches(ctx context.Context, filter shared.Filter) (shared.Paginated[dues.Batch], error) {
	batches, err := s.batchRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[dues.Batch]{}, fmt.Errorf("failed to list batches: %w", err)
	}
	total, err := s.batchRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[dues.Batch]{}, fmt.Errorf("failed to count batches: %w", err)
	}
	return shared.NewPaginated(batches, total, filter.Page, filter.PageSize), nil
}

// GetBatchDetail returns a batch with its children joined against the
// member roster. Search and status narrowing apply to the children only;
// the header and its totals always describe the full child set.
func (s *BatchEditorService) GetBatchDetail(ctx context.Context, batchID uuid.UUID, filter DetailFilter) (*BatchDetail, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	if batch == nil {
		return nil, shared.ErrNotFound
	}

	children, err := s.dueRepo.FindByBatchID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch records: %w", err)
	}

	memberIDs := make([]uuid.UUID, len(children))
	for i, c := range children {
		memberIDs[i] = c.MemberID
	}
	members, err := s.memberRepo.FindByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	byID := make(map[uuid.UUID]*member.Member, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}

	views := make([]ChildRecordView, 0, len(children))
	for _, c := range children {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		view := ChildRecordView{Record: c}
		if m, ok := byID[c.MemberID]; ok {
			view.MemberName = m.FullName()
			view.MemberDocument = m.Document
			view.MemberLot = m.Lot
			if filter.Search != "" && !m.MatchesSearch(filter.Search) {
				continue
			}
		}
		views = append(views, view)
	}

	return &BatchDetail{Batch: *batch, Children: views}, nil
}

// UpdateChildRecord revises one child record's amount, date and comment,
// adjusts the owning member's balance by the resulting delta and recomputes
// the batch totals from the full child set.
//
// This path is intentionally not transactional: the record write commits
// on its own, and a subsequent ledger failure is surfaced as
// LEDGER_ADJUSTMENT_FAILED so the operator knows the balance needs
// reconciliation. The edit itself is never rolled back.
func (s *BatchEditorService) UpdateChildRecord(
	ctx context.Context,
	batchID, recordID uuid.UUID,
	req UpdateChildRequest,
) (*dues.DueRecord, error) {
	record, err := s.dueRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load due record: %w", err)
	}
	if record == nil || record.BatchID == nil || *record.BatchID != batchID {
		return nil, shared.ErrNotFound
	}

	delta, err := record.Revise(req.Amount, req.Date, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.dueRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save due record: %w", err)
	}

	if !delta.IsZero() {
		if err := s.adjustMemberBalance(ctx, record.MemberID, delta); err != nil {
			s.logger.Error("Ledger adjustment failed after record edit",
				zap.String("record_id", record.ID.String()),
				zap.String("member_id", record.MemberID.String()),
				zap.String("delta", delta.String()),
				zap.Error(err))
			return nil, shared.ErrLedgerAdjustment
		}
	}

	if err := s.recomputeBatchTotals(ctx, batchID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *BatchEditorService) adjustMemberBalance(ctx context.Context, memberID uuid.UUID, delta decimal.Decimal) error {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return err
	}
	if m == nil {
		return shared.ErrNotFound
	}
	m.AddPaid(delta)
	return s.memberRepo.Save(ctx, m)
}

func (s *BatchEditorService) recomputeBatchTotals(ctx context.Context, batchID uuid.UUID) error {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}
	if batch == nil {
		return shared.ErrNotFound
	}
	children, err := s.dueRepo.FindByBatchID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to load batch records: %w", err)
	}
	batch.RecomputeTotals(children)
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return fmt.Errorf("failed to save batch totals: %w", err)
	}
	return nil
}

// DeleteBatch removes a bulk registration entirely: every paid child's
// amount is reversed out of its member's balance (clamped at zero), then
// the children are removed, then the header. The whole reversal runs in
// one transaction, so a failure part-way leaves nothing changed.
func (s *BatchEditorService) DeleteBatch(ctx context.Context, batchID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.Batches().FindByID(ctx, batchID)
		if err != nil {
			return fmt.Errorf("failed to load batch: %w", err)
		}
		if batch == nil {
			return shared.ErrNotFound
		}

		children, err := repos.DueRecords().FindByBatchID(ctx, batchID)
		if err != nil {
			return fmt.Errorf("failed to load batch records: %w", err)
		}

		for i := range children {
			if !children[i].CountsTowardLedger() {
				continue
			}
			m, err := repos.Members().FindByID(ctx, children[i].MemberID)
			if err != nil {
				return fmt.Errorf("failed to load member for reversal: %w", err)
			}
			if m == nil {
				continue
			}
			m.AddPaid(children[i].Amount.Neg())
			if err := repos.Members().Save(ctx, m); err != nil {
				return fmt.Errorf("failed to reverse member balance: %w", err)
			}
		}

		if err := repos.DueRecords().DeleteByBatchID(ctx, batchID); err != nil {
			return fmt.Errorf("failed to delete batch records: %w", err)
		}
		if err := repos.Batches().Delete(ctx, batchID); err != nil {
			return fmt.Errorf("failed to delete batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Bulk registration deleted", zap.String("batch_id", batchID.String()))
	return nil
}
