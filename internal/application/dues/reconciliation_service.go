package dues

import (
	"context"
	"fmt"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationService re-derives denormalized values from their source of
// truth: batch totals from child records, member balances from paid due
// records. Both routines are idempotent and safe to re-run after a partial
// failure, in particular after a LEDGER_ADJUSTMENT_FAILED edit.
type ReconciliationService struct {
	batchRepo  dues.BatchRepository
	dueRepo    dues.DueRecordRepository
	memberRepo member.Repository
	logger     *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	batchRepo dues.BatchRepository,
	dueRepo dues.DueRecordRepository,
	memberRepo member.Repository,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		batchRepo:  batchRepo,
		dueRepo:    dueRepo,
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// ReconcileBatchTotals recomputes a batch's totals from its full child set
// and persists them, returning the fresh totals.
func (s *ReconciliationService) ReconcileBatchTotals(ctx context.Context, batchID uuid.UUID) (*dues.BatchTotals, error) {
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

	batch.RecomputeTotals(children)
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save batch totals: %w", err)
	}

	s.logger.Info("Batch totals reconciled",
		zap.String("batch_id", batchID.String()),
		zap.Int("records", batch.Totals.Records))
	return &batch.Totals, nil
}

// ReconcileMemberBalance restates a member's paid-to-date balance as the
// sum of their paid due records, replacing whatever the running balance
// had drifted to.
func (s *ReconciliationService) ReconcileMemberBalance(ctx context.Context, memberID uuid.UUID) (*member.Member, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}

	records, err := s.dueRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member records: %w", err)
	}

	total := decimal.Zero
	for i := range records {
		if records[i].CountsTowardLedger() {
			total = total.Add(records[i].Amount)
		}
	}

	previous := m.PaidTotal
	if err := m.RestatePaid(total); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save member balance: %w", err)
	}

	if !previous.Equal(total) {
		s.logger.Warn("Member balance drift corrected",
			zap.String("member_id", memberID.String()),
			zap.String("previous", previous.String()),
			zap.String("restated", total.String()))
	}
	return m, nil
}
