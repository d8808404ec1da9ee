package dues

import (
	"context"
	"fmt"
	"time"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// allMembersPageSize bounds the member list loaded into a wizard run.
// A registration covers the whole roster, which for an association is a
// few hundred members at most.
const allMembersPageSize = 10000

// DuplicateCandidate describes an existing due record that collides with a
// pending registration on (member, period). Advisory only: it pre-deselects
// the member in the wizard but never blocks the operator.
type DuplicateCandidate struct {
	RecordID   uuid.UUID          `json:"aporte_id"`
	MemberID   uuid.UUID          `json:"socio_id"`
	MemberName string             `json:"socio_nombre"`
	Concept    string             `json:"concepto"`
	Period     valueobject.Period `json:"periodo"`
	Amount     decimal.Decimal    `json:"monto"`
	Status     dues.DueStatus     `json:"estado"`
}

// MemberSelection carries one member's selection and overrides as submitted
// by the operator at the end of a wizard run.
type MemberSelection struct {
	MemberID uuid.UUID        `json:"socio_id"`
	Selected bool             `json:"seleccionado"`
	Amount   *decimal.Decimal `json:"monto,omitempty"`
	Date     *time.Time       `json:"fecha,omitempty"`
	Comment  string           `json:"comentario"`
}

// CreateBatchRequest is the full input of a bulk registration run
type CreateBatchRequest struct {
	Event      EventDefinition   `json:"evento"`
	Selections []MemberSelection `json:"selecciones"`
}

// BatchResult reports a successfully persisted bulk registration
type BatchResult struct {
	BatchID uuid.UUID        `json:"registro_masivo_id"`
	Totals  dues.BatchTotals `json:"totales"`
	Summary Summary          `json:"resumen"`
}

// BulkRegistrationService orchestrates the bulk registration wizard: event
// definition, duplicate detection, member selection and the final atomic
// write of batch header, child records and member ledger updates.
type BulkRegistrationService struct {
	memberRepo member.Repository
	dueRepo    dues.DueRecordRepository
	scope      TransactionScope
	logger     *zap.Logger
}

// NewBulkRegistrationService creates a new BulkRegistrationService
func NewBulkRegistrationService(
	memberRepo member.Repository,
	dueRepo dues.DueRecordRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *BulkRegistrationService {
	return &BulkRegistrationService{
		memberRepo: memberRepo,
		dueRepo:    dueRepo,
		scope:      scope,
		logger:     logger,
	}
}

// CheckDuplicates returns existing due records for the given members and
// period. Pure read; callers use it to warn, never to reject.
func (s *BulkRegistrationService) CheckDuplicates(
	ctx context.Context,
	memberIDs []uuid.UUID,
	period valueobject.Period,
) ([]DuplicateCandidate, error) {
	if len(memberIDs) == 0 {
		return []DuplicateCandidate{}, nil
	}

	records, err := s.dueRepo.FindByMembersAndPeriod(ctx, memberIDs, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicates: %w", err)
	}
	if len(records) == 0 {
		return []DuplicateCandidate{}, nil
	}

	members, err := s.memberRepo.FindByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	names := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.FullName()
	}

	candidates := make([]DuplicateCandidate, 0, len(records))
	for _, r := range records {
		candidates = append(candidates, DuplicateCandidate{
			RecordID:   r.ID,
			MemberID:   r.MemberID,
			MemberName: names[r.MemberID],
			Concept:    r.Concept,
			Period:     r.Period,
			Amount:     r.Amount,
			Status:     r.Status,
		})
	}
	return candidates, nil
}

// StartWizard validates the event definition and returns a wizard already
// in the selection step: the full member roster seeded, duplicates for the
// event's period pre-deselected.
func (s *BulkRegistrationService) StartWizard(ctx context.Context, def EventDefinition) (*Wizard, error) {
	w := NewWizard()
	if err := w.DefineEvent(def); err != nil {
		return nil, err
	}

	filter := member.Filter{Filter: shared.Filter{
		Page:     1,
		PageSize: allMembersPageSize,
		OrderBy:  "last_name",
		OrderDir: "asc",
	}}
	members, err := s.memberRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	duplicates, err := s.dueRepo.FindByMembersAndPeriod(ctx, ids, def.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicates: %w", err)
	}

	if err := w.BeginSelection(members, duplicates); err != nil {
		return nil, err
	}
	return w, nil
}

// CreateBatch runs a complete wizard pass from a single request: define the
// event, seed the roster, apply the operator's selections and overrides,
// confirm, and commit.
func (s *BulkRegistrationService) CreateBatch(ctx context.Context, req CreateBatchRequest) (*BatchResult, error) {
	w, err := s.StartWizard(ctx, req.Event)
	if err != nil {
		return nil, err
	}

	for _, sel := range req.Selections {
		entry, ok := w.Entry(sel.MemberID)
		if !ok {
			return nil, shared.NewDomainError("MEMBER_NOT_FOUND", "Selection references an unknown member")
		}
		amount := entry.Amount
		if sel.Amount != nil {
			amount = *sel.Amount
		}
		date := entry.Date
		if sel.Date != nil {
			date = *sel.Date
		}
		if err := w.Override(sel.MemberID, amount, date, sel.Comment); err != nil {
			return nil, err
		}
		if entry.Selected != sel.Selected {
			if err := w.Toggle(sel.MemberID); err != nil {
				return nil, err
			}
		}
	}

	if _, err := w.Confirm(); err != nil {
		return nil, err
	}
	return s.Commit(ctx, w)
}

// Commit persists a confirmed wizard run: the batch header, one due record
// per member and the ledger update for every paid record, all within one
// transaction. On failure the wizard returns to the confirmation step and
// no ledger is mutated.
func (s *BulkRegistrationService) Commit(ctx context.Context, w *Wizard) (*BatchResult, error) {
	records, err := w.BeginPersisting()
	if err != nil {
		return nil, err
	}
	summary := *w.Summary

	batch, err := dues.NewBatch(
		w.Event.Concept,
		w.Event.Type,
		w.Event.Period,
		w.Event.BaseAmount,
		w.Event.DefaultDate,
		w.Event.CreatedBy,
		records,
	)
	if err != nil {
		_ = w.Fail(err)
		return nil, err
	}
	for i := range records {
		records[i].AttachToBatch(batch.ID)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Batches().Save(ctx, batch); err != nil {
			return fmt.Errorf("failed to save batch: %w", err)
		}
		if err := repos.DueRecords().InsertMany(ctx, records); err != nil {
			return fmt.Errorf("failed to save due records: %w", err)
		}
		for i := range records {
			if !records[i].CountsTowardLedger() {
				continue
			}
			m, err := repos.Members().FindByID(ctx, records[i].MemberID)
			if err != nil {
				return fmt.Errorf("failed to load member for ledger update: %w", err)
			}
			if m == nil {
				return shared.NewDomainError("MEMBER_NOT_FOUND", "Member not found for ledger update")
			}
			m.AddPaid(records[i].Amount)
			if err := repos.Members().Save(ctx, m); err != nil {
				return fmt.Errorf("failed to update member balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Bulk registration failed",
			zap.String("concept", w.Event.Concept),
			zap.String("period", w.Event.Period.String()),
			zap.Error(err))
		_ = w.Fail(err)
		return nil, err
	}

	if err := w.Complete(); err != nil {
		return nil, err
	}

	s.logger.Info("Bulk registration created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("concept", batch.Concept),
		zap.String("period", batch.Period.String()),
		zap.Int("records", batch.Totals.Records),
		zap.Int("paid", batch.Totals.Paid))

	return &BatchResult{
		BatchID: batch.ID,
		Totals:  batch.Totals,
		Summary: summary,
	}, nil
}
