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

// CreateDueRequest carries the input for a single ad hoc due record,
// registered outside any bulk run.
type CreateDueRequest struct {
	MemberID uuid.UUID          `json:"socio_id"`
	Concept  string             `json:"concepto"`
	Type     dues.DueType       `json:"tipo"`
	Period   valueobject.Period `json:"periodo"`
	Amount   decimal.Decimal    `json:"monto"`
	Date     time.Time          `json:"fecha"`
	Comment  string             `json:"comentario"`
}

// DueService manages individual due records outside the bulk workflow
type DueService struct {
	dueRepo    dues.DueRecordRepository
	memberRepo member.Repository
	scope      TransactionScope
	logger     *zap.Logger
}

// NewDueService creates a new DueService
func NewDueService(
	dueRepo dues.DueRecordRepository,
	memberRepo member.Repository,
	scope TransactionScope,
	logger *zap.Logger,
) *DueService {
	return &DueService{
		dueRepo:    dueRepo,
		memberRepo: memberRepo,
		scope:      scope,
		logger:     logger,
	}
}

// List returns due records newest first
func (s *DueService) List(ctx context.Context, filter shared.Filter) ([]dues.DueRecord, error) {
	records, err := s.dueRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list due records: %w", err)
	}
	return records, nil
}

// ListByMember returns one member's due history newest first
func (s *DueService) ListByMember(ctx context.Context, memberID uuid.UUID) ([]dues.DueRecord, error) {
	records, err := s.dueRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member due records: %w", err)
	}
	return records, nil
}

// Get returns a single due record
func (s *DueService) Get(ctx context.Context, id uuid.UUID) (*dues.DueRecord, error) {
	record, err := s.dueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load due record: %w", err)
	}
	if record == nil {
		return nil, shared.ErrNotFound
	}
	return record, nil
}

// Create registers one due record and, when it is paid, adds its amount to
// the member's balance. Record and balance commit together.
func (s *DueService) Create(ctx context.Context, req CreateDueRequest) (*dues.DueRecord, error) {
	record, err := dues.NewDueRecord(
		req.MemberID,
		req.Concept,
		req.Type,
		req.Period,
		req.Amount,
		req.Date,
		req.Comment,
	)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		m, err := repos.Members().FindByID(ctx, record.MemberID)
		if err != nil {
			return fmt.Errorf("failed to load member: %w", err)
		}
		if m == nil {
			return shared.NewDomainError("MEMBER_NOT_FOUND", "Member not found")
		}
		if err := repos.DueRecords().Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save due record: %w", err)
		}
		if record.CountsTowardLedger() {
			m.AddPaid(record.Amount)
			if err := repos.Members().Save(ctx, m); err != nil {
				return fmt.Errorf("failed to update member balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Due record created",
		zap.String("record_id", record.ID.String()),
		zap.String("member_id", record.MemberID.String()),
		zap.String("status", record.Status.String()))
	return record, nil
}

// Update revises an ad hoc due record and applies the ledger delta. For
// records belonging to a batch, use the batch editor instead so the batch
// totals stay consistent.
func (s *DueService) Update(ctx context.Context, id uuid.UUID, req UpdateChildRequest) (*dues.DueRecord, error) {
	record, err := s.dueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load due record: %w", err)
	}
	if record == nil {
		return nil, shared.ErrNotFound
	}
	if record.BatchID != nil {
		return nil, shared.NewDomainError("RECORD_IN_BATCH", "Record belongs to a bulk registration; edit it through the batch")
	}

	delta, err := record.Revise(req.Amount, req.Date, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.dueRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save due record: %w", err)
	}

	if !delta.IsZero() {
		if err := s.adjustBalance(ctx, record.MemberID, delta); err != nil {
			s.logger.Error("Ledger adjustment failed after record edit",
				zap.String("record_id", record.ID.String()),
				zap.String("member_id", record.MemberID.String()),
				zap.Error(err))
			return nil, shared.ErrLedgerAdjustment
		}
	}
	return record, nil
}

// Delete removes an ad hoc due record, reversing its paid amount out of
// the member's balance in the same transaction.
func (s *DueService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.DueRecords().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load due record: %w", err)
		}
		if record == nil {
			return shared.ErrNotFound
		}
		if record.BatchID != nil {
			return shared.NewDomainError("RECORD_IN_BATCH", "Record belongs to a bulk registration; delete the batch instead")
		}

		if record.CountsTowardLedger() {
			m, err := repos.Members().FindByID(ctx, record.MemberID)
			if err != nil {
				return fmt.Errorf("failed to load member: %w", err)
			}
			if m != nil {
				m.AddPaid(record.Amount.Neg())
				if err := repos.Members().Save(ctx, m); err != nil {
					return fmt.Errorf("failed to reverse member balance: %w", err)
				}
			}
		}

		return repos.DueRecords().Delete(ctx, id)
	})
}

func (s *DueService) adjustBalance(ctx context.Context, memberID uuid.UUID, delta decimal.Decimal) error {
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
