package member

import (
	"context"
	"fmt"

	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateMemberInput contains input for registering a member
type CreateMemberInput struct {
	FirstName string          `json:"nombre"`
	LastName  string          `json:"apellidos"`
	Document  string          `json:"dni"`
	Lot       string          `json:"lote"`
	Quota     decimal.Decimal `json:"cuota"`
}

// UpdateMemberInput contains the editable member fields
type UpdateMemberInput struct {
	FirstName *string          `json:"nombre,omitempty"`
	LastName  *string          `json:"apellidos,omitempty"`
	Lot       *string          `json:"lote,omitempty"`
	Quota     *decimal.Decimal `json:"cuota,omitempty"`
	Status    *member.Status   `json:"estado,omitempty"`
}

// Service handles member roster management. The paid-to-date balance is
// out of its reach: only due record flows mutate it.
type Service struct {
	repo   member.Repository
	logger *zap.Logger
}

// NewService creates a new member Service
func NewService(repo member.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns members matching the filter, paginated
func (s *Service) List(ctx context.Context, filter member.Filter) (shared.Paginated[member.Member], error) {
	members, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[member.Member]{}, fmt.Errorf("failed to list members: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[member.Member]{}, fmt.Errorf("failed to count members: %w", err)
	}
	return shared.NewPaginated(members, total, filter.Page, filter.PageSize), nil
}

// Get returns one member
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}
	return m, nil
}

// Create registers a new member
func (s *Service) Create(ctx context.Context, input CreateMemberInput) (*member.Member, error) {
	m, err := member.NewMember(input.FirstName, input.LastName, input.Document, input.Lot, input.Quota)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	s.logger.Info("Member created",
		zap.String("member_id", m.ID.String()),
		zap.String("document", m.Document))
	return m, nil
}

// Update edits a member's identity fields, quota or status
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*member.Member, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
		}
		m.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		m.LastName = *input.LastName
	}
	if input.Lot != nil {
		m.Lot = *input.Lot
	}
	if input.Quota != nil {
		if input.Quota.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUOTA", "Member quota cannot be negative")
		}
		m.Quota = *input.Quota
	}
	if input.Status != nil {
		switch *input.Status {
		case member.StatusActive:
			m.Activate()
		case member.StatusInactive:
			m.Deactivate()
		default:
			return nil, shared.NewDomainError("INVALID_STATUS", "Member status is not valid")
		}
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}
	return m, nil
}

// ListDelinquent returns members whose paid balance is below their quota
func (s *Service) ListDelinquent(ctx context.Context) ([]member.Member, error) {
	members, err := s.repo.FindDelinquent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list delinquent members: %w", err)
	}
	return members, nil
}
