package member

import (
	"strings"
	"time"

	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents whether a member is active in the association
type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

// IsValid checks if the status is a valid member Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Member represents an association member (socio) aggregate root.
// PaidTotal is the running paid-to-date balance; it is only ever mutated
// through AddPaid/RestatePaid as a consequence of due record changes,
// never set directly by callers.
type Member struct {
	shared.BaseAggregateRoot
	FirstName string          `json:"nombre"`
	LastName  string          `json:"apellidos"`
	Document  string          `json:"dni"`
	Lot       string          `json:"lote"`
	Status    Status          `json:"estado"`
	Quota     decimal.Decimal `json:"cuota"`
	PaidTotal decimal.Decimal `json:"pagado"`
}

// NewMember creates a new member
func NewMember(firstName, lastName, document, lot string, quota decimal.Decimal) (*Member, error) {
	if firstName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	if document == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Member document cannot be empty")
	}
	if quota.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUOTA", "Member quota cannot be negative")
	}

	return &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Document:          document,
		Lot:               lot,
		Status:            StatusActive,
		Quota:             quota,
		PaidTotal:         decimal.Zero,
	}, nil
}

// FullName returns the member's display name
func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// IsActive returns true if the member is active
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Activate marks the member as active
func (m *Member) Activate() {
	m.Status = StatusActive
	m.UpdatedAt = time.Now()
}

// Deactivate marks the member as inactive
func (m *Member) Deactivate() {
	m.Status = StatusInactive
	m.UpdatedAt = time.Now()
}

// AddPaid adjusts the paid-to-date balance by delta (which may be negative).
// The resulting balance is clamped at zero; it must never go negative.
func (m *Member) AddPaid(delta decimal.Decimal) {
	next := m.PaidTotal.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	m.PaidTotal = next
	m.UpdatedAt = time.Now()
}

// RestatePaid replaces the paid-to-date balance with a recomputed total.
// Used only by the reconciliation routine that re-derives the balance
// from the sum of the member's paid due records.
func (m *Member) RestatePaid(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Restated balance cannot be negative")
	}
	m.PaidTotal = total
	m.UpdatedAt = time.Now()
	return nil
}

// IsDelinquent returns true if the member's paid balance is below their quota
func (m *Member) IsDelinquent() bool {
	return m.PaidTotal.LessThan(m.Quota)
}

// PaidMoney returns the paid balance as Money
func (m *Member) PaidMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(m.PaidTotal)
}

// Filter defines filtering options for member queries
type Filter struct {
	shared.Filter
	Status *Status
}

// MatchesSearch reports whether the member matches a free-text search over
// name, document and lot, mirroring the selection-table filter behavior.
func (m *Member) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(m.FirstName), term) ||
		strings.Contains(strings.ToLower(m.LastName), term) ||
		strings.Contains(strings.ToLower(m.Document), term) ||
		strings.Contains(strings.ToLower(m.Lot), term)
}

var _ shared.AggregateRoot = (*Member)(nil)
