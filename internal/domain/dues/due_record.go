package dues

import (
	"time"

	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueType represents the kind of contribution being billed
type DueType string

const (
	DueTypeMonthly       DueType = "cuota_mensual"
	DueTypeExtraordinary DueType = "extraordinario"
	DueTypeFine          DueType = "multa"
	DueTypeOther         DueType = "otro"
)

// IsValid checks if the type is a valid DueType
func (t DueType) IsValid() bool {
	switch t {
	case DueTypeMonthly, DueTypeExtraordinary, DueTypeFine, DueTypeOther:
		return true
	}
	return false
}

// String returns the string representation of DueType
func (t DueType) String() string {
	return string(t)
}

// DisplayName returns a human-readable name for the due type
func (t DueType) DisplayName() string {
	switch t {
	case DueTypeMonthly:
		return "Cuota Mensual"
	case DueTypeExtraordinary:
		return "Aporte Extraordinario"
	case DueTypeFine:
		return "Multa"
	case DueTypeOther:
		return "Otro"
	default:
		return string(t)
	}
}

// DueStatus represents whether a due record was paid
type DueStatus string

const (
	DueStatusPaid    DueStatus = "pagado"
	DueStatusPending DueStatus = "pendiente"
)

// IsValid checks if the status is a valid DueStatus
func (s DueStatus) IsValid() bool {
	return s == DueStatusPaid || s == DueStatusPending
}

// String returns the string representation of DueStatus
func (s DueStatus) String() string {
	return string(s)
}

// DeriveStatus derives the due status from an amount: paid iff amount > 0.
// A pending record always carries a zero amount.
func DeriveStatus(amount decimal.Decimal) DueStatus {
	if amount.IsPositive() {
		return DueStatusPaid
	}
	return DueStatusPending
}

// DefaultUnpaidComment is attached to records synthesized for members who
// were left out of a bulk registration and gave no comment of their own.
const DefaultUnpaidComment = "No pagó"

// DueRecord represents a single contribution entry (aporte) for a member.
// Status is derived, never assigned independently of the amount.
type DueRecord struct {
	shared.BaseAggregateRoot
	MemberID uuid.UUID          `json:"socio_id"`
	BatchID  *uuid.UUID         `json:"registro_masivo_id,omitempty"`
	Concept  string             `json:"concepto"`
	Type     DueType            `json:"tipo"`
	Period   valueobject.Period `json:"periodo"`
	Amount   decimal.Decimal    `json:"monto"`
	Date     time.Time          `json:"fecha"`
	Status   DueStatus          `json:"estado"`
	Comment  string             `json:"comentario"`
}

// NewDueRecord creates a due record for a member. The amount may be zero,
// in which case the record is pending; negative amounts are rejected.
func NewDueRecord(
	memberID uuid.UUID,
	concept string,
	dueType DueType,
	period valueobject.Period,
	amount decimal.Decimal,
	date time.Time,
	comment string,
) (*DueRecord, error) {
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Due record requires a member")
	}
	if concept == "" {
		return nil, shared.NewDomainError("INVALID_CONCEPT", "Concept cannot be empty")
	}
	if !dueType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Due type is not valid")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Billing period is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Date is required")
	}

	return &DueRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemberID:          memberID,
		Concept:           concept,
		Type:              dueType,
		Period:            period,
		Amount:            amount,
		Date:              date,
		Status:            DeriveStatus(amount),
		Comment:           comment,
	}, nil
}

// AttachToBatch links the record to a bulk registration batch
func (r *DueRecord) AttachToBatch(batchID uuid.UUID) {
	r.BatchID = &batchID
	r.UpdatedAt = time.Now()
}

// IsPaid returns true if the record is paid
func (r *DueRecord) IsPaid() bool {
	return r.Status == DueStatusPaid
}

// CountsTowardLedger returns true if this record contributes to the owning
// member's paid-to-date balance.
func (r *DueRecord) CountsTowardLedger() bool {
	return r.Status == DueStatusPaid && r.Amount.IsPositive()
}

// Revise updates amount, date and comment, re-deriving the status from the
// new amount. It returns the ledger delta the caller must apply to the
// owning member: newLedgerContribution - oldLedgerContribution.
func (r *DueRecord) Revise(amount decimal.Decimal, date time.Time, comment string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if date.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_DATE", "Date is required")
	}

	oldContribution := decimal.Zero
	if r.CountsTowardLedger() {
		oldContribution = r.Amount
	}

	r.Amount = amount
	r.Date = date
	r.Comment = comment
	r.Status = DeriveStatus(amount)
	r.UpdatedAt = time.Now()

	newContribution := decimal.Zero
	if r.CountsTowardLedger() {
		newContribution = r.Amount
	}

	return newContribution.Sub(oldContribution), nil
}

// AmountMoney returns the amount as Money
func (r *DueRecord) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(r.Amount)
}
