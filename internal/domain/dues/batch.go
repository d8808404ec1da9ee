package dues

import (
	"time"

	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultCreatorName is used when no creator is supplied for a batch
const DefaultCreatorName = "Administrador"

// BatchTotals holds the denormalized aggregates a batch keeps over its
// child due records. They must always equal the corresponding aggregate
// over the current child set.
type BatchTotals struct {
	Records     int             `json:"total_registros"`
	Paid        int             `json:"total_pagados"`
	Pending     int             `json:"total_pendientes"`
	TotalAmount decimal.Decimal `json:"total_monto"`
}

// ComputeTotals derives batch totals from a set of child due records.
// Totals are always recomputed in full rather than patched incrementally,
// so a missed update path cannot leave them drifted.
func ComputeTotals(children []DueRecord) BatchTotals {
	totals := BatchTotals{TotalAmount: decimal.Zero}
	for _, c := range children {
		totals.Records++
		if c.Status == DueStatusPaid {
			totals.Paid++
		} else {
			totals.Pending++
		}
		totals.TotalAmount = totals.TotalAmount.Add(c.Amount)
	}
	return totals
}

// Batch represents one run of the bulk registration wizard (registro masivo),
// grouping the due records created together.
type Batch struct {
	shared.BaseAggregateRoot
	Concept       string             `json:"concepto"`
	Type          DueType            `json:"tipo"`
	Period        valueobject.Period `json:"periodo"`
	BaseAmount    decimal.Decimal    `json:"monto_base"`
	DefaultDate   time.Time          `json:"fecha_defecto"`
	CreatedByName string             `json:"creado_por"`
	Totals        BatchTotals        `json:"totales"`
}

// NewBatch creates a batch header with totals computed from its children
func NewBatch(
	concept string,
	dueType DueType,
	period valueobject.Period,
	baseAmount decimal.Decimal,
	defaultDate time.Time,
	createdBy string,
	children []DueRecord,
) (*Batch, error) {
	if concept == "" {
		return nil, shared.NewDomainError("INVALID_CONCEPT", "Concept cannot be empty")
	}
	if !dueType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Due type is not valid")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Billing period is required")
	}
	if baseAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Base amount cannot be negative")
	}
	if defaultDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Default date is required")
	}
	if len(children) == 0 {
		return nil, shared.ErrZeroScope
	}
	if createdBy == "" {
		createdBy = DefaultCreatorName
	}

	return &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Concept:           concept,
		Type:              dueType,
		Period:            period,
		BaseAmount:        baseAmount,
		DefaultDate:       defaultDate,
		CreatedByName:     createdBy,
		Totals:            ComputeTotals(children),
	}, nil
}

// RecomputeTotals refreshes the denormalized totals from the current child set
func (b *Batch) RecomputeTotals(children []DueRecord) {
	b.Totals = ComputeTotals(children)
	b.UpdatedAt = time.Now()
}

// TotalMoney returns the total amount as Money
func (b *Batch) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(b.Totals.TotalAmount)
}
