package models

import (
	"time"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueRecordModel is the persistence model for the DueRecord aggregate.
// The billing period value object is flattened into month/year columns so
// the duplicate check can match on them directly.
type DueRecordModel struct {
	AggregateModel
	MemberID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID     *uuid.UUID      `gorm:"type:uuid;index"`
	Concept     string          `gorm:"type:varchar(200);not null"`
	Type        dues.DueType    `gorm:"type:varchar(30);not null"`
	PeriodMonth string          `gorm:"type:varchar(15);not null;index:idx_aportes_periodo"`
	PeriodYear  int             `gorm:"not null;index:idx_aportes_periodo"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Date        time.Time       `gorm:"not null;index"`
	Status      dues.DueStatus  `gorm:"type:varchar(15);not null;index"`
	Comment     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DueRecordModel) TableName() string {
	return "aportes"
}

// ToDomain converts the persistence model to a domain DueRecord.
func (m *DueRecordModel) ToDomain() *dues.DueRecord {
	return &dues.DueRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		MemberID:          m.MemberID,
		BatchID:           m.BatchID,
		Concept:           m.Concept,
		Type:              m.Type,
		Period:            valueobject.Period{Month: m.PeriodMonth, Year: m.PeriodYear},
		Amount:            m.Amount,
		Date:              m.Date,
		Status:            m.Status,
		Comment:           m.Comment,
	}
}

// FromDomain populates the persistence model from a domain DueRecord.
func (m *DueRecordModel) FromDomain(d *dues.DueRecord) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.MemberID = d.MemberID
	m.BatchID = d.BatchID
	m.Concept = d.Concept
	m.Type = d.Type
	m.PeriodMonth = d.Period.Month
	m.PeriodYear = d.Period.Year
	m.Amount = d.Amount
	m.Date = d.Date
	m.Status = d.Status
	m.Comment = d.Comment
}

// DueRecordModelFromDomain creates a new persistence model from a domain DueRecord.
func DueRecordModelFromDomain(d *dues.DueRecord) *DueRecordModel {
	m := &DueRecordModel{}
	m.FromDomain(d)
	return m
}

// BatchModel is the persistence model for the bulk registration Batch
// aggregate, carrying the denormalized totals alongside the event fields.
type BatchModel struct {
	AggregateModel
	Concept       string          `gorm:"type:varchar(200);not null"`
	Type          dues.DueType    `gorm:"type:varchar(30);not null"`
	PeriodMonth   string          `gorm:"type:varchar(15);not null;index:idx_registros_periodo"`
	PeriodYear    int             `gorm:"not null;index:idx_registros_periodo"`
	BaseAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DefaultDate   time.Time       `gorm:"not null"`
	CreatedByName string          `gorm:"type:varchar(100);not null"`
	TotalRecords  int             `gorm:"not null;default:0"`
	TotalPaid     int             `gorm:"not null;default:0"`
	TotalPending  int             `gorm:"not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "registros_masivos"
}

// ToDomain converts the persistence model to a domain Batch.
func (m *BatchModel) ToDomain() *dues.Batch {
	return &dues.Batch{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Concept:           m.Concept,
		Type:              m.Type,
		Period:            valueobject.Period{Month: m.PeriodMonth, Year: m.PeriodYear},
		BaseAmount:        m.BaseAmount,
		DefaultDate:       m.DefaultDate,
		CreatedByName:     m.CreatedByName,
		Totals: dues.BatchTotals{
			Records:     m.TotalRecords,
			Paid:        m.TotalPaid,
			Pending:     m.TotalPending,
			TotalAmount: m.TotalAmount,
		},
	}
}

// FromDomain populates the persistence model from a domain Batch.
func (m *BatchModel) FromDomain(d *dues.Batch) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Concept = d.Concept
	m.Type = d.Type
	m.PeriodMonth = d.Period.Month
	m.PeriodYear = d.Period.Year
	m.BaseAmount = d.BaseAmount
	m.DefaultDate = d.DefaultDate
	m.CreatedByName = d.CreatedByName
	m.TotalRecords = d.Totals.Records
	m.TotalPaid = d.Totals.Paid
	m.TotalPending = d.Totals.Pending
	m.TotalAmount = d.Totals.TotalAmount
}

// BatchModelFromDomain creates a new persistence model from a domain Batch.
func BatchModelFromDomain(d *dues.Batch) *BatchModel {
	m := &BatchModel{}
	m.FromDomain(d)
	return m
}
