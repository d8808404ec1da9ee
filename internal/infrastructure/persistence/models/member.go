package models

import (
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/shopspring/decimal"
)

// MemberModel is the persistence model for the Member aggregate.
type MemberModel struct {
	AggregateModel
	FirstName string          `gorm:"type:varchar(100);not null"`
	LastName  string          `gorm:"type:varchar(100)"`
	Document  string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Lot       string          `gorm:"type:varchar(20);index"`
	Status    member.Status   `gorm:"type:varchar(20);not null;default:'activo';index"`
	Quota     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaidTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "socios"
}

// ToDomain converts the persistence model to a domain Member aggregate.
func (m *MemberModel) ToDomain() *member.Member {
	return &member.Member{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Document:          m.Document,
		Lot:               m.Lot,
		Status:            m.Status,
		Quota:             m.Quota,
		PaidTotal:         m.PaidTotal,
	}
}

// FromDomain populates the persistence model from a domain Member aggregate.
func (m *MemberModel) FromDomain(d *member.Member) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.FirstName = d.FirstName
	m.LastName = d.LastName
	m.Document = d.Document
	m.Lot = d.Lot
	m.Status = d.Status
	m.Quota = d.Quota
	m.PaidTotal = d.PaidTotal
}

// MemberModelFromDomain creates a new persistence model from a domain Member.
func MemberModelFromDomain(d *member.Member) *MemberModel {
	m := &MemberModel{}
	m.FromDomain(d)
	return m
}
