package models

import (
	"time"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DuesRecordModel is the persistence model for the DuesRecord aggregate.
// period holds the first day of the billed month.
type DuesRecordModel struct {
	TenantAggregateModel
	MemberID     uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_dues_member_period,priority:1"`
	Period       time.Time                `gorm:"type:date;not null;uniqueIndex:idx_dues_member_period,priority:2"`
	Amount       decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	Interest     decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	Discount     decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	DueDate      time.Time                `gorm:"type:date;not null;index"`
	PaymentDate  *time.Time               `gorm:"type:date"`
	Status       finance.ObligationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CashBoxID    *uuid.UUID               `gorm:"type:uuid"`
	Origin       dues.Origin              `gorm:"type:varchar(20);not null;default:'GENERATED'"`
	Notes        string                   `gorm:"type:text"`
	CanceledAt   *time.Time
	CancelReason string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (DuesRecordModel) TableName() string {
	return "dues_records"
}

// ToDomain converts the persistence model to a domain DuesRecord.
func (m *DuesRecordModel) ToDomain() *dues.DuesRecord {
	r := &dues.DuesRecord{
		MemberID:     m.MemberID,
		Period:       dues.PeriodOf(m.Period),
		Amount:       m.Amount,
		Interest:     m.Interest,
		Discount:     m.Discount,
		DueDate:      finance.DateOnly(m.DueDate),
		PaymentDate:  m.PaymentDate,
		Status:       m.Status,
		CashBoxID:    m.CashBoxID,
		Origin:       m.Origin,
		Notes:        m.Notes,
		CanceledAt:   m.CanceledAt,
		CancelReason: m.CancelReason,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain DuesRecord.
func (m *DuesRecordModel) FromDomain(r *dues.DuesRecord) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.MemberID = r.MemberID
	m.Period = r.Period.FirstDay()
	m.Amount = r.Amount
	m.Interest = r.Interest
	m.Discount = r.Discount
	m.DueDate = r.DueDate
	m.PaymentDate = r.PaymentDate
	m.Status = r.Status
	m.CashBoxID = r.CashBoxID
	m.Origin = r.Origin
	m.Notes = r.Notes
	m.CanceledAt = r.CanceledAt
	m.CancelReason = r.CancelReason
}

// DuesRecordModelFromDomain creates a new persistence model from a domain DuesRecord.
func DuesRecordModelFromDomain(r *dues.DuesRecord) *DuesRecordModel {
	m := &DuesRecordModel{}
	m.FromDomain(r)
	return m
}
