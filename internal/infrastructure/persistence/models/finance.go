package models

import (
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashBoxModel is the persistence model for the CashBox entity.
type CashBoxModel struct {
	TenantAggregateModel
	Name           string          `gorm:"type:varchar(100);not null;index:idx_cash_box_tenant_name"`
	Description    string          `gorm:"type:text"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CashBoxModel) TableName() string {
	return "cash_boxes"
}

// ToDomain converts the persistence model to a domain CashBox entity.
func (m *CashBoxModel) ToDomain() *finance.CashBox {
	b := &finance.CashBox{
		Name:           m.Name,
		Description:    m.Description,
		OpeningBalance: m.OpeningBalance,
		Active:         m.Active,
	}
	m.PopulateTenantAggregateRoot(&b.TenantAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain CashBox entity.
func (m *CashBoxModel) FromDomain(b *finance.CashBox) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.Name = b.Name
	m.Description = b.Description
	m.OpeningBalance = b.OpeningBalance
	m.Active = b.Active
}

// ChartAccountModel is the persistence model for a chart-of-accounts entry.
type ChartAccountModel struct {
	TenantAggregateModel
	Code         string                   `gorm:"type:varchar(30);not null;index:idx_chart_tenant_code"`
	Name         string                   `gorm:"type:varchar(150);not null"`
	Kind         finance.ChartAccountKind `gorm:"type:varchar(20);not null"`
	ParentID     *uuid.UUID               `gorm:"type:uuid;index"`
	GroupingOnly bool                     `gorm:"not null;default:false"`
	Active       bool                     `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ChartAccountModel) TableName() string {
	return "chart_accounts"
}

// ToDomain converts the persistence model to a domain ChartAccount entity.
func (m *ChartAccountModel) ToDomain() *finance.ChartAccount {
	a := &finance.ChartAccount{
		Code:         m.Code,
		Name:         m.Name,
		Kind:         m.Kind,
		ParentID:     m.ParentID,
		GroupingOnly: m.GroupingOnly,
		Active:       m.Active,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain ChartAccount entity.
func (m *ChartAccountModel) FromDomain(a *finance.ChartAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.Kind = a.Kind
	m.ParentID = a.ParentID
	m.GroupingOnly = a.GroupingOnly
	m.Active = a.Active
}

// LedgerEntryModel is the persistence model for a LedgerEntry.
type LedgerEntryModel struct {
	TenantAggregateModel
	CashBoxID      uuid.UUID           `gorm:"type:uuid;not null;index:idx_ledger_box_date,priority:1"`
	ChartAccountID *uuid.UUID          `gorm:"type:uuid;index"`
	Description    string              `gorm:"type:varchar(255);not null"`
	EntryDate      time.Time           `gorm:"type:date;not null;index:idx_ledger_box_date,priority:2"`
	Amount         decimal.Decimal     `gorm:"type:decimal(14,2);not null"`
	Source         finance.EntrySource `gorm:"type:varchar(20);not null;default:'MANUAL'"`
	SourceID       *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	e := &finance.LedgerEntry{
		CashBoxID:      m.CashBoxID,
		ChartAccountID: m.ChartAccountID,
		Description:    m.Description,
		EntryDate:      finance.DateOnly(m.EntryDate),
		Amount:         m.Amount,
		Source:         m.Source,
		SourceID:       m.SourceID,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain LedgerEntry.
func (m *LedgerEntryModel) FromDomain(e *finance.LedgerEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.CashBoxID = e.CashBoxID
	m.ChartAccountID = e.ChartAccountID
	m.Description = e.Description
	m.EntryDate = e.EntryDate
	m.Amount = e.Amount
	m.Source = e.Source
	m.SourceID = e.SourceID
}

// AccountModel is the persistence model for an ad-hoc receivable or payable.
type AccountModel struct {
	TenantAggregateModel
	Kind           finance.AccountKind      `gorm:"type:varchar(20);not null;index"`
	Description    string                   `gorm:"type:varchar(255);not null"`
	Amount         decimal.Decimal          `gorm:"type:decimal(14,2);not null"`
	Interest       decimal.Decimal          `gorm:"type:decimal(14,2);not null;default:0"`
	Discount       decimal.Decimal          `gorm:"type:decimal(14,2);not null;default:0"`
	DueDate        time.Time                `gorm:"type:date;not null;index"`
	PaymentDate    *time.Time               `gorm:"type:date"`
	Status         finance.ObligationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ChartAccountID uuid.UUID                `gorm:"type:uuid;not null"`
	CashBoxID      *uuid.UUID               `gorm:"type:uuid"`
	MemberID       *uuid.UUID               `gorm:"type:uuid;index"`
	SupplierID     *uuid.UUID               `gorm:"type:uuid;index"`
	Notes          string                   `gorm:"type:text"`
	CanceledAt     *time.Time
	CancelReason   string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *finance.Account {
	a := &finance.Account{
		Kind:           m.Kind,
		Description:    m.Description,
		Amount:         m.Amount,
		Interest:       m.Interest,
		Discount:       m.Discount,
		DueDate:        finance.DateOnly(m.DueDate),
		PaymentDate:    m.PaymentDate,
		Status:         m.Status,
		ChartAccountID: m.ChartAccountID,
		CashBoxID:      m.CashBoxID,
		MemberID:       m.MemberID,
		SupplierID:     m.SupplierID,
		Notes:          m.Notes,
		CanceledAt:     m.CanceledAt,
		CancelReason:   m.CancelReason,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Account.
func (m *AccountModel) FromDomain(a *finance.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Kind = a.Kind
	m.Description = a.Description
	m.Amount = a.Amount
	m.Interest = a.Interest
	m.Discount = a.Discount
	m.DueDate = a.DueDate
	m.PaymentDate = a.PaymentDate
	m.Status = a.Status
	m.ChartAccountID = a.ChartAccountID
	m.CashBoxID = a.CashBoxID
	m.MemberID = a.MemberID
	m.SupplierID = a.SupplierID
	m.Notes = a.Notes
	m.CanceledAt = a.CanceledAt
	m.CancelReason = a.CancelReason
}

// TenantSettingsModel is the persistence model for the typed finance settings, one row per tenant.
type TenantSettingsModel struct {
	TenantID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DuesRevenueAccountID     *uuid.UUID      `gorm:"type:uuid"`
	InterestRevenueAccountID *uuid.UUID      `gorm:"type:uuid"`
	DefaultCashBoxID         *uuid.UUID      `gorm:"type:uuid"`
	MonthlyInterestRate      decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	LateFeePercent           decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	GraceDays                int             `gorm:"not null;default:0"`
	UpdatedAt                time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantSettingsModel) TableName() string {
	return "tenant_finance_settings"
}

// ToDomain converts the persistence model to domain TenantSettings.
func (m *TenantSettingsModel) ToDomain() *finance.TenantSettings {
	return &finance.TenantSettings{
		TenantID:                 m.TenantID,
		DuesRevenueAccountID:     m.DuesRevenueAccountID,
		InterestRevenueAccountID: m.InterestRevenueAccountID,
		DefaultCashBoxID:         m.DefaultCashBoxID,
		MonthlyInterestRate:      m.MonthlyInterestRate,
		LateFeePercent:           m.LateFeePercent,
		GraceDays:                m.GraceDays,
		UpdatedAt:                m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from domain TenantSettings.
func (m *TenantSettingsModel) FromDomain(s *finance.TenantSettings) {
	m.TenantID = s.TenantID
	m.DuesRevenueAccountID = s.DuesRevenueAccountID
	m.InterestRevenueAccountID = s.InterestRevenueAccountID
	m.DefaultCashBoxID = s.DefaultCashBoxID
	m.MonthlyInterestRate = s.MonthlyInterestRate
	m.LateFeePercent = s.LateFeePercent
	m.GraceDays = s.GraceDays
	m.UpdatedAt = s.UpdatedAt
}
