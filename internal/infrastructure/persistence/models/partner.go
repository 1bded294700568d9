package models

import (
	"github.com/clube/backend/internal/domain/partner"
	"github.com/clube/backend/internal/domain/shared/valueobject"
)

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	TenantAggregateModel
	Name          string                 `gorm:"type:varchar(200);not null"`
	TradeName     string                 `gorm:"type:varchar(200)"`
	Document      string                 `gorm:"type:varchar(14);index"`
	Email         string                 `gorm:"type:varchar(200)"`
	Phone         string                 `gorm:"type:varchar(50)"`
	ContactPerson string                 `gorm:"type:varchar(100)"`
	Address       valueobject.Address    `gorm:"type:jsonb"`
	Status        partner.SupplierStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Notes         string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	s := &partner.Supplier{
		Name:          m.Name,
		TradeName:     m.TradeName,
		Document:      valueobject.RestoreDocument(m.Document),
		Email:         m.Email,
		Phone:         m.Phone,
		ContactPerson: m.ContactPerson,
		Address:       m.Address,
		Status:        m.Status,
		Notes:         m.Notes,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Name = s.Name
	m.TradeName = s.TradeName
	m.Document = s.Document.Digits()
	m.Email = s.Email
	m.Phone = s.Phone
	m.ContactPerson = s.ContactPerson
	m.Address = s.Address
	m.Status = s.Status
	m.Notes = s.Notes
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
