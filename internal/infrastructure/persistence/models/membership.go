package models

import (
	"time"

	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for the member Category entity.
type CategoryModel struct {
	TenantAggregateModel
	Name        string          `gorm:"type:varchar(100);not null;index:idx_category_tenant_name"`
	Description string          `gorm:"type:text"`
	MonthlyFee  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DueDay      int             `gorm:"not null;default:10"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "member_categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *membership.Category {
	c := &membership.Category{
		Name:        m.Name,
		Description: m.Description,
		MonthlyFee:  m.MonthlyFee,
		DueDay:      m.DueDay,
		Active:      m.Active,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *membership.Category) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.MonthlyFee = c.MonthlyFee
	m.DueDay = c.DueDay
	m.Active = c.Active
}

// AffiliationModel is the persistence model for the Affiliation entity.
type AffiliationModel struct {
	TenantAggregateModel
	Name            string          `gorm:"type:varchar(150);not null;index:idx_affiliation_tenant_name"`
	ContactCompany  string          `gorm:"type:varchar(150)"`
	ContactPhone    string          `gorm:"type:varchar(50)"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Active          bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AffiliationModel) TableName() string {
	return "affiliations"
}

// ToDomain converts the persistence model to a domain Affiliation entity.
func (m *AffiliationModel) ToDomain() *membership.Affiliation {
	a := &membership.Affiliation{
		Name:            m.Name,
		ContactCompany:  m.ContactCompany,
		ContactPhone:    m.ContactPhone,
		DiscountPercent: m.DiscountPercent,
		Active:          m.Active,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Affiliation entity.
func (m *AffiliationModel) FromDomain(a *membership.Affiliation) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Name = a.Name
	m.ContactCompany = a.ContactCompany
	m.ContactPhone = a.ContactPhone
	m.DiscountPercent = a.DiscountPercent
	m.Active = a.Active
}

// MemberModel is the persistence model for the Member aggregate.
type MemberModel struct {
	TenantAggregateModel
	RegistrationNumber string                  `gorm:"type:varchar(30);not null;index:idx_member_tenant_registration"`
	ContractNumber     string                  `gorm:"type:varchar(30)"`
	Name               string                  `gorm:"type:varchar(200);not null;index"`
	CPF                string                  `gorm:"column:cpf;type:varchar(11);not null;index:idx_member_tenant_cpf"`
	BirthDate          *time.Time              `gorm:"type:date"`
	Email              string                  `gorm:"type:varchar(200)"`
	Phone              string                  `gorm:"type:varchar(50)"`
	MobilePhone        string                  `gorm:"type:varchar(50)"`
	Address            valueobject.Address     `gorm:"type:jsonb"`
	AdmissionDate      time.Time               `gorm:"type:date;not null"`
	Status             membership.MemberStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	StatusReason       string                  `gorm:"type:varchar(255)"`
	CategoryID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	AffiliationID      *uuid.UUID              `gorm:"type:uuid;index"`
	Notes              string                  `gorm:"type:text"`
	Dependents         []DependentModel        `gorm:"foreignKey:MemberID"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member aggregate.
func (m *MemberModel) ToDomain() *membership.Member {
	member := &membership.Member{
		RegistrationNumber: m.RegistrationNumber,
		ContractNumber:     m.ContractNumber,
		Name:               m.Name,
		CPF:                valueobject.RestoreDocument(m.CPF),
		BirthDate:          m.BirthDate,
		Email:              m.Email,
		Phone:              m.Phone,
		MobilePhone:        m.MobilePhone,
		Address:            m.Address,
		AdmissionDate:      m.AdmissionDate,
		Status:             m.Status,
		StatusReason:       m.StatusReason,
		CategoryID:         m.CategoryID,
		AffiliationID:      m.AffiliationID,
		Notes:              m.Notes,
		Dependents:         make([]membership.Dependent, 0, len(m.Dependents)),
	}
	m.PopulateTenantAggregateRoot(&member.TenantAggregateRoot)
	for i := range m.Dependents {
		member.Dependents = append(member.Dependents, m.Dependents[i].ToDomain())
	}
	return member
}

// FromDomain populates the persistence model from a domain Member aggregate.
// Dependents are copied too; the repository replaces them as a set.
func (m *MemberModel) FromDomain(member *membership.Member) {
	m.FromDomainTenantAggregateRoot(member.TenantAggregateRoot)
	m.RegistrationNumber = member.RegistrationNumber
	m.ContractNumber = member.ContractNumber
	m.Name = member.Name
	m.CPF = member.CPF.Digits()
	m.BirthDate = member.BirthDate
	m.Email = member.Email
	m.Phone = member.Phone
	m.MobilePhone = member.MobilePhone
	m.Address = member.Address
	m.AdmissionDate = member.AdmissionDate
	m.Status = member.Status
	m.StatusReason = member.StatusReason
	m.CategoryID = member.CategoryID
	m.AffiliationID = member.AffiliationID
	m.Notes = member.Notes
	m.Dependents = make([]DependentModel, 0, len(member.Dependents))
	for _, d := range member.Dependents {
		m.Dependents = append(m.Dependents, DependentModelFromDomain(member.TenantID, d))
	}
}

// DependentModel is the persistence model for a member's Dependent.
type DependentModel struct {
	BaseModel
	TenantID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	MemberID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	Name         string                  `gorm:"type:varchar(200);not null"`
	BirthDate    *time.Time              `gorm:"type:date"`
	CPF          string                  `gorm:"column:cpf;type:varchar(11)"`
	Relationship membership.Relationship `gorm:"type:varchar(20);not null"`
	Active       bool                    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DependentModel) TableName() string {
	return "member_dependents"
}

// ToDomain converts the persistence model to a domain Dependent entity.
func (m *DependentModel) ToDomain() membership.Dependent {
	return membership.Dependent{
		BaseEntity:   m.BaseModel.ToDomain(),
		MemberID:     m.MemberID,
		Name:         m.Name,
		BirthDate:    m.BirthDate,
		CPF:          valueobject.RestoreDocument(m.CPF),
		Relationship: m.Relationship,
		Active:       m.Active,
	}
}

// DependentModelFromDomain creates a persistence model from a domain Dependent.
func DependentModelFromDomain(tenantID uuid.UUID, d membership.Dependent) DependentModel {
	m := DependentModel{
		TenantID:     tenantID,
		MemberID:     d.MemberID,
		Name:         d.Name,
		BirthDate:    d.BirthDate,
		CPF:          d.CPF.Digits(),
		Relationship: d.Relationship,
		Active:       d.Active,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}
