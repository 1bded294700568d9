package models

import (
	"time"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/shared/valueobject"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	TenantAggregateModel
	Username          string              `gorm:"type:varchar(100);not null;index:idx_user_tenant_username"`
	Email             string              `gorm:"type:varchar(200)"`
	DisplayName       string              `gorm:"type:varchar(200)"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	Role              identity.Role       `gorm:"type:varchar(20);not null"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"type:varchar(45)"`
	FailedAttempts    int    `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:          m.Username,
		Email:             m.Email,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Status:            m.Status,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		PasswordChangedAt: m.PasswordChangedAt,
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// TenantModel is the persistence model for the Tenant (club) domain entity.
type TenantModel struct {
	AggregateModel
	Code              string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string                `gorm:"type:varchar(200);not null"`
	Document          string                `gorm:"type:varchar(14)"`
	ResponsiblePerson string                `gorm:"type:varchar(200)"`
	Phone             string                `gorm:"type:varchar(50)"`
	Email             string                `gorm:"type:varchar(200)"`
	Address           valueobject.Address   `gorm:"type:jsonb"`
	Timezone          string                `gorm:"type:varchar(50);not null;default:'America/Sao_Paulo'"`
	Status            identity.TenantStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *identity.Tenant {
	t := &identity.Tenant{
		Code:              m.Code,
		Name:              m.Name,
		Document:          valueobject.RestoreDocument(m.Document),
		ResponsiblePerson: m.ResponsiblePerson,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		Timezone:          m.Timezone,
		Status:            m.Status,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.Document = t.Document.Digits()
	m.ResponsiblePerson = t.ResponsiblePerson
	m.Phone = t.Phone
	m.Email = t.Email
	m.Address = t.Address
	m.Timezone = t.Timezone
	m.Status = t.Status
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
