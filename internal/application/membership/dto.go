package membership

import (
	"time"

	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Category DTOs
// =============================================================================

// CategoryRequest represents the fields of a member category
type CategoryRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"max=500"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
	DueDay      int             `json:"due_day" binding:"required,min=1,max=31"`
	Active      *bool           `json:"active"`
}

// CategoryResponse represents a member category in API responses
type CategoryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
	DueDay      int             `json:"due_day"`
	Active      bool            `json:"active"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *membership.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		MonthlyFee:  c.MonthlyFee,
		DueDay:      c.DueDay,
		Active:      c.Active,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// =============================================================================
// Affiliation DTOs
// =============================================================================

// AffiliationRequest represents the fields of an affiliation
type AffiliationRequest struct {
	Name            string           `json:"name" binding:"required,min=1,max=150"`
	ContactCompany  string           `json:"contact_company" binding:"max=150"`
	ContactPhone    string           `json:"contact_phone" binding:"max=30"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	Active          *bool            `json:"active"`
}

// AffiliationResponse represents an affiliation in API responses
type AffiliationResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	ContactCompany  string          `json:"contact_company"`
	ContactPhone    string          `json:"contact_phone"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Active          bool            `json:"active"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToAffiliationResponse converts a domain Affiliation to AffiliationResponse
func ToAffiliationResponse(a *membership.Affiliation) AffiliationResponse {
	return AffiliationResponse{
		ID:              a.ID,
		Name:            a.Name,
		ContactCompany:  a.ContactCompany,
		ContactPhone:    a.ContactPhone,
		DiscountPercent: a.DiscountPercent,
		Active:          a.Active,
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// =============================================================================
// Member DTOs
// =============================================================================

// AddressRequest is a postal address
type AddressRequest struct {
	Street     string `json:"street" binding:"max=200"`
	Number     string `json:"number" binding:"max=20"`
	Complement string `json:"complement" binding:"max=100"`
	District   string `json:"district" binding:"max=100"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"omitempty,len=2"`
	PostalCode string `json:"postal_code" binding:"max=10"`
}

// ToAddress validates the request into an Address; an empty request is an empty address
func (a *AddressRequest) ToAddress() (valueobject.Address, error) {
	if a == nil {
		return valueobject.Address{}, nil
	}
	addr, err := valueobject.NewAddress(a.Street, a.City, a.State,
		valueobject.WithNumber(a.Number),
		valueobject.WithComplement(a.Complement),
		valueobject.WithDistrict(a.District),
		valueobject.WithPostalCode(a.PostalCode))
	if err != nil {
		return valueobject.Address{}, shared.NewValidationError("address", err.Error())
	}
	return addr, nil
}

// CreateMemberRequest represents a request to enroll a member
type CreateMemberRequest struct {
	RegistrationNumber string          `json:"registration_number" binding:"required,max=30"`
	ContractNumber     string          `json:"contract_number" binding:"max=30"`
	Name               string          `json:"name" binding:"required,min=1,max=150"`
	CPF                string          `json:"cpf" binding:"required"`
	BirthDate          *time.Time      `json:"birth_date"`
	Email              string          `json:"email" binding:"omitempty,email,max=200"`
	Phone              string          `json:"phone" binding:"max=30"`
	MobilePhone        string          `json:"mobile_phone" binding:"max=30"`
	Address            *AddressRequest `json:"address"`
	AdmissionDate      *time.Time      `json:"admission_date"`
	CategoryID         uuid.UUID       `json:"category_id" binding:"required"`
	AffiliationID      *uuid.UUID      `json:"affiliation_id"`
	Notes              string          `json:"notes"`
	CreatedBy          *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// UpdateMemberRequest represents a full update of a member's data
type UpdateMemberRequest struct {
	ContractNumber string          `json:"contract_number" binding:"max=30"`
	Name           string          `json:"name" binding:"required,min=1,max=150"`
	BirthDate      *time.Time      `json:"birth_date"`
	Email          string          `json:"email" binding:"omitempty,email,max=200"`
	Phone          string          `json:"phone" binding:"max=30"`
	MobilePhone    string          `json:"mobile_phone" binding:"max=30"`
	Address        *AddressRequest `json:"address"`
	CategoryID     uuid.UUID       `json:"category_id" binding:"required"`
	AffiliationID  *uuid.UUID      `json:"affiliation_id"`
	Notes          string          `json:"notes"`
}

// ChangeMemberStatusRequest represents a status change
type ChangeMemberStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

// AddDependentRequest represents a new dependent
type AddDependentRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=150"`
	BirthDate    *time.Time `json:"birth_date"`
	CPF          string     `json:"cpf"`
	Relationship string     `json:"relationship" binding:"required"`
}

// MemberListFilter represents the query of the member list
type MemberListFilter struct {
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search        string     `form:"search"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status        string     `form:"status"`
	CategoryID    *uuid.UUID `form:"category_id"`
	AffiliationID *uuid.UUID `form:"affiliation_id"`
}

// DependentResponse represents a dependent in API responses
type DependentResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	CPF          string     `json:"cpf,omitempty"`
	Relationship string     `json:"relationship"`
	Active       bool       `json:"active"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID                 uuid.UUID           `json:"id"`
	RegistrationNumber string              `json:"registration_number"`
	ContractNumber     string              `json:"contract_number,omitempty"`
	Name               string              `json:"name"`
	CPF                string              `json:"cpf"`
	BirthDate          *time.Time          `json:"birth_date,omitempty"`
	Email              string              `json:"email,omitempty"`
	Phone              string              `json:"phone,omitempty"`
	MobilePhone        string              `json:"mobile_phone,omitempty"`
	Address            valueobject.Address `json:"address"`
	AdmissionDate      time.Time           `json:"admission_date"`
	Status             string              `json:"status"`
	StatusReason       string              `json:"status_reason,omitempty"`
	CategoryID         uuid.UUID           `json:"category_id"`
	AffiliationID      *uuid.UUID          `json:"affiliation_id,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	Dependents         []DependentResponse `json:"dependents"`
	Version            int                 `json:"version"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ToMemberResponse converts a domain Member to MemberResponse
func ToMemberResponse(m *membership.Member) MemberResponse {
	deps := make([]DependentResponse, len(m.Dependents))
	for i, d := range m.Dependents {
		deps[i] = DependentResponse{
			ID:           d.ID,
			Name:         d.Name,
			BirthDate:    d.BirthDate,
			CPF:          d.CPF.String(),
			Relationship: string(d.Relationship),
			Active:       d.Active,
		}
	}
	return MemberResponse{
		ID:                 m.ID,
		RegistrationNumber: m.RegistrationNumber,
		ContractNumber:     m.ContractNumber,
		Name:               m.Name,
		CPF:                m.CPF.String(),
		BirthDate:          m.BirthDate,
		Email:              m.Email,
		Phone:              m.Phone,
		MobilePhone:        m.MobilePhone,
		Address:            m.Address,
		AdmissionDate:      m.AdmissionDate,
		Status:             string(m.Status),
		StatusReason:       m.StatusReason,
		CategoryID:         m.CategoryID,
		AffiliationID:      m.AffiliationID,
		Notes:              m.Notes,
		Dependents:         deps,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ListFilter is the query of category and affiliation lists
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toDomain() shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
	}.Normalize()
}
