package partner

import (
	"time"

	"github.com/clube/backend/internal/application/membership"
	"github.com/clube/backend/internal/domain/partner"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// =============================================================================
// Supplier DTOs
// =============================================================================

// SupplierRequest represents a request to create or update a supplier
type SupplierRequest struct {
	Name          string                     `json:"name" binding:"required,min=1,max=255"`
	TradeName     string                     `json:"trade_name" binding:"max=255"`
	Document      string                     `json:"document" binding:"max=20"`
	Email         string                     `json:"email" binding:"omitempty,email"`
	Phone         string                     `json:"phone" binding:"max=20"`
	ContactPerson string                     `json:"contact_person" binding:"max=100"`
	Address       *membership.AddressRequest `json:"address"`
	Notes         string                     `json:"notes"`
}

func (r SupplierRequest) toInput() (partner.SupplierInput, error) {
	addr, err := r.Address.ToAddress()
	if err != nil {
		return partner.SupplierInput{}, err
	}
	return partner.SupplierInput{
		Name:          r.Name,
		TradeName:     r.TradeName,
		Document:      r.Document,
		Email:         r.Email,
		Phone:         r.Phone,
		ContactPerson: r.ContactPerson,
		Address:       addr,
		Notes:         r.Notes,
	}, nil
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	TradeName     string              `json:"trade_name,omitempty"`
	DisplayName   string              `json:"display_name"`
	Document      string              `json:"document,omitempty"`
	DocumentKind  string              `json:"document_kind,omitempty"`
	Email         string              `json:"email,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	ContactPerson string              `json:"contact_person,omitempty"`
	Address       valueobject.Address `json:"address"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes,omitempty"`
	Version       int                 `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// SupplierListFilter represents filter options for supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		TradeName:     s.TradeName,
		DisplayName:   s.DisplayName(),
		Document:      s.Document.String(),
		DocumentKind:  string(s.Document.Kind()),
		Email:         s.Email,
		Phone:         s.Phone,
		ContactPerson: s.ContactPerson,
		Address:       s.Address,
		Status:        string(s.Status),
		Notes:         s.Notes,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
