package partner

import (
	"net/mail"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "ACTIVE"
	SupplierStatusInactive SupplierStatus = "INACTIVE"
)

// Supplier is a vendor the club pays (fornecedor). Payable accounts may reference it.
type Supplier struct {
	shared.TenantAggregateRoot
	Name          string
	TradeName     string
	Document      valueobject.Document
	Email         string
	Phone         string
	ContactPerson string
	Address       valueobject.Address
	Status        SupplierStatus
	Notes         string
}

// SupplierInput holds the editable fields of a supplier
type SupplierInput struct {
	Name          string
	TradeName     string
	Document      string
	Email         string
	Phone         string
	ContactPerson string
	Address       valueobject.Address
	Notes         string
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, in SupplierInput) (*Supplier, error) {
	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              SupplierStatusActive,
	}
	if err := s.apply(in); err != nil {
		return nil, err
	}
	s.AddDomainEvent(NewSupplierCreatedEvent(s))
	return s, nil
}

// Update replaces the supplier's data
func (s *Supplier) Update(in SupplierInput) error {
	if err := s.apply(in); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s))
	return nil
}

func (s *Supplier) apply(in SupplierInput) error {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 255 {
		v.Add("name", "Name cannot exceed 255 characters")
	}
	if len(strings.TrimSpace(in.TradeName)) > 255 {
		v.Add("trade_name", "Trade name cannot exceed 255 characters")
	}
	var doc valueobject.Document
	if strings.TrimSpace(in.Document) != "" {
		parsed, err := valueobject.ParseDocument(in.Document)
		if err != nil {
			v.Add("document", err.Error())
		}
		doc = parsed
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			v.Add("email", "Invalid email address")
		}
	}
	if len(strings.TrimSpace(in.ContactPerson)) > 100 {
		v.Add("contact_person", "Contact person cannot exceed 100 characters")
	}
	if err := v.Err(); err != nil {
		return err
	}

	s.Name = name
	s.TradeName = strings.TrimSpace(in.TradeName)
	s.Document = doc
	s.Email = email
	s.Phone = strings.TrimSpace(in.Phone)
	s.ContactPerson = strings.TrimSpace(in.ContactPerson)
	s.Address = in.Address
	s.Notes = strings.TrimSpace(in.Notes)
	return nil
}

// DisplayName returns the trade name when set, else the legal name
func (s *Supplier) DisplayName() string {
	if s.TradeName != "" {
		return s.TradeName
	}
	return s.Name
}

// IsActive returns true if the supplier can be used on new payables
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// Activate activates the supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate deactivates the supplier
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
