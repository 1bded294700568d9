package membership

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Member is a club member (sócio), the party billed by monthly dues.
// Members referenced by dues records are never deleted.
type Member struct {
	shared.TenantAggregateRoot
	RegistrationNumber string
	ContractNumber     string
	Name               string
	CPF                valueobject.Document
	BirthDate          *time.Time
	Email              string
	Phone              string
	MobilePhone        string
	Address            valueobject.Address
	AdmissionDate      time.Time
	Status             MemberStatus
	StatusReason       string
	CategoryID         uuid.UUID
	AffiliationID      *uuid.UUID
	Notes              string
	Dependents         []Dependent
}

// NewMemberInput holds the fields required to enroll a member
type NewMemberInput struct {
	RegistrationNumber string
	ContractNumber     string
	Name               string
	CPF                string
	AdmissionDate      time.Time
	Category           *Category
	Affiliation        *Affiliation
}

// NewMember enrolls an active member in category
func NewMember(tenantID uuid.UUID, in NewMemberInput) (*Member, error) {
	registration := strings.TrimSpace(in.RegistrationNumber)
	name := strings.TrimSpace(in.Name)

	v := &shared.ValidationError{}
	if registration == "" {
		v.Add("registration_number", "Registration number is required")
	} else if len(registration) > 30 {
		v.Add("registration_number", "Registration number cannot exceed 30 characters")
	}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 150 {
		v.Add("name", "Name cannot exceed 150 characters")
	}
	cpf, err := valueobject.NewCPF(in.CPF)
	if err != nil {
		v.Add("cpf", err.Error())
	}
	if in.Category == nil {
		v.Add("category_id", "Category is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	admission := in.AdmissionDate
	if admission.IsZero() {
		admission = time.Now()
	}

	m := &Member{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RegistrationNumber:  registration,
		ContractNumber:      strings.TrimSpace(in.ContractNumber),
		Name:                name,
		CPF:                 cpf,
		AdmissionDate:       time.Date(admission.Year(), admission.Month(), admission.Day(), 0, 0, 0, 0, time.UTC),
		Status:              MemberStatusActive,
	}
	if err := m.ChangeCategory(in.Category); err != nil {
		return nil, err
	}
	if err := m.SetAffiliation(in.Affiliation); err != nil {
		return nil, err
	}
	m.Version = 1
	m.AddDomainEvent(NewMemberEnrolledEvent(m))
	return m, nil
}

// ProfileInput holds the editable personal data of a member
type ProfileInput struct {
	Name           string
	ContractNumber string
	BirthDate      *time.Time
	Email          string
	Phone          string
	MobilePhone    string
	Address        valueobject.Address
	Notes          string
}

// UpdateProfile replaces the personal data
func (m *Member) UpdateProfile(in ProfileInput) error {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 150 {
		v.Add("name", "Name cannot exceed 150 characters")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			v.Add("email", "Invalid email address")
		}
	}
	if in.BirthDate != nil && in.BirthDate.After(time.Now()) {
		v.Add("birth_date", "Birth date cannot be in the future")
	}
	if err := v.Err(); err != nil {
		return err
	}

	m.Name = name
	m.ContractNumber = strings.TrimSpace(in.ContractNumber)
	m.BirthDate = in.BirthDate
	m.Email = strings.ToLower(email)
	m.Phone = strings.TrimSpace(in.Phone)
	m.MobilePhone = strings.TrimSpace(in.MobilePhone)
	m.Address = in.Address
	m.Notes = strings.TrimSpace(in.Notes)
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// ChangeCategory moves the member to another active category of the same tenant
func (m *Member) ChangeCategory(category *Category) error {
	if category == nil {
		return shared.NewValidationError("category_id", "Category is required")
	}
	if err := shared.EnsureSameTenant(m.TenantID, &category.TenantAggregateRoot); err != nil {
		return err
	}
	if !category.Active {
		return shared.NewValidationError("category_id", fmt.Sprintf("Category %q is inactive", category.Name))
	}
	m.CategoryID = category.ID
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// SetAffiliation links the member to an affiliation; nil removes the link
func (m *Member) SetAffiliation(affiliation *Affiliation) error {
	if affiliation == nil {
		m.AffiliationID = nil
		return nil
	}
	if err := shared.EnsureSameTenant(m.TenantID, &affiliation.TenantAggregateRoot); err != nil {
		return err
	}
	id := affiliation.ID
	m.AffiliationID = &id
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// ChangeStatus applies a staff status change following the transition table
func (m *Member) ChangeStatus(target MemberStatus, reason string) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", "Unknown status")
	}
	if !m.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf("Member cannot change from %s to %s", m.Status, target))
	}
	old := m.Status
	m.Status = target
	m.StatusReason = strings.TrimSpace(reason)
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	m.AddDomainEvent(NewMemberStatusChangedEvent(m, old))
	return nil
}

// IsActive reports whether the member is billed by dues generation
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// AddDependent registers a dependent under this member
func (m *Member) AddDependent(in DependentInput) (*Dependent, error) {
	if m.Status == MemberStatusCanceled {
		return nil, shared.NewInvalidStateError("Canceled members cannot receive dependents")
	}
	d, err := newDependent(m.ID, in)
	if err != nil {
		return nil, err
	}
	if !d.CPF.IsEmpty() {
		if d.CPF.Digits() == m.CPF.Digits() {
			return nil, shared.NewValidationError("cpf", "Dependent CPF must differ from the member's")
		}
		for _, existing := range m.Dependents {
			if existing.CPF.Digits() == d.CPF.Digits() {
				return nil, shared.NewValidationError("cpf", "A dependent with this CPF already exists")
			}
		}
	}
	m.Dependents = append(m.Dependents, *d)
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return d, nil
}

// RemoveDependent removes a dependent by ID
func (m *Member) RemoveDependent(dependentID uuid.UUID) error {
	for i, d := range m.Dependents {
		if d.ID == dependentID {
			m.Dependents = append(m.Dependents[:i], m.Dependents[i+1:]...)
			m.UpdatedAt = time.Now()
			m.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("Dependent")
}

// Age returns the member's age in whole years at date, or -1 when unknown
func (m *Member) Age(at time.Time) int {
	if m.BirthDate == nil {
		return -1
	}
	b := *m.BirthDate
	age := at.Year() - b.Year()
	if at.YearDay() < b.YearDay() {
		age--
	}
	return age
}
