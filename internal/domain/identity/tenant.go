package identity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusInactive  TenantStatus = "INACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// DefaultTimezone is the timezone "today" is computed in for a new club
const DefaultTimezone = "America/Sao_Paulo"

var tenantCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{1,48}[a-z0-9]$`)

// Tenant is a club (the company every record belongs to)
type Tenant struct {
	shared.BaseAggregateRoot
	Code              string
	Name              string
	Document          valueobject.Document
	ResponsiblePerson string
	Phone             string
	Email             string
	Address           valueobject.Address
	Timezone          string
	Status            TenantStatus
}

// NewTenant creates an active club
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	name = strings.TrimSpace(name)

	v := &shared.ValidationError{}
	if !tenantCodePattern.MatchString(code) {
		v.Add("code", "Code must be 3 to 50 lowercase letters, digits or hyphens")
	}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 200 {
		v.Add("name", "Name cannot exceed 200 characters")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Timezone:          DefaultTimezone,
		Status:            TenantStatusActive,
	}
	t.AddDomainEvent(NewTenantCreatedEvent(t))
	return t, nil
}

// UpdateContact replaces the club's contact data
func (t *Tenant) UpdateContact(name, document, responsible, phone, email string, address valueobject.Address) error {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	}
	var doc valueobject.Document
	if strings.TrimSpace(document) != "" {
		parsed, err := valueobject.NewCNPJ(document)
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
	if err := v.Err(); err != nil {
		return err
	}

	t.Name = name
	t.Document = doc
	t.ResponsiblePerson = strings.TrimSpace(responsible)
	t.Phone = strings.TrimSpace(phone)
	t.Email = email
	t.Address = address
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetTimezone changes the timezone, validated against the tz database
func (t *Tenant) SetTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return shared.NewValidationError("timezone", "Unknown timezone")
	}
	t.Timezone = name
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Location returns the tenant's time zone, falling back to DefaultTimezone then UTC
func (t *Tenant) Location() *time.Location {
	for _, name := range []string{t.Timezone, DefaultTimezone} {
		if loc, err := time.LoadLocation(name); err == nil && name != "" {
			return loc
		}
	}
	return time.UTC
}

// Today returns the current calendar date in the tenant's zone, as a UTC midnight
func (t *Tenant) Today(now time.Time) time.Time {
	local := now.In(t.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// IsActive returns true if the club can be used
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Suspend blocks access to the club
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Activate restores access to the club
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}
