package finance

import (
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashBox is a named money account of a tenant (cash drawer or bank account)
type CashBox struct {
	shared.TenantAggregateRoot
	Name           string
	Description    string
	OpeningBalance decimal.Decimal
	Active         bool
}

// NewCashBox creates a cash box with an opening balance
func NewCashBox(tenantID uuid.UUID, name string, openingBalance decimal.Decimal) (*CashBox, error) {
	name = strings.TrimSpace(name)
	if err := validateCashBoxName(name); err != nil {
		return nil, err
	}

	box := &CashBox{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		OpeningBalance:      openingBalance.Round(2),
		Active:              true,
	}
	return box, nil
}

// Update changes name, description and opening balance
func (b *CashBox) Update(name, description string, openingBalance decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if err := validateCashBoxName(name); err != nil {
		return err
	}
	b.Name = name
	b.Description = strings.TrimSpace(description)
	b.OpeningBalance = openingBalance.Round(2)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Deactivate prevents new settlements into the box
func (b *CashBox) Deactivate() {
	b.Active = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Activate re-enables the box
func (b *CashBox) Activate() {
	b.Active = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// EnsureUsableBy checks tenant ownership and that the box is active
func (b *CashBox) EnsureUsableBy(tenantID uuid.UUID) error {
	if err := shared.EnsureSameTenant(tenantID, &b.TenantAggregateRoot); err != nil {
		return shared.NewDomainError(shared.CodeCrossTenant, "Cash box belongs to another tenant")
	}
	if !b.Active {
		return shared.NewInvalidStateError("Cash box " + b.Name + " is inactive")
	}
	return nil
}

func validateCashBoxName(name string) error {
	if name == "" {
		return shared.NewValidationError("name", "Name is required")
	}
	if len(name) > 100 {
		return shared.NewValidationError("name", "Name cannot exceed 100 characters")
	}
	return nil
}
