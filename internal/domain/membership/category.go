package membership

import (
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a membership plan (categoria de sócio) carrying the monthly fee and
// the day of month the dues fall due.
type Category struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	MonthlyFee  decimal.Decimal
	DueDay      int
	Active      bool
}

// NewCategory creates a new category
func NewCategory(tenantID uuid.UUID, name string, monthlyFee decimal.Decimal, dueDay int) (*Category, error) {
	c := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
	}
	if err := c.Update(name, "", monthlyFee, dueDay); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// Update replaces the category terms. A zero fee is allowed and makes the
// category's members ignored by dues generation.
func (c *Category) Update(name, description string, monthlyFee decimal.Decimal, dueDay int) error {
	name = strings.TrimSpace(name)
	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 100 {
		v.Add("name", "Name cannot exceed 100 characters")
	}
	if monthlyFee.IsNegative() {
		v.Add("monthly_fee", "Monthly fee cannot be negative")
	}
	if dueDay < 1 || dueDay > 31 {
		v.Add("due_day", "Due day must be between 1 and 31")
	}
	if err := v.Err(); err != nil {
		return err
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.MonthlyFee = monthlyFee.Round(2)
	c.DueDay = dueDay
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsBillable reports whether generation can bill members of this category
func (c *Category) IsBillable() bool {
	return c.Active && c.MonthlyFee.IsPositive()
}

// Deactivate hides the category from new enrollments
func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate re-enables the category
func (c *Category) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
