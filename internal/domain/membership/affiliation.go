package membership

import (
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Affiliation is a partner organisation (convênio) some members belong to
type Affiliation struct {
	shared.TenantAggregateRoot
	Name            string
	ContactCompany  string
	ContactPhone    string
	DiscountPercent decimal.Decimal
	Active          bool
}

// NewAffiliation creates a new affiliation
func NewAffiliation(tenantID uuid.UUID, name string) (*Affiliation, error) {
	a := &Affiliation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DiscountPercent:     decimal.Zero,
		Active:              true,
	}
	if err := a.Update(name, "", "", decimal.Zero); err != nil {
		return nil, err
	}
	a.Version = 1
	return a, nil
}

// Update replaces the affiliation details
func (a *Affiliation) Update(name, contactCompany, contactPhone string, discountPercent decimal.Decimal) error {
	name = strings.TrimSpace(name)
	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 150 {
		v.Add("name", "Name cannot exceed 150 characters")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		v.Add("discount_percent", "Discount must be between 0 and 100")
	}
	if err := v.Err(); err != nil {
		return err
	}
	a.Name = name
	a.ContactCompany = strings.TrimSpace(contactCompany)
	a.ContactPhone = strings.TrimSpace(contactPhone)
	a.DiscountPercent = discountPercent
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetActive toggles the affiliation
func (a *Affiliation) SetActive(active bool) {
	a.Active = active
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
