package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChartAccountKind separates revenue from expense categories
type ChartAccountKind string

const (
	ChartAccountKindRevenue ChartAccountKind = "REVENUE"
	ChartAccountKindExpense ChartAccountKind = "EXPENSE"
)

// IsValid checks if the kind is known
func (k ChartAccountKind) IsValid() bool {
	return k == ChartAccountKindRevenue || k == ChartAccountKindExpense
}

// String returns the string representation of ChartAccountKind
func (k ChartAccountKind) String() string {
	return string(k)
}

// ChartAccount is one entry of the tenant's chart of accounts (plano de contas).
// Grouping-only entries organise the hierarchy and never receive postings.
type ChartAccount struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Kind         ChartAccountKind
	ParentID     *uuid.UUID
	GroupingOnly bool
	Active       bool
}

// NewChartAccount creates a chart entry. parent may be nil for a root entry.
func NewChartAccount(tenantID uuid.UUID, code, name string, kind ChartAccountKind, parent *ChartAccount, groupingOnly bool) (*ChartAccount, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	v := &shared.ValidationError{}
	if code == "" {
		v.Add("code", "Code is required")
	} else if len(code) > 30 {
		v.Add("code", "Code cannot exceed 30 characters")
	}
	if name == "" {
		v.Add("name", "Name is required")
	} else if len(name) > 150 {
		v.Add("name", "Name cannot exceed 150 characters")
	}
	if !kind.IsValid() {
		v.Add("kind", "Kind must be REVENUE or EXPENSE")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	account := &ChartAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Kind:                kind,
		GroupingOnly:        groupingOnly,
		Active:              true,
	}
	if err := account.SetParent(parent); err != nil {
		return nil, err
	}
	return account, nil
}

// SetParent moves the entry under parent; nil makes it a root entry
func (a *ChartAccount) SetParent(parent *ChartAccount) error {
	if parent == nil {
		a.ParentID = nil
		a.touch()
		return nil
	}
	if err := shared.EnsureSameTenant(a.TenantID, &parent.TenantAggregateRoot); err != nil {
		return err
	}
	if parent.ID == a.ID {
		return shared.NewValidationError("parent_id", "An account cannot be its own parent")
	}
	if parent.Kind != a.Kind {
		return shared.NewValidationError("parent_id", fmt.Sprintf("Parent account is %s, expected %s", parent.Kind, a.Kind))
	}
	if !parent.GroupingOnly {
		return shared.NewValidationError("parent_id", "Parent account must be a grouping-only account")
	}
	id := parent.ID
	a.ParentID = &id
	a.touch()
	return nil
}

// Update changes the descriptive fields
func (a *ChartAccount) Update(code, name string) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return shared.NewValidationError("code", "Code is required")
	}
	if name == "" {
		return shared.NewValidationError("name", "Name is required")
	}
	a.Code = code
	a.Name = name
	a.touch()
	return nil
}

// SetGroupingOnly toggles the grouping flag. A posting account with entries should
// not become grouping-only; the caller checks usage before calling.
func (a *ChartAccount) SetGroupingOnly(groupingOnly bool) {
	a.GroupingOnly = groupingOnly
	a.touch()
}

// Deactivate hides the account from new postings
func (a *ChartAccount) Deactivate() {
	a.Active = false
	a.touch()
}

// Activate re-enables the account
func (a *ChartAccount) Activate() {
	a.Active = true
	a.touch()
}

// EnsurePostable fails when the account cannot receive ledger postings
func (a *ChartAccount) EnsurePostable() error {
	if a.GroupingOnly {
		return shared.NewInvalidStateError(fmt.Sprintf("Account %s %s is grouping-only and cannot receive postings", a.Code, a.Name))
	}
	if !a.Active {
		return shared.NewInvalidStateError(fmt.Sprintf("Account %s %s is inactive", a.Code, a.Name))
	}
	return nil
}

// AcceptsAmount checks the sign convention: revenue takes inflows, expense takes outflows
func (a *ChartAccount) AcceptsAmount(amount decimal.Decimal) bool {
	if a.Kind == ChartAccountKindRevenue {
		return amount.IsPositive()
	}
	return amount.IsNegative()
}

// DisplayName returns "code - name"
func (a *ChartAccount) DisplayName() string {
	return a.Code + " - " + a.Name
}

func (a *ChartAccount) touch() {
	a.UpdatedAt = time.Now()
}
