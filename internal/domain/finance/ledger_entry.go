package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntrySource identifies what produced a ledger entry
type EntrySource string

const (
	EntrySourceManual  EntrySource = "MANUAL"
	EntrySourceDues    EntrySource = "DUES"
	EntrySourceAccount EntrySource = "ACCOUNT"
)

// IsValid checks if the source is known
func (s EntrySource) IsValid() bool {
	return s == EntrySourceManual || s == EntrySourceDues || s == EntrySourceAccount
}

// LedgerEntry is one signed movement posted to a cash box (lançamento).
// Positive amounts are inflows, negative amounts outflows. The amount never changes
// after creation.
type LedgerEntry struct {
	shared.TenantAggregateRoot
	CashBoxID      uuid.UUID
	ChartAccountID *uuid.UUID
	Description    string
	EntryDate      time.Time
	Amount         decimal.Decimal
	Source         EntrySource
	SourceID       *uuid.UUID
}

// Posting describes an entry to be created by a settlement
type Posting struct {
	CashBox      *CashBox
	ChartAccount *ChartAccount
	Description  string
	Date         time.Time
	Amount       decimal.Decimal
	Source       EntrySource
	SourceID     uuid.UUID
}

// NewSettlementEntry creates an auto-generated entry linked to its source record
func NewSettlementEntry(tenantID uuid.UUID, p Posting) (*LedgerEntry, error) {
	if p.Source == EntrySourceManual || !p.Source.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Settlement entries need a DUES or ACCOUNT source")
	}
	if p.SourceID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Settlement entries must reference their source record")
	}
	entry, err := newLedgerEntry(tenantID, p)
	if err != nil {
		return nil, err
	}
	id := p.SourceID
	entry.SourceID = &id
	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))
	return entry, nil
}

// NewManualEntry creates a staff-entered movement. When a chart account is given its
// kind must agree with the sign of the amount.
func NewManualEntry(tenantID uuid.UUID, cashBox *CashBox, chart *ChartAccount, description string, date time.Time, amount decimal.Decimal) (*LedgerEntry, error) {
	if chart != nil && !chart.AcceptsAmount(amount) {
		return nil, shared.NewValidationError("amount",
			fmt.Sprintf("A %s account expects %s amounts", strings.ToLower(chart.Kind.String()), expectedSign(chart.Kind)))
	}
	entry, err := newLedgerEntry(tenantID, Posting{
		CashBox:      cashBox,
		ChartAccount: chart,
		Description:  description,
		Date:         date,
		Amount:       amount,
		Source:       EntrySourceManual,
	})
	if err != nil {
		return nil, err
	}
	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))
	return entry, nil
}

func newLedgerEntry(tenantID uuid.UUID, p Posting) (*LedgerEntry, error) {
	v := &shared.ValidationError{}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		v.Add("description", "Description is required")
	} else if len(description) > 255 {
		v.Add("description", "Description cannot exceed 255 characters")
	}
	if p.Amount.IsZero() {
		v.Add("amount", "Amount cannot be zero")
	}
	if p.Date.IsZero() {
		v.Add("entry_date", "Entry date is required")
	}
	if p.CashBox == nil {
		v.Add("cash_box_id", "Cash box is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := p.CashBox.EnsureUsableBy(tenantID); err != nil {
		return nil, err
	}

	entry := &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CashBoxID:           p.CashBox.ID,
		Description:         description,
		EntryDate:           DateOnly(p.Date),
		Amount:              p.Amount.Round(2),
		Source:              p.Source,
	}

	if p.ChartAccount != nil {
		if err := shared.EnsureSameTenant(tenantID, &p.ChartAccount.TenantAggregateRoot); err != nil {
			return nil, err
		}
		if err := p.ChartAccount.EnsurePostable(); err != nil {
			return nil, err
		}
		id := p.ChartAccount.ID
		entry.ChartAccountID = &id
	}

	return entry, nil
}

// IsAutoGenerated reports whether a settlement produced the entry
func (e *LedgerEntry) IsAutoGenerated() bool {
	return e.Source != EntrySourceManual
}

// IsInflow reports whether the entry adds money to the box
func (e *LedgerEntry) IsInflow() bool {
	return e.Amount.IsPositive()
}

// EnsureDeletable rejects deleting entries produced by settlements
func (e *LedgerEntry) EnsureDeletable() error {
	if e.IsAutoGenerated() {
		return shared.NewInvalidStateError("This entry was generated by a settlement and cannot be deleted")
	}
	return nil
}

// UpdateDescription is the only mutation allowed on a posted entry
func (e *LedgerEntry) UpdateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewValidationError("description", "Description is required")
	}
	e.Description = description
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

func expectedSign(kind ChartAccountKind) string {
	if kind == ChartAccountKindRevenue {
		return "positive"
	}
	return "negative"
}
