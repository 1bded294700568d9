package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind tells receivables from payables
type AccountKind string

const (
	AccountKindReceivable AccountKind = "RECEIVABLE"
	AccountKindPayable    AccountKind = "PAYABLE"
)

// IsValid checks if the kind is known
func (k AccountKind) IsValid() bool {
	return k == AccountKindReceivable || k == AccountKindPayable
}

// String returns the string representation of AccountKind
func (k AccountKind) String() string {
	return string(k)
}

// ChartKind returns the chart-of-accounts kind an account of this kind posts to
func (k AccountKind) ChartKind() ChartAccountKind {
	if k == AccountKindReceivable {
		return ChartAccountKindRevenue
	}
	return ChartAccountKindExpense
}

// Account is a non-recurring obligation (conta a pagar/receber). It follows the same
// lifecycle as a dues record and posts one ledger entry when settled.
type Account struct {
	shared.TenantAggregateRoot
	Kind           AccountKind
	Description    string
	Amount         decimal.Decimal
	Interest       decimal.Decimal
	Discount       decimal.Decimal
	DueDate        time.Time
	PaymentDate    *time.Time
	Status         ObligationStatus
	ChartAccountID uuid.UUID
	CashBoxID      *uuid.UUID
	MemberID       *uuid.UUID
	SupplierID     *uuid.UUID
	Notes          string
	CanceledAt     *time.Time
	CancelReason   string
}

// NewAccountInput holds the fields needed to open an account
type NewAccountInput struct {
	Kind         AccountKind
	Description  string
	Amount       decimal.Decimal
	DueDate      time.Time
	ChartAccount *ChartAccount
	MemberID     *uuid.UUID
	SupplierID   *uuid.UUID
	Notes        string
}

// NewAccount creates a pending account
func NewAccount(tenantID uuid.UUID, in NewAccountInput) (*Account, error) {
	v := &shared.ValidationError{}
	description := strings.TrimSpace(in.Description)
	if !in.Kind.IsValid() {
		v.Add("kind", "Kind must be RECEIVABLE or PAYABLE")
	}
	if description == "" {
		v.Add("description", "Description is required")
	} else if len(description) > 255 {
		v.Add("description", "Description cannot exceed 255 characters")
	}
	if !in.Amount.IsPositive() {
		v.Add("amount", "Amount must be positive")
	}
	if in.DueDate.IsZero() {
		v.Add("due_date", "Due date is required")
	}
	if in.ChartAccount == nil {
		v.Add("chart_account_id", "Chart account is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := shared.EnsureSameTenant(tenantID, &in.ChartAccount.TenantAggregateRoot); err != nil {
		return nil, err
	}
	if err := in.ChartAccount.EnsurePostable(); err != nil {
		return nil, err
	}
	if in.ChartAccount.Kind != in.Kind.ChartKind() {
		return nil, shared.NewValidationError("chart_account_id",
			fmt.Sprintf("A %s must be classified under a %s account", strings.ToLower(in.Kind.String()), strings.ToLower(in.Kind.ChartKind().String())))
	}

	account := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                in.Kind,
		Description:         description,
		Amount:              in.Amount.Round(2),
		Interest:            decimal.Zero,
		Discount:            decimal.Zero,
		DueDate:             DateOnly(in.DueDate),
		Status:              StatusPending,
		ChartAccountID:      in.ChartAccount.ID,
		MemberID:            in.MemberID,
		SupplierID:          in.SupplierID,
		Notes:               strings.TrimSpace(in.Notes),
	}
	account.AddDomainEvent(NewAccountCreatedEvent(account))
	return account, nil
}

// AccountSettlement is the outcome of settling an account
type AccountSettlement struct {
	Entry *LedgerEntry
}

// Settle marks the account paid and builds its ledger entry: the total due,
// positive for receivables and negative for payables, on the account's chart entry.
func (a *Account) Settle(cashBox *CashBox, chart *ChartAccount, paymentDate time.Time, interest, discount decimal.Decimal) (*AccountSettlement, error) {
	if err := a.Status.ValidateTransition(StatusPaid); err != nil {
		return nil, shared.NewInvalidStateError(fmt.Sprintf("Account %q cannot be settled while %s", a.Description, a.Status))
	}
	if interest.IsNegative() {
		return nil, shared.NewValidationError("interest", "Interest cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewValidationError("discount", "Discount cannot be negative")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewValidationError("payment_date", "Payment date is required")
	}
	if chart == nil || chart.ID != a.ChartAccountID {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Chart account does not match the account classification")
	}

	total := TotalDue(a.Amount, interest, discount)
	if !total.IsPositive() {
		return nil, shared.NewValidationError("discount", "Discount cannot exceed amount plus interest")
	}
	signed := total
	if a.Kind == AccountKindPayable {
		signed = total.Neg()
	}

	entry, err := NewSettlementEntry(a.TenantID, Posting{
		CashBox:      cashBox,
		ChartAccount: chart,
		Description:  a.Description,
		Date:         paymentDate,
		Amount:       signed,
		Source:       EntrySourceAccount,
		SourceID:     a.ID,
	})
	if err != nil {
		return nil, err
	}

	paid := DateOnly(paymentDate)
	boxID := cashBox.ID
	a.Status = StatusPaid
	a.PaymentDate = &paid
	a.Interest = interest.Round(2)
	a.Discount = discount.Round(2)
	a.CashBoxID = &boxID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountSettledEvent(a))

	return &AccountSettlement{Entry: entry}, nil
}

// MarkOverdue moves a pending account past its due date to overdue
func (a *Account) MarkOverdue(today time.Time) bool {
	if a.Status != StatusPending || !IsPastDue(a.DueDate, today) {
		return false
	}
	a.Status = StatusOverdue
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return true
}

// Cancel cancels an open account
func (a *Account) Cancel(reason string) error {
	if err := a.Status.ValidateTransition(StatusCanceled); err != nil {
		return err
	}
	now := time.Now()
	a.Status = StatusCanceled
	a.CanceledAt = &now
	a.CancelReason = strings.TrimSpace(reason)
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// Reopen brings a canceled account back to pending
func (a *Account) Reopen() error {
	if a.Status != StatusCanceled {
		return shared.NewInvalidStateError(fmt.Sprintf("Only canceled accounts can be reopened, this one is %s", a.Status))
	}
	a.Status = StatusPending
	a.CanceledAt = nil
	a.CancelReason = ""
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// EnsureDeletable rejects deleting paid accounts
func (a *Account) EnsureDeletable() error {
	if a.Status == StatusPaid {
		return shared.NewInvalidStateError("Paid accounts cannot be deleted")
	}
	return nil
}

// DaysOverdue returns the delay in days relative to today
func (a *Account) DaysOverdue(today time.Time) int {
	return DaysOverdue(a.Status, a.DueDate, today)
}

// TotalDue returns amount + interest - discount
func (a *Account) TotalDue() decimal.Decimal {
	return TotalDue(a.Amount, a.Interest, a.Discount)
}
