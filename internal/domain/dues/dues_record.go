package dues

import (
	"fmt"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Origin records how a dues record came to exist
type Origin string

const (
	OriginGenerated Origin = "GENERATED"
	OriginManual    Origin = "MANUAL"
)

// DuesRecord is one period's billing obligation for a member (mensalidade).
// At most one record exists per member and period.
type DuesRecord struct {
	shared.TenantAggregateRoot
	MemberID     uuid.UUID
	Period       Period
	Amount       decimal.Decimal
	Interest     decimal.Decimal
	Discount     decimal.Decimal
	DueDate      time.Time
	PaymentDate  *time.Time
	Status       finance.ObligationStatus
	CashBoxID    *uuid.UUID
	Origin       Origin
	Notes        string
	CanceledAt   *time.Time
	CancelReason string
}

// NewDuesRecord creates a pending record for member in period
func NewDuesRecord(tenantID, memberID uuid.UUID, period Period, amount decimal.Decimal, dueDate time.Time, origin Origin) (*DuesRecord, error) {
	v := &shared.ValidationError{}
	if memberID == uuid.Nil {
		v.Add("member_id", "Member is required")
	}
	if period.IsZero() {
		v.Add("period", "Period is required")
	}
	if !amount.IsPositive() {
		v.Add("amount", "Amount must be positive")
	}
	if dueDate.IsZero() {
		v.Add("due_date", "Due date is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	return &DuesRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		MemberID:            memberID,
		Period:              period,
		Amount:              amount.Round(2),
		Interest:            decimal.Zero,
		Discount:            decimal.Zero,
		DueDate:             finance.DateOnly(dueDate),
		Status:              finance.StatusPending,
		Origin:              origin,
	}, nil
}

// UpdateCharge changes amount, due date and notes of an open record. Moving the
// due date of an overdue record reschedules it: a date from today on returns it
// to pending, an earlier one is rejected.
func (r *DuesRecord) UpdateCharge(amount decimal.Decimal, dueDate time.Time, notes string, today time.Time) error {
	if !r.Status.IsOpen() {
		return shared.NewInvalidStateError(fmt.Sprintf("Dues for %s cannot be changed while %s", r.Period, r.Status))
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("amount", "Amount must be positive")
	}
	if dueDate.IsZero() {
		return shared.NewValidationError("due_date", "Due date is required")
	}
	dueDate = finance.DateOnly(dueDate)

	status := r.Status
	if r.Status == finance.StatusOverdue && !dueDate.Equal(r.DueDate) {
		if finance.IsPastDue(dueDate, today) {
			return shared.NewValidationError("due_date", "An overdue record can only be rescheduled to today or later")
		}
		if err := r.Status.ValidateTransition(finance.StatusPending); err != nil {
			return err
		}
		status = finance.StatusPending
	}

	r.Amount = amount.Round(2)
	r.DueDate = dueDate
	r.Status = status
	r.Notes = strings.TrimSpace(notes)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// SettlementInput carries what a settlement needs. The chart accounts come from
// the tenant's settings and must already be resolved by the caller.
type SettlementInput struct {
	CashBox         *finance.CashBox
	DuesAccount     *finance.ChartAccount
	InterestAccount *finance.ChartAccount
	PaymentDate     time.Time
	Interest        decimal.Decimal
	Discount        decimal.Decimal
}

// Settlement is the result of settling a record: the ledger entries to persist
// together with the record.
type Settlement struct {
	Principal *finance.LedgerEntry
	Interest  *finance.LedgerEntry
}

// Entries returns the ledger entries of the settlement in posting order
func (s *Settlement) Entries() []*finance.LedgerEntry {
	if s.Interest == nil {
		return []*finance.LedgerEntry{s.Principal}
	}
	return []*finance.LedgerEntry{s.Principal, s.Interest}
}

// Settle marks the record paid and builds its postings: the principal (amount minus
// discount) on the dues revenue account and, when interest is positive, a second
// entry on the interest revenue account. The record is only mutated when every
// posting could be built.
func (r *DuesRecord) Settle(in SettlementInput) (*Settlement, error) {
	if !r.Status.CanTransitionTo(finance.StatusPaid) {
		return nil, shared.NewInvalidStateError(fmt.Sprintf("Dues for %s cannot be settled while %s", r.Period, r.Status))
	}
	if in.DuesAccount == nil {
		return nil, shared.NewConfigurationError("The dues revenue account is not configured for this club")
	}
	if in.InterestAccount == nil {
		return nil, shared.NewConfigurationError("The interest revenue account is not configured for this club")
	}
	if in.DuesAccount.Kind != finance.ChartAccountKindRevenue || in.InterestAccount.Kind != finance.ChartAccountKindRevenue {
		return nil, shared.NewConfigurationError("Dues and interest must be mapped to revenue accounts")
	}

	v := &shared.ValidationError{}
	if in.PaymentDate.IsZero() {
		v.Add("payment_date", "Payment date is required")
	}
	if in.Interest.IsNegative() {
		v.Add("interest", "Interest cannot be negative")
	}
	if in.Discount.IsNegative() {
		v.Add("discount", "Discount cannot be negative")
	} else if in.Discount.GreaterThanOrEqual(r.Amount) {
		v.Add("discount", "Discount must be lower than the amount")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	interest := in.Interest.Round(2)
	discount := in.Discount.Round(2)

	principal, err := finance.NewSettlementEntry(r.TenantID, finance.Posting{
		CashBox:      in.CashBox,
		ChartAccount: in.DuesAccount,
		Description:  fmt.Sprintf("Monthly dues %s", r.Period),
		Date:         in.PaymentDate,
		Amount:       r.Amount.Sub(discount),
		Source:       finance.EntrySourceDues,
		SourceID:     r.ID,
	})
	if err != nil {
		return nil, err
	}
	result := &Settlement{Principal: principal}

	if interest.IsPositive() {
		result.Interest, err = finance.NewSettlementEntry(r.TenantID, finance.Posting{
			CashBox:      in.CashBox,
			ChartAccount: in.InterestAccount,
			Description:  fmt.Sprintf("Late interest on dues %s", r.Period),
			Date:         in.PaymentDate,
			Amount:       interest,
			Source:       finance.EntrySourceDues,
			SourceID:     r.ID,
		})
		if err != nil {
			return nil, err
		}
	}

	paid := finance.DateOnly(in.PaymentDate)
	boxID := in.CashBox.ID
	r.Status = finance.StatusPaid
	r.PaymentDate = &paid
	r.Interest = interest
	r.Discount = discount
	r.CashBoxID = &boxID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewDuesSettledEvent(r))

	return result, nil
}

// MarkOverdue moves a pending record whose due date has passed to overdue
func (r *DuesRecord) MarkOverdue(today time.Time) bool {
	if r.Status != finance.StatusPending || !finance.IsPastDue(r.DueDate, today) {
		return false
	}
	r.Status = finance.StatusOverdue
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return true
}

// Cancel cancels an open record
func (r *DuesRecord) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(finance.StatusCanceled) {
		return shared.NewInvalidStateError(fmt.Sprintf("Dues for %s cannot be canceled while %s", r.Period, r.Status))
	}
	now := time.Now()
	r.Status = finance.StatusCanceled
	r.CanceledAt = &now
	r.CancelReason = strings.TrimSpace(reason)
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewDuesCanceledEvent(r))
	return nil
}

// Reopen returns a canceled record to pending
func (r *DuesRecord) Reopen() error {
	if r.Status != finance.StatusCanceled {
		return shared.NewInvalidStateError(fmt.Sprintf("Dues for %s cannot be reopened while %s", r.Period, r.Status))
	}
	r.Status = finance.StatusPending
	r.CanceledAt = nil
	r.CancelReason = ""
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// EnsureDeletable rejects deleting paid records
func (r *DuesRecord) EnsureDeletable() error {
	if r.Status == finance.StatusPaid {
		return shared.NewInvalidStateError(fmt.Sprintf("Dues for %s are paid and cannot be deleted", r.Period))
	}
	return nil
}

// DaysOverdue returns max(0, today - due date) for open records, else 0
func (r *DuesRecord) DaysOverdue(today time.Time) int {
	return finance.DaysOverdue(r.Status, r.DueDate, today)
}

// TotalDue returns amount + interest - discount
func (r *DuesRecord) TotalDue() decimal.Decimal {
	return finance.TotalDue(r.Amount, r.Interest, r.Discount)
}
