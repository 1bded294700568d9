package finance

import (
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeLedgerEntryPosted = "LedgerEntryPosted"
	EventTypeAccountCreated    = "AccountCreated"
	EventTypeAccountSettled    = "AccountSettled"
)

// LedgerEntryPostedEvent is raised whenever money moves in a cash box
type LedgerEntryPostedEvent struct {
	shared.BaseDomainEvent
	CashBoxID uuid.UUID       `json:"cash_box_id"`
	Amount    decimal.Decimal `json:"amount"`
	Source    EntrySource     `json:"source"`
	SourceID  *uuid.UUID      `json:"source_id,omitempty"`
	EntryDate time.Time       `json:"entry_date"`
}

// NewLedgerEntryPostedEvent creates a new LedgerEntryPostedEvent
func NewLedgerEntryPostedEvent(e *LedgerEntry) *LedgerEntryPostedEvent {
	return &LedgerEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryPosted, "LedgerEntry", e.ID, e.TenantID),
		CashBoxID:       e.CashBoxID,
		Amount:          e.Amount,
		Source:          e.Source,
		SourceID:        e.SourceID,
		EntryDate:       e.EntryDate,
	}
}

// AccountCreatedEvent is raised when an ad-hoc account is opened
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Kind    AccountKind     `json:"kind"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"due_date"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, "Account", a.ID, a.TenantID),
		Kind:            a.Kind,
		Amount:          a.Amount,
		DueDate:         a.DueDate,
	}
}

// AccountSettledEvent is raised when an account is paid
type AccountSettledEvent struct {
	shared.BaseDomainEvent
	Kind        AccountKind     `json:"kind"`
	Total       decimal.Decimal `json:"total"`
	PaymentDate time.Time       `json:"payment_date"`
}

// NewAccountSettledEvent creates a new AccountSettledEvent
func NewAccountSettledEvent(a *Account) *AccountSettledEvent {
	return &AccountSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountSettled, "Account", a.ID, a.TenantID),
		Kind:            a.Kind,
		Total:           a.TotalDue(),
		PaymentDate:     *a.PaymentDate,
	}
}
