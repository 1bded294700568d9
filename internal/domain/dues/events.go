package dues

import (
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeDuesGenerated = "DuesGenerated"
	EventTypeDuesSettled   = "DuesSettled"
	EventTypeDuesCanceled  = "DuesCanceled"
)

// DuesGeneratedEvent is raised once per generation run that created records
type DuesGeneratedEvent struct {
	shared.BaseDomainEvent
	Created int      `json:"created"`
	Ignored int      `json:"ignored"`
	Periods []string `json:"periods"`
}

// NewDuesGeneratedEvent creates a new DuesGeneratedEvent
func NewDuesGeneratedEvent(tenantID uuid.UUID, result GenerationResult) *DuesGeneratedEvent {
	periods := make([]string, 0, len(result.Periods))
	for _, p := range result.Periods {
		periods = append(periods, p.String())
	}
	return &DuesGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDuesGenerated, "DuesRecord", uuid.Nil, tenantID),
		Created:         result.Created,
		Ignored:         result.Ignored,
		Periods:         periods,
	}
}

// DuesSettledEvent is raised when a record is paid
type DuesSettledEvent struct {
	shared.BaseDomainEvent
	MemberID    uuid.UUID       `json:"member_id"`
	Period      string          `json:"period"`
	Amount      decimal.Decimal `json:"amount"`
	Interest    decimal.Decimal `json:"interest"`
	PaymentDate time.Time       `json:"payment_date"`
}

// NewDuesSettledEvent creates a new DuesSettledEvent
func NewDuesSettledEvent(r *DuesRecord) *DuesSettledEvent {
	e := &DuesSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDuesSettled, "DuesRecord", r.ID, r.TenantID),
		MemberID:        r.MemberID,
		Period:          r.Period.String(),
		Amount:          r.Amount,
		Interest:        r.Interest,
	}
	if r.PaymentDate != nil {
		e.PaymentDate = *r.PaymentDate
	}
	return e
}

// DuesCanceledEvent is raised when a record is canceled
type DuesCanceledEvent struct {
	shared.BaseDomainEvent
	MemberID uuid.UUID `json:"member_id"`
	Period   string    `json:"period"`
	Reason   string    `json:"reason"`
}

// NewDuesCanceledEvent creates a new DuesCanceledEvent
func NewDuesCanceledEvent(r *DuesRecord) *DuesCanceledEvent {
	return &DuesCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDuesCanceled, "DuesRecord", r.ID, r.TenantID),
		MemberID:        r.MemberID,
		Period:          r.Period.String(),
		Reason:          r.CancelReason,
	}
}
