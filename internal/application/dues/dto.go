package dues

import (
	"time"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateDuesRequest triggers a generation run
type GenerateDuesRequest struct {
	// Months is the lookahead, 1..12; zero means the configured default
	Months        int        `json:"months"`
	AffiliationID *uuid.UUID `json:"affiliation_id"`
}

// GenerateDuesResponse reports the outcome of a generation run
type GenerateDuesResponse struct {
	Created int      `json:"created"`
	Ignored int      `json:"ignored"`
	Periods []string `json:"periods"`
}

// RefreshOverdueResponse reports how many records became overdue
type RefreshOverdueResponse struct {
	Updated int64 `json:"updated"`
}

// SettleDuesRequest represents a payment of a dues record
type SettleDuesRequest struct {
	// CashBoxID falls back to the club's default cash box
	CashBoxID   *uuid.UUID       `json:"cash_box_id"`
	PaymentDate *time.Time       `json:"payment_date"`
	Interest    *decimal.Decimal `json:"interest"`
	Discount    *decimal.Decimal `json:"discount"`
}

// CreateDuesRequest represents a manually created dues record
type CreateDuesRequest struct {
	MemberID uuid.UUID `json:"member_id" binding:"required"`
	// Period is YYYY-MM
	Period string `json:"period" binding:"required"`
	// Amount and DueDate default to the member's category fee and due day
	Amount    *decimal.Decimal `json:"amount"`
	DueDate   *time.Time       `json:"due_date"`
	Notes     string           `json:"notes" binding:"max=500"`
	CreatedBy *uuid.UUID       `json:"-"`
}

// UpdateDuesRequest changes the charge of an open record
type UpdateDuesRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	DueDate time.Time       `json:"due_date" binding:"required"`
	Notes   string          `json:"notes" binding:"max=500"`
}

// CancelDuesRequest represents a cancellation
type CancelDuesRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// DuesListFilter represents the query of the dues list
type DuesListFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status     string     `form:"status"`
	MemberID   *uuid.UUID `form:"member_id"`
	PeriodFrom string     `form:"period_from"`
	PeriodTo   string     `form:"period_to"`
}

// DuesResponse represents a dues record with its derived values
type DuesResponse struct {
	ID                 uuid.UUID        `json:"id"`
	MemberID           uuid.UUID        `json:"member_id"`
	MemberName         string           `json:"member_name,omitempty"`
	RegistrationNumber string           `json:"registration_number,omitempty"`
	Period             string           `json:"period"`
	Amount             decimal.Decimal  `json:"amount"`
	Interest           decimal.Decimal  `json:"interest"`
	Discount           decimal.Decimal  `json:"discount"`
	TotalDue           decimal.Decimal  `json:"total_due"`
	DueDate            time.Time        `json:"due_date"`
	PaymentDate        *time.Time       `json:"payment_date,omitempty"`
	Status             string           `json:"status"`
	DaysOverdue        int              `json:"days_overdue"`
	SuggestedInterest  *decimal.Decimal `json:"suggested_interest,omitempty"`
	CashBoxID          *uuid.UUID       `json:"cash_box_id,omitempty"`
	Origin             string           `json:"origin"`
	Notes              string           `json:"notes,omitempty"`
	CancelReason       string           `json:"cancel_reason,omitempty"`
	CanceledAt         *time.Time       `json:"canceled_at,omitempty"`
	Version            int              `json:"version"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ToDuesResponse converts a record evaluated at today
func ToDuesResponse(r *dues.DuesRecord, today time.Time) DuesResponse {
	return DuesResponse{
		ID:           r.ID,
		MemberID:     r.MemberID,
		Period:       r.Period.String(),
		Amount:       r.Amount,
		Interest:     r.Interest,
		Discount:     r.Discount,
		TotalDue:     r.TotalDue(),
		DueDate:      r.DueDate,
		PaymentDate:  r.PaymentDate,
		Status:       string(r.Status),
		DaysOverdue:  r.DaysOverdue(today),
		CashBoxID:    r.CashBoxID,
		Origin:       string(r.Origin),
		Notes:        r.Notes,
		CancelReason: r.CancelReason,
		CanceledAt:   r.CanceledAt,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (d *DuesResponse) withMember(m *membership.Member) {
	if m == nil {
		return
	}
	d.MemberName = m.Name
	d.RegistrationNumber = m.RegistrationNumber
}
