package collection

import (
	"time"

	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/google/uuid"
)

// =============================================================================
// Template DTOs
// =============================================================================

// TemplateRequest creates or replaces a message template
type TemplateRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Channel string `json:"channel" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Channel   string    `json:"channel"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTemplateResponse converts a domain Template to TemplateResponse
func ToTemplateResponse(t *collection.Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Channel:   string(t.Channel),
		Subject:   t.Subject,
		Body:      t.Body,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// PreviewResponse is a template rendered with sample data
type PreviewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// =============================================================================
// Campaign DTOs
// =============================================================================

// CampaignRequest creates or replaces a campaign
type CampaignRequest struct {
	Name           string    `json:"name" binding:"required,max=100"`
	Description    string    `json:"description"`
	TemplateID     uuid.UUID `json:"template_id" binding:"required"`
	TargetStatuses []string  `json:"target_statuses"`
	MinDaysOverdue int       `json:"min_days_overdue" binding:"min=0"`
}

func (r CampaignRequest) targets() ([]finance.ObligationStatus, error) {
	out := make([]finance.ObligationStatus, 0, len(r.TargetStatuses))
	for _, raw := range r.TargetStatuses {
		status, err := finance.ParseObligationStatus(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, nil
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	TemplateID     uuid.UUID  `json:"template_id"`
	Status         string     `json:"status"`
	TargetStatuses []string   `json:"target_statuses"`
	MinDaysOverdue int        `json:"min_days_overdue"`
	SentCount      int        `json:"sent_count"`
	FailedCount    int        `json:"failed_count"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToCampaignResponse converts a domain Campaign to CampaignResponse
func ToCampaignResponse(c *collection.Campaign) CampaignResponse {
	targets := make([]string, len(c.TargetStatuses))
	for i, s := range c.TargetStatuses {
		targets[i] = string(s)
	}
	return CampaignResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		TemplateID:     c.TemplateID,
		Status:         string(c.Status),
		TargetStatuses: targets,
		MinDaysOverdue: c.MinDaysOverdue,
		SentCount:      c.SentCount,
		FailedCount:    c.FailedCount,
		LastRunAt:      c.LastRunAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// RunResult summarizes one campaign run
type RunResult struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	// Matched counts open dues records selected by the campaign filters
	Matched  int `json:"matched"`
	Created  int `json:"created"`
	Sent     int `json:"sent"`
	Failed   int `json:"failed"`
	Canceled int `json:"canceled"`
	// Skipped counts records already delivered in earlier runs
	Skipped int       `json:"skipped"`
	RanAt   time.Time `json:"ran_at"`
}

// =============================================================================
// Dispatch DTOs
// =============================================================================

// DispatchListFilter represents query parameters of the dispatch list
type DispatchListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// DispatchResponse represents one billing message in API responses
type DispatchResponse struct {
	ID           uuid.UUID  `json:"id"`
	CampaignID   uuid.UUID  `json:"campaign_id"`
	MemberID     uuid.UUID  `json:"member_id"`
	DuesRecordID uuid.UUID  `json:"dues_record_id"`
	Channel      string     `json:"channel"`
	Recipient    string     `json:"recipient"`
	Subject      string     `json:"subject"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	LastError    string     `json:"last_error,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToDispatchResponse converts a domain Dispatch to DispatchResponse
func ToDispatchResponse(d *collection.Dispatch) DispatchResponse {
	return DispatchResponse{
		ID:           d.ID,
		CampaignID:   d.CampaignID,
		MemberID:     d.MemberID,
		DuesRecordID: d.DuesRecordID,
		Channel:      string(d.Channel),
		Recipient:    d.Recipient,
		Subject:      d.Subject,
		Message:      d.Message,
		Status:       string(d.Status),
		Attempts:     d.Attempts,
		LastError:    d.LastError,
		SentAt:       d.SentAt,
		CreatedAt:    d.CreatedAt,
	}
}
