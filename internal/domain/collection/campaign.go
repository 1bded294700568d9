package collection

import (
	"fmt"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignDraft    CampaignStatus = "DRAFT"
	CampaignActive   CampaignStatus = "ACTIVE"
	CampaignPaused   CampaignStatus = "PAUSED"
	CampaignFinished CampaignStatus = "FINISHED"
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignDraft:    {CampaignActive, CampaignFinished},
	CampaignActive:   {CampaignPaused, CampaignFinished},
	CampaignPaused:   {CampaignActive, CampaignFinished},
	CampaignFinished: {},
}

// CanTransitionTo reports whether the campaign may move from s to target
func (s CampaignStatus) CanTransitionTo(target CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Campaign targets open dues matching its filters with one template
type Campaign struct {
	shared.TenantAggregateRoot
	Name           string
	Description    string
	TemplateID     uuid.UUID
	Status         CampaignStatus
	TargetStatuses []finance.ObligationStatus
	MinDaysOverdue int
	SentCount      int
	FailedCount    int
	LastRunAt      *time.Time
}

// NewCampaign creates a draft campaign. Target statuses default to OVERDUE.
func NewCampaign(tenantID uuid.UUID, name string, tmpl *Template, targets []finance.ObligationStatus, minDaysOverdue int) (*Campaign, error) {
	c := &Campaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              CampaignDraft,
	}
	if err := c.Update(name, "", tmpl, targets, minDaysOverdue); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// Update replaces the campaign filters. Finished campaigns are frozen.
func (c *Campaign) Update(name, description string, tmpl *Template, targets []finance.ObligationStatus, minDaysOverdue int) error {
	if c.Status == CampaignFinished {
		return shared.NewInvalidStateError("Finished campaigns cannot be edited")
	}
	name = strings.TrimSpace(name)
	if len(targets) == 0 {
		targets = []finance.ObligationStatus{finance.StatusOverdue}
	}

	v := &shared.ValidationError{}
	if name == "" {
		v.Add("name", "Name is required")
	}
	if tmpl == nil {
		v.Add("template_id", "Template is required")
	} else if !tmpl.Active {
		v.Add("template_id", fmt.Sprintf("Template %q is inactive", tmpl.Name))
	}
	for _, s := range targets {
		if !s.IsOpen() {
			v.Add("target_statuses", "Only PENDING and OVERDUE dues can be targeted")
			break
		}
	}
	if minDaysOverdue < 0 {
		v.Add("min_days_overdue", "Cannot be negative")
	}
	if err := v.Err(); err != nil {
		return err
	}
	if err := shared.EnsureSameTenant(c.TenantID, &tmpl.TenantAggregateRoot); err != nil {
		return err
	}

	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.TemplateID = tmpl.ID
	c.TargetStatuses = targets
	c.MinDaysOverdue = minDaysOverdue
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ChangeStatus moves the campaign through its lifecycle
func (c *Campaign) ChangeStatus(target CampaignStatus) error {
	if !c.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf("Campaign cannot change from %s to %s", c.Status, target))
	}
	c.Status = target
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// EnsureRunnable fails unless the campaign is active
func (c *Campaign) EnsureRunnable() error {
	if c.Status != CampaignActive {
		return shared.NewInvalidStateError(fmt.Sprintf("Campaign %q is %s; only active campaigns run", c.Name, c.Status))
	}
	return nil
}

// Matches reports whether a dues record in status with daysOverdue is targeted
func (c *Campaign) Matches(status finance.ObligationStatus, daysOverdue int) bool {
	if daysOverdue < c.MinDaysOverdue {
		return false
	}
	for _, s := range c.TargetStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// RecordRun adds the outcome of one run to the counters
func (c *Campaign) RecordRun(sent, failed int, at time.Time) {
	c.SentCount += sent
	c.FailedCount += failed
	c.LastRunAt = &at
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
