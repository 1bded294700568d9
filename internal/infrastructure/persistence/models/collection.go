package models

import (
	"time"

	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TemplateModel is the persistence model for a billing message Template.
type TemplateModel struct {
	TenantAggregateModel
	Name    string             `gorm:"type:varchar(150);not null"`
	Channel collection.Channel `gorm:"type:varchar(20);not null"`
	Subject string             `gorm:"type:varchar(255)"`
	Body    string             `gorm:"type:text;not null"`
	Active  bool               `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TemplateModel) TableName() string {
	return "collection_templates"
}

// ToDomain converts the persistence model to a domain Template.
func (m *TemplateModel) ToDomain() *collection.Template {
	t := &collection.Template{
		Name:    m.Name,
		Channel: m.Channel,
		Subject: m.Subject,
		Body:    m.Body,
		Active:  m.Active,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Template.
func (m *TemplateModel) FromDomain(t *collection.Template) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.Channel = t.Channel
	m.Subject = t.Subject
	m.Body = t.Body
	m.Active = t.Active
}

// CampaignModel is the persistence model for a billing Campaign.
// Target statuses are kept as a JSON array.
type CampaignModel struct {
	TenantAggregateModel
	Name           string                                        `gorm:"type:varchar(150);not null"`
	Description    string                                        `gorm:"type:text"`
	TemplateID     uuid.UUID                                     `gorm:"type:uuid;not null;index"`
	Status         collection.CampaignStatus                     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	TargetStatuses datatypes.JSONSlice[finance.ObligationStatus] `gorm:"type:jsonb;not null"`
	MinDaysOverdue int                                           `gorm:"not null;default:0"`
	SentCount      int                                           `gorm:"not null;default:0"`
	FailedCount    int                                           `gorm:"not null;default:0"`
	LastRunAt      *time.Time
}

// TableName returns the table name for GORM
func (CampaignModel) TableName() string {
	return "collection_campaigns"
}

// ToDomain converts the persistence model to a domain Campaign.
func (m *CampaignModel) ToDomain() *collection.Campaign {
	c := &collection.Campaign{
		Name:           m.Name,
		Description:    m.Description,
		TemplateID:     m.TemplateID,
		Status:         m.Status,
		TargetStatuses: append([]finance.ObligationStatus(nil), m.TargetStatuses...),
		MinDaysOverdue: m.MinDaysOverdue,
		SentCount:      m.SentCount,
		FailedCount:    m.FailedCount,
		LastRunAt:      m.LastRunAt,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Campaign.
func (m *CampaignModel) FromDomain(c *collection.Campaign) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.TemplateID = c.TemplateID
	m.Status = c.Status
	m.TargetStatuses = datatypes.NewJSONSlice(c.TargetStatuses)
	m.MinDaysOverdue = c.MinDaysOverdue
	m.SentCount = c.SentCount
	m.FailedCount = c.FailedCount
	m.LastRunAt = c.LastRunAt
}

// DispatchModel is the persistence model for one campaign Dispatch.
type DispatchModel struct {
	TenantAggregateModel
	CampaignID   uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_dispatch_campaign_member_dues,priority:1"`
	MemberID     uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_dispatch_campaign_member_dues,priority:2"`
	DuesRecordID uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_dispatch_campaign_member_dues,priority:3"`
	Channel      collection.Channel        `gorm:"type:varchar(20);not null"`
	Recipient    string                    `gorm:"type:varchar(200)"`
	Subject      string                    `gorm:"type:varchar(255)"`
	Message      string                    `gorm:"type:text"`
	Status       collection.DispatchStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Attempts     int                       `gorm:"not null;default:0"`
	LastError    string                    `gorm:"type:text"`
	SentAt       *time.Time
}

// TableName returns the table name for GORM
func (DispatchModel) TableName() string {
	return "collection_dispatches"
}

// ToDomain converts the persistence model to a domain Dispatch.
func (m *DispatchModel) ToDomain() *collection.Dispatch {
	d := &collection.Dispatch{
		CampaignID:   m.CampaignID,
		MemberID:     m.MemberID,
		DuesRecordID: m.DuesRecordID,
		Channel:      m.Channel,
		Recipient:    m.Recipient,
		Subject:      m.Subject,
		Message:      m.Message,
		Status:       m.Status,
		Attempts:     m.Attempts,
		LastError:    m.LastError,
		SentAt:       m.SentAt,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Dispatch.
func (m *DispatchModel) FromDomain(d *collection.Dispatch) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.CampaignID = d.CampaignID
	m.MemberID = d.MemberID
	m.DuesRecordID = d.DuesRecordID
	m.Channel = d.Channel
	m.Recipient = d.Recipient
	m.Subject = d.Subject
	m.Message = d.Message
	m.Status = d.Status
	m.Attempts = d.Attempts
	m.LastError = d.LastError
	m.SentAt = d.SentAt
}
