package collection

import (
	"context"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TemplateRepository defines persistence for message templates
type TemplateRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Template, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Template, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	Save(ctx context.Context, tmpl *Template) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CampaignRepository defines persistence for campaigns
type CampaignRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Campaign, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, campaign *Campaign) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DispatchFilter defines filtering options for dispatch queries
type DispatchFilter struct {
	shared.Filter
	Status *DispatchStatus
}

// DispatchRepository defines persistence for dispatches
type DispatchRepository interface {
	FindByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter DispatchFilter) ([]Dispatch, error)
	CountByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter DispatchFilter) (int64, error)
	// FindAllByCampaign returns every dispatch of the campaign keyed by member and record
	FindAllByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) (map[DispatchKey]*Dispatch, error)
	Create(ctx context.Context, dispatches []*Dispatch) error
	Save(ctx context.Context, dispatch *Dispatch) error
}
