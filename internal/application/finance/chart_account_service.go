package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChartAccountService manages the tenant's chart of accounts
type ChartAccountService struct {
	chartRepo finance.ChartAccountRepository
}

// NewChartAccountService creates a new ChartAccountService
func NewChartAccountService(chartRepo finance.ChartAccountRepository) *ChartAccountService {
	return &ChartAccountService{chartRepo: chartRepo}
}

// ===================== Chart Account DTOs =====================

// ChartAccountRequest represents a request to create or update a chart entry.
// Kind cannot change after creation.
type ChartAccountRequest struct {
	Code         string     `json:"code" binding:"required,max=30"`
	Name         string     `json:"name" binding:"required,max=150"`
	Kind         string     `json:"kind" binding:"omitempty,oneof=REVENUE EXPENSE revenue expense"`
	ParentID     *uuid.UUID `json:"parent_id"`
	GroupingOnly bool       `json:"grouping_only"`
	Active       *bool      `json:"active"`
}

// ChartAccountResponse represents a chart entry in API responses
type ChartAccountResponse struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Kind         string     `json:"kind"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	GroupingOnly bool       `json:"grouping_only"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ChartAccountListFilter defines filtering options for chart list queries
type ChartAccountListFilter struct {
	Search       string     `form:"search"`
	Kind         string     `form:"kind"`
	ParentID     *uuid.UUID `form:"parent_id"`
	PostableOnly bool       `form:"postable_only"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
}

func toChartAccountResponse(a *finance.ChartAccount) *ChartAccountResponse {
	return &ChartAccountResponse{
		ID:           a.ID,
		Code:         a.Code,
		Name:         a.Name,
		Kind:         a.Kind.String(),
		ParentID:     a.ParentID,
		GroupingOnly: a.GroupingOnly,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ===================== Chart Account Operations =====================

// Create adds an entry to the chart of accounts
func (s *ChartAccountService) Create(ctx context.Context, tenantID uuid.UUID, req ChartAccountRequest) (*ChartAccountResponse, error) {
	if err := s.ensureUniqueCode(ctx, tenantID, req.Code, nil); err != nil {
		return nil, err
	}
	parent, err := s.parent(ctx, tenantID, req.ParentID)
	if err != nil {
		return nil, err
	}
	kind := finance.ChartAccountKind(strings.ToUpper(req.Kind))
	account, err := finance.NewChartAccount(tenantID, req.Code, req.Name, kind, parent, req.GroupingOnly)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		account.Deactivate()
	}
	if err := s.chartRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return toChartAccountResponse(account), nil
}

// GetByID gets a chart entry by ID
func (s *ChartAccountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ChartAccountResponse, error) {
	account, err := s.chartRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toChartAccountResponse(account), nil
}

// List lists chart entries ordered by code
func (s *ChartAccountService) List(ctx context.Context, tenantID uuid.UUID, filter ChartAccountListFilter) (*shared.Paginated[ChartAccountResponse], error) {
	f := finance.ChartAccountFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  "code",
			OrderDir: "asc",
		}.Normalize(),
		ParentID:     filter.ParentID,
		PostableOnly: filter.PostableOnly,
	}
	if filter.Kind != "" {
		kind := finance.ChartAccountKind(strings.ToUpper(filter.Kind))
		if !kind.IsValid() {
			return nil, shared.NewValidationError("kind", "Kind must be REVENUE or EXPENSE")
		}
		f.Kind = &kind
	}

	accounts, err := s.chartRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.chartRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]ChartAccountResponse, len(accounts))
	for i := range accounts {
		items[i] = *toChartAccountResponse(&accounts[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update changes code, name, parent and grouping flag of a chart entry
func (s *ChartAccountService) Update(ctx context.Context, tenantID, id uuid.UUID, req ChartAccountRequest) (*ChartAccountResponse, error) {
	account, err := s.chartRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Kind != "" && finance.ChartAccountKind(strings.ToUpper(req.Kind)) != account.Kind {
		return nil, shared.NewValidationError("kind", "The kind of an account cannot change")
	}
	if err := s.ensureUniqueCode(ctx, tenantID, req.Code, &id); err != nil {
		return nil, err
	}
	if err := account.Update(req.Code, req.Name); err != nil {
		return nil, err
	}

	parent, err := s.parent(ctx, tenantID, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := account.SetParent(parent); err != nil {
		return nil, err
	}

	if req.GroupingOnly != account.GroupingOnly {
		if req.GroupingOnly {
			referenced, err := s.chartRepo.IsReferenced(ctx, tenantID, id)
			if err != nil {
				return nil, err
			}
			if referenced {
				return nil, shared.NewInvalidStateError("An account with postings cannot become grouping-only")
			}
		} else {
			hasChildren, err := s.chartRepo.HasChildren(ctx, tenantID, id)
			if err != nil {
				return nil, err
			}
			if hasChildren {
				return nil, shared.NewInvalidStateError("An account with children must stay grouping-only")
			}
		}
		account.SetGroupingOnly(req.GroupingOnly)
	}

	if req.Active != nil {
		if *req.Active {
			account.Activate()
		} else {
			account.Deactivate()
		}
	}

	if err := s.chartRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return toChartAccountResponse(account), nil
}

// Delete removes an entry without children and without postings
func (s *ChartAccountService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.chartRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	hasChildren, err := s.chartRepo.HasChildren(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewInvalidStateError("Account has child accounts and cannot be deleted")
	}
	referenced, err := s.chartRepo.IsReferenced(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewInvalidStateError("Account is used by entries, accounts or settings and cannot be deleted")
	}
	return s.chartRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *ChartAccountService) ensureUniqueCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) error {
	exists, err := s.chartRepo.ExistsByCode(ctx, tenantID, strings.TrimSpace(code), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Account with this code already exists")
	}
	return nil
}

func (s *ChartAccountService) parent(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID) (*finance.ChartAccount, error) {
	if id == nil {
		return nil, nil
	}
	parent, err := s.chartRepo.FindByIDForTenant(ctx, tenantID, *id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("parent_id", "Parent account not found")
	}
	return parent, err
}
