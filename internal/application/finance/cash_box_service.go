package finance

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashBoxService handles cash box operations
type CashBoxService struct {
	cashBoxRepo finance.CashBoxRepository
}

// NewCashBoxService creates a new CashBoxService
func NewCashBoxService(cashBoxRepo finance.CashBoxRepository) *CashBoxService {
	return &CashBoxService{cashBoxRepo: cashBoxRepo}
}

// ===================== Cash Box DTOs =====================

// CashBoxRequest represents a request to create or update a cash box
type CashBoxRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	Description    string          `json:"description" binding:"max=500"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CashBoxResponse represents a cash box in API responses
type CashBoxResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Active         bool            `json:"active"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CashBoxListFilter defines filtering options for cash box list queries
type CashBoxListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func toCashBoxResponse(b *finance.CashBox) *CashBoxResponse {
	return &CashBoxResponse{
		ID:             b.ID,
		Name:           b.Name,
		Description:    b.Description,
		OpeningBalance: b.OpeningBalance,
		Active:         b.Active,
		Version:        b.Version,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// ===================== Cash Box Operations =====================

// Create creates a new cash box
func (s *CashBoxService) Create(ctx context.Context, tenantID uuid.UUID, req CashBoxRequest) (*CashBoxResponse, error) {
	exists, err := s.cashBoxRepo.ExistsByName(ctx, tenantID, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Cash box with this name already exists")
	}

	box, err := finance.NewCashBox(tenantID, req.Name, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	box.Description = req.Description
	if err := s.cashBoxRepo.Save(ctx, box); err != nil {
		return nil, err
	}
	return toCashBoxResponse(box), nil
}

// GetByID gets a cash box by ID
func (s *CashBoxService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CashBoxResponse, error) {
	box, err := s.cashBoxRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toCashBoxResponse(box), nil
}

// List lists cash boxes
func (s *CashBoxService) List(ctx context.Context, tenantID uuid.UUID, filter CashBoxListFilter) (*shared.Paginated[CashBoxResponse], error) {
	f := finance.CashBoxFilter{
		Filter: shared.Filter{Page: filter.Page, PageSize: filter.PageSize, Search: filter.Search}.Normalize(),
		Active: filter.Active,
	}
	boxes, err := s.cashBoxRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.cashBoxRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]CashBoxResponse, len(boxes))
	for i := range boxes {
		items[i] = *toCashBoxResponse(&boxes[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update changes name, description and opening balance
func (s *CashBoxService) Update(ctx context.Context, tenantID, id uuid.UUID, req CashBoxRequest) (*CashBoxResponse, error) {
	box, err := s.cashBoxRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.cashBoxRepo.ExistsByName(ctx, tenantID, req.Name, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Cash box with this name already exists")
	}
	if err := box.Update(req.Name, req.Description, req.OpeningBalance); err != nil {
		return nil, err
	}
	if err := s.cashBoxRepo.Save(ctx, box); err != nil {
		return nil, err
	}
	return toCashBoxResponse(box), nil
}

// SetActive activates or deactivates a cash box
func (s *CashBoxService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*CashBoxResponse, error) {
	box, err := s.cashBoxRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if active {
		box.Activate()
	} else {
		box.Deactivate()
	}
	if err := s.cashBoxRepo.Save(ctx, box); err != nil {
		return nil, err
	}
	return toCashBoxResponse(box), nil
}
