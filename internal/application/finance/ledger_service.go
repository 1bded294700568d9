package finance

import (
	"context"
	"errors"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService handles manual ledger entries and ledger queries
type LedgerService struct {
	ledgerRepo     finance.LedgerEntryRepository
	cashBoxRepo    finance.CashBoxRepository
	chartRepo      finance.ChartAccountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	ledgerRepo finance.LedgerEntryRepository,
	cashBoxRepo finance.CashBoxRepository,
	chartRepo finance.ChartAccountRepository,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		cashBoxRepo: cashBoxRepo,
		chartRepo:   chartRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ===================== Ledger DTOs =====================

// CreateLedgerEntryRequest represents a staff-entered movement.
// Positive amounts are inflows, negative amounts outflows.
type CreateLedgerEntryRequest struct {
	CashBoxID      uuid.UUID       `json:"cash_box_id" binding:"required"`
	ChartAccountID *uuid.UUID      `json:"chart_account_id"`
	Description    string          `json:"description" binding:"required,max=255"`
	EntryDate      time.Time       `json:"entry_date" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// UpdateLedgerEntryRequest changes the description of an entry
type UpdateLedgerEntryRequest struct {
	Description string `json:"description" binding:"required,max=255"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	CashBoxID      uuid.UUID       `json:"cash_box_id"`
	ChartAccountID *uuid.UUID      `json:"chart_account_id,omitempty"`
	Description    string          `json:"description"`
	EntryDate      time.Time       `json:"entry_date"`
	Amount         decimal.Decimal `json:"amount"`
	Source         string          `json:"source"`
	SourceID       *uuid.UUID      `json:"source_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LedgerEntryListFilter defines filtering options for ledger list queries
type LedgerEntryListFilter struct {
	CashBoxID      *uuid.UUID `form:"cash_box_id"`
	ChartAccountID *uuid.UUID `form:"chart_account_id"`
	Source         string     `form:"source"`
	From           *time.Time `form:"from" time_format:"2006-01-02"`
	To             *time.Time `form:"to" time_format:"2006-01-02"`
	Search         string     `form:"search"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

func toLedgerEntryResponse(e *finance.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:             e.ID,
		CashBoxID:      e.CashBoxID,
		ChartAccountID: e.ChartAccountID,
		Description:    e.Description,
		EntryDate:      e.EntryDate,
		Amount:         e.Amount,
		Source:         string(e.Source),
		SourceID:       e.SourceID,
		CreatedAt:      e.CreatedAt,
	}
}

// ===================== Ledger Operations =====================

// CreateManual posts a manual movement to a cash box
func (s *LedgerService) CreateManual(ctx context.Context, tenantID uuid.UUID, req CreateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	box, err := s.cashBoxRepo.FindByIDForTenant(ctx, tenantID, req.CashBoxID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("cash_box_id", "Cash box not found")
	}
	if err != nil {
		return nil, err
	}

	var chart *finance.ChartAccount
	if req.ChartAccountID != nil {
		chart, err = s.chartRepo.FindByIDForTenant(ctx, tenantID, *req.ChartAccountID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("chart_account_id", "Chart account not found")
		}
		if err != nil {
			return nil, err
		}
	}

	entry, err := finance.NewManualEntry(tenantID, box, chart, req.Description, req.EntryDate, req.Amount)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, entry); err != nil {
		s.logger.Warn("Failed to publish ledger events", zap.String("entry_id", entry.ID.String()), zap.Error(err))
	}
	return toLedgerEntryResponse(entry), nil
}

// GetByID gets a ledger entry by ID
func (s *LedgerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toLedgerEntryResponse(entry), nil
}

// List lists ledger entries, newest first
func (s *LedgerService) List(ctx context.Context, tenantID uuid.UUID, filter LedgerEntryListFilter) (*shared.Paginated[LedgerEntryResponse], error) {
	f := finance.LedgerEntryFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  "entry_date",
			OrderDir: "desc",
		}.Normalize(),
		CashBoxID:      filter.CashBoxID,
		ChartAccountID: filter.ChartAccountID,
		From:           filter.From,
		To:             filter.To,
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.NewValidationError("to", "End date must not be before start date")
	}
	if filter.Source != "" {
		source := finance.EntrySource(filter.Source)
		if !source.IsValid() {
			return nil, shared.NewValidationError("source", "Source must be MANUAL, DUES or ACCOUNT")
		}
		f.Source = &source
	}

	entries, err := s.ledgerRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.ledgerRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		items[i] = *toLedgerEntryResponse(&entries[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// UpdateDescription changes the description of an entry; amounts never change
func (s *LedgerService) UpdateDescription(ctx context.Context, tenantID, id uuid.UUID, req UpdateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := entry.UpdateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.UpdateDescription(ctx, entry); err != nil {
		return nil, err
	}
	return toLedgerEntryResponse(entry), nil
}

// Delete removes a manual entry. Entries produced by settlements are kept.
func (s *LedgerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := entry.EnsureDeletable(); err != nil {
		return err
	}
	if err := s.ledgerRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Manual ledger entry deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", id.String()),
		zap.String("amount", entry.Amount.StringFixed(2)))
	return nil
}
