package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clube/backend/internal/application/calendar"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/partner"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountService handles ad-hoc receivables and payables
type AccountService struct {
	accountRepo    finance.AccountRepository
	chartRepo      finance.ChartAccountRepository
	cashBoxRepo    finance.CashBoxRepository
	ledgerRepo     finance.LedgerEntryRepository
	settingsRepo   finance.SettingsRepository
	memberRepo     membership.MemberRepository
	supplierRepo   partner.SupplierRepository
	txManager      shared.TransactionManager
	calendar       calendar.Calendar
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// AccountServiceConfig holds the dependencies of the account service
type AccountServiceConfig struct {
	AccountRepo  finance.AccountRepository
	ChartRepo    finance.ChartAccountRepository
	CashBoxRepo  finance.CashBoxRepository
	LedgerRepo   finance.LedgerEntryRepository
	SettingsRepo finance.SettingsRepository
	MemberRepo   membership.MemberRepository
	SupplierRepo partner.SupplierRepository
	TxManager    shared.TransactionManager
	Calendar     calendar.Calendar
	Logger       *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo:  cfg.AccountRepo,
		chartRepo:    cfg.ChartRepo,
		cashBoxRepo:  cfg.CashBoxRepo,
		ledgerRepo:   cfg.LedgerRepo,
		settingsRepo: cfg.SettingsRepo,
		memberRepo:   cfg.MemberRepo,
		supplierRepo: cfg.SupplierRepo,
		txManager:    cfg.TxManager,
		calendar:     cfg.Calendar,
		logger:       logger.Named("accounts"),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ===================== Account DTOs =====================

// CreateAccountRequest represents a request to open a receivable or payable
type CreateAccountRequest struct {
	Kind           string          `json:"kind" binding:"required,oneof=RECEIVABLE PAYABLE receivable payable"`
	Description    string          `json:"description" binding:"required,max=255"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DueDate        time.Time       `json:"due_date" binding:"required"`
	ChartAccountID uuid.UUID       `json:"chart_account_id" binding:"required"`
	MemberID       *uuid.UUID      `json:"member_id"`
	SupplierID     *uuid.UUID      `json:"supplier_id"`
	Notes          string          `json:"notes" binding:"max=1000"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// SettleAccountRequest represents a payment of an account. An empty cash box falls
// back to the default one configured for the club.
type SettleAccountRequest struct {
	CashBoxID   *uuid.UUID       `json:"cash_box_id"`
	PaymentDate *time.Time       `json:"payment_date"`
	Interest    *decimal.Decimal `json:"interest"`
	Discount    *decimal.Decimal `json:"discount"`
}

// CancelAccountRequest represents a cancellation
type CancelAccountRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AccountListFilter defines filtering options for account list queries
type AccountListFilter struct {
	Kind       string     `form:"kind"`
	Status     string     `form:"status"`
	MemberID   *uuid.UUID `form:"member_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	DueFrom    *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo      *time.Time `form:"due_to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Kind           string          `json:"kind"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Interest       decimal.Decimal `json:"interest"`
	Discount       decimal.Decimal `json:"discount"`
	TotalDue       decimal.Decimal `json:"total_due"`
	DueDate        time.Time       `json:"due_date"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	DaysOverdue    int             `json:"days_overdue"`
	Status         string          `json:"status"`
	ChartAccountID uuid.UUID       `json:"chart_account_id"`
	CashBoxID      *uuid.UUID      `json:"cash_box_id,omitempty"`
	MemberID       *uuid.UUID      `json:"member_id,omitempty"`
	SupplierID     *uuid.UUID      `json:"supplier_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *finance.Account, today time.Time) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Kind:           a.Kind.String(),
		Description:    a.Description,
		Amount:         a.Amount,
		Interest:       a.Interest,
		Discount:       a.Discount,
		TotalDue:       a.TotalDue(),
		DueDate:        a.DueDate,
		PaymentDate:    a.PaymentDate,
		DaysOverdue:    a.DaysOverdue(today),
		Status:         a.Status.String(),
		ChartAccountID: a.ChartAccountID,
		CashBoxID:      a.CashBoxID,
		MemberID:       a.MemberID,
		SupplierID:     a.SupplierID,
		Notes:          a.Notes,
		CancelReason:   a.CancelReason,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ===================== Account Operations =====================

// Create opens a pending receivable or payable
func (s *AccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	chart, err := s.chartRepo.FindByIDForTenant(ctx, tenantID, req.ChartAccountID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("chart_account_id", "Chart account not found")
	}
	if err != nil {
		return nil, err
	}
	if req.MemberID != nil {
		if _, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, *req.MemberID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("member_id", "Member not found")
			}
			return nil, err
		}
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, *req.SupplierID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("supplier_id", "Supplier not found")
			}
			return nil, err
		}
	}

	account, err := finance.NewAccount(tenantID, finance.NewAccountInput{
		Kind:         finance.AccountKind(strings.ToUpper(req.Kind)),
		Description:  req.Description,
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		ChartAccount: chart,
		MemberID:     req.MemberID,
		SupplierID:   req.SupplierID,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		account.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, account)

	resp := ToAccountResponse(account, s.calendar.Today(ctx, tenantID))
	return &resp, nil
}

// GetByID gets an account, reporting the overdue status as of today
func (s *AccountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	today := s.calendar.Today(ctx, tenantID)
	account.MarkOverdue(today)
	resp := ToAccountResponse(account, today)
	return &resp, nil
}

// RefreshOverdue marks pending accounts past their due date as overdue
func (s *AccountService) RefreshOverdue(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	updated, err := s.accountRepo.MarkOverdue(ctx, tenantID, s.calendar.Today(ctx, tenantID))
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.logger.Info("Accounts marked overdue",
			zap.String("tenant_id", tenantID.String()),
			zap.Int64("updated", updated))
	}
	return updated, nil
}

// List refreshes overdue statuses and lists accounts
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) (*shared.Paginated[AccountResponse], error) {
	f, err := filter.toDomain()
	if err != nil {
		return nil, err
	}
	if _, err := s.RefreshOverdue(ctx, tenantID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.accountRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	today := s.calendar.Today(ctx, tenantID)
	items := make([]AccountResponse, len(accounts))
	for i := range accounts {
		items[i] = ToAccountResponse(&accounts[i], today)
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

func (f AccountListFilter) toDomain() (finance.AccountFilter, error) {
	base := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
	}
	if base.OrderBy == "" {
		base.OrderBy = "due_date"
		if base.OrderDir == "" {
			base.OrderDir = "asc"
		}
	}
	out := finance.AccountFilter{
		Filter:     base.Normalize(),
		MemberID:   f.MemberID,
		SupplierID: f.SupplierID,
		DueFrom:    f.DueFrom,
		DueTo:      f.DueTo,
	}
	if f.Kind != "" {
		kind := finance.AccountKind(strings.ToUpper(f.Kind))
		if !kind.IsValid() {
			return out, shared.NewValidationError("kind", "Kind must be RECEIVABLE or PAYABLE")
		}
		out.Kind = &kind
	}
	if f.Status != "" {
		status, err := finance.ParseObligationStatus(f.Status)
		if err != nil {
			return out, err
		}
		out.Status = &status
	}
	return out, nil
}

// Settle pays an account and posts its ledger entry in the same transaction
func (s *AccountService) Settle(ctx context.Context, tenantID, id uuid.UUID, req SettleAccountRequest) (*AccountResponse, error) {
	var settings *finance.TenantSettings
	if req.CashBoxID == nil {
		found, err := s.settingsRepo.FindForTenant(ctx, tenantID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		settings = found
	}
	cashBoxID, err := settings.ResolveCashBox(req.CashBoxID)
	if err != nil {
		return nil, err
	}

	today := s.calendar.Today(ctx, tenantID)
	paymentDate := today
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	interest, discount := decimal.Zero, decimal.Zero
	if req.Interest != nil {
		interest = *req.Interest
	}
	if req.Discount != nil {
		discount = *req.Discount
	}

	var account *finance.Account
	var settlement *finance.AccountSettlement
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		account, err = s.accountRepo.FindByIDForUpdate(txCtx, tenantID, id)
		if err != nil {
			return err
		}
		box, err := s.cashBoxRepo.FindByIDForTenant(txCtx, tenantID, cashBoxID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Cash box")
		}
		if err != nil {
			return err
		}
		chart, err := s.chartRepo.FindByIDForTenant(txCtx, tenantID, account.ChartAccountID)
		if err != nil {
			return err
		}

		settlement, err = account.Settle(box, chart, paymentDate, interest, discount)
		if err != nil {
			return err
		}
		if err := s.ledgerRepo.Create(txCtx, settlement.Entry); err != nil {
			return err
		}
		return s.accountRepo.SaveWithLock(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account settled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_id", id.String()),
		zap.String("kind", account.Kind.String()),
		zap.String("total", account.TotalDue().StringFixed(2)))
	s.publish(ctx, account, settlement.Entry)

	resp := ToAccountResponse(account, today)
	return &resp, nil
}

// Cancel cancels an open account
func (s *AccountService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelAccountRequest) (*AccountResponse, error) {
	return s.mutate(ctx, tenantID, id, func(a *finance.Account) error {
		return a.Cancel(req.Reason)
	})
}

// Reopen brings a canceled account back to pending
func (s *AccountService) Reopen(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	return s.mutate(ctx, tenantID, id, func(a *finance.Account) error {
		return a.Reopen()
	})
}

func (s *AccountService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*finance.Account) error) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(account); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account, s.calendar.Today(ctx, tenantID))
	return &resp, nil
}

// Delete removes an account that was never paid
func (s *AccountService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := account.EnsureDeletable(); err != nil {
		return err
	}
	return s.accountRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *AccountService) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, aggregates...); err != nil {
		s.logger.Warn("Failed to publish account events", zap.Error(err))
	}
}
