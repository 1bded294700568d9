package finance

import (
	"context"
	"errors"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettingsService reads and writes the finance configuration of a club
type SettingsService struct {
	settingsRepo finance.SettingsRepository
	chartRepo    finance.ChartAccountRepository
	cashBoxRepo  finance.CashBoxRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	settingsRepo finance.SettingsRepository,
	chartRepo finance.ChartAccountRepository,
	cashBoxRepo finance.CashBoxRepository,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		chartRepo:    chartRepo,
		cashBoxRepo:  cashBoxRepo,
	}
}

// ===================== Settings DTOs =====================

// UpdateSettingsRequest replaces the finance configuration
type UpdateSettingsRequest struct {
	DuesRevenueAccountID     *uuid.UUID      `json:"dues_revenue_account_id"`
	InterestRevenueAccountID *uuid.UUID      `json:"interest_revenue_account_id"`
	DefaultCashBoxID         *uuid.UUID      `json:"default_cash_box_id"`
	MonthlyInterestRate      decimal.Decimal `json:"monthly_interest_rate"`
	LateFeePercent           decimal.Decimal `json:"late_fee_percent"`
	GraceDays                int             `json:"grace_days" binding:"min=0,max=60"`
}

// SettingsResponse represents the finance configuration in API responses
type SettingsResponse struct {
	DuesRevenueAccountID     *uuid.UUID      `json:"dues_revenue_account_id"`
	InterestRevenueAccountID *uuid.UUID      `json:"interest_revenue_account_id"`
	DefaultCashBoxID         *uuid.UUID      `json:"default_cash_box_id"`
	MonthlyInterestRate      decimal.Decimal `json:"monthly_interest_rate"`
	LateFeePercent           decimal.Decimal `json:"late_fee_percent"`
	GraceDays                int             `json:"grace_days"`
	// SettlementReady tells whether dues can be settled with this configuration
	SettlementReady bool      `json:"settlement_ready"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toSettingsResponse(s *finance.TenantSettings) *SettingsResponse {
	_, missing := s.RequireSettlementAccounts()
	return &SettingsResponse{
		DuesRevenueAccountID:     s.DuesRevenueAccountID,
		InterestRevenueAccountID: s.InterestRevenueAccountID,
		DefaultCashBoxID:         s.DefaultCashBoxID,
		MonthlyInterestRate:      s.MonthlyInterestRate,
		LateFeePercent:           s.LateFeePercent,
		GraceDays:                s.GraceDays,
		SettlementReady:          missing == nil,
		UpdatedAt:                s.UpdatedAt,
	}
}

// ===================== Settings Operations =====================

// Get returns the settings of the tenant; a tenant that never saved any gets empty settings
func (s *SettingsService) Get(ctx context.Context, tenantID uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// Update validates every reference against the tenant and saves the settings
func (s *SettingsService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	v := &shared.ValidationError{}
	if err := s.checkRevenueAccount(ctx, tenantID, req.DuesRevenueAccountID, "dues_revenue_account_id", v); err != nil {
		return nil, err
	}
	if err := s.checkRevenueAccount(ctx, tenantID, req.InterestRevenueAccountID, "interest_revenue_account_id", v); err != nil {
		return nil, err
	}
	if req.DefaultCashBoxID != nil {
		box, err := s.cashBoxRepo.FindByIDForTenant(ctx, tenantID, *req.DefaultCashBoxID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			v.Add("default_cash_box_id", "Cash box not found")
		case err != nil:
			return nil, err
		case !box.Active:
			v.Add("default_cash_box_id", "Cash box is inactive")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := settings.SetRates(req.MonthlyInterestRate, req.LateFeePercent, req.GraceDays); err != nil {
		return nil, err
	}
	settings.MapAccounts(req.DuesRevenueAccountID, req.InterestRevenueAccountID, req.DefaultCashBoxID)
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// checkRevenueAccount adds a field error unless id is empty or names an active
// posting revenue account of the tenant
func (s *SettingsService) checkRevenueAccount(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID, field string, v *shared.ValidationError) error {
	if id == nil {
		return nil
	}
	account, err := s.chartRepo.FindByIDForTenant(ctx, tenantID, *id)
	if errors.Is(err, shared.ErrNotFound) {
		v.Add(field, "Chart account not found")
		return nil
	}
	if err != nil {
		return err
	}
	if account.Kind != finance.ChartAccountKindRevenue {
		v.Add(field, "Must be a revenue account")
	} else if err := account.EnsurePostable(); err != nil {
		v.Add(field, err.Error())
	}
	return nil
}

func (s *SettingsService) load(ctx context.Context, tenantID uuid.UUID) (*finance.TenantSettings, error) {
	settings, err := s.settingsRepo.FindForTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return finance.NewTenantSettings(tenantID), nil
	}
	return settings, err
}
