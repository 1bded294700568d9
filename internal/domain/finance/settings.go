package finance

import (
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	daysPerMonth  = decimal.NewFromInt(30)
	maxPercentage = decimal.NewFromInt(100)
)

// TenantSettings is the typed finance configuration of one tenant.
// Settlement cannot run until both revenue mappings are present.
type TenantSettings struct {
	TenantID                 uuid.UUID
	DuesRevenueAccountID     *uuid.UUID
	InterestRevenueAccountID *uuid.UUID
	DefaultCashBoxID         *uuid.UUID
	// MonthlyInterestRate is a percentage applied pro rata per day of delay
	MonthlyInterestRate decimal.Decimal
	// LateFeePercent is a one-off percentage charged once the grace period ends
	LateFeePercent decimal.Decimal
	GraceDays      int
	UpdatedAt      time.Time
}

// SettlementAccounts holds the resolved chart-of-accounts mappings used by settle
type SettlementAccounts struct {
	DuesRevenueAccountID     uuid.UUID
	InterestRevenueAccountID uuid.UUID
}

// NewTenantSettings returns empty settings for a tenant
func NewTenantSettings(tenantID uuid.UUID) *TenantSettings {
	return &TenantSettings{
		TenantID:            tenantID,
		MonthlyInterestRate: decimal.Zero,
		LateFeePercent:      decimal.Zero,
		UpdatedAt:           time.Now(),
	}
}

// RequireSettlementAccounts returns the mappings or a configuration error naming the
// missing one. It never mutates anything.
func (s *TenantSettings) RequireSettlementAccounts() (SettlementAccounts, error) {
	if s == nil || s.DuesRevenueAccountID == nil || *s.DuesRevenueAccountID == uuid.Nil {
		return SettlementAccounts{}, shared.NewConfigurationError("The dues revenue account is not configured for this club")
	}
	if s.InterestRevenueAccountID == nil || *s.InterestRevenueAccountID == uuid.Nil {
		return SettlementAccounts{}, shared.NewConfigurationError("The interest revenue account is not configured for this club")
	}
	return SettlementAccounts{
		DuesRevenueAccountID:     *s.DuesRevenueAccountID,
		InterestRevenueAccountID: *s.InterestRevenueAccountID,
	}, nil
}

// ResolveCashBox picks the explicit cash box or falls back to the default one
func (s *TenantSettings) ResolveCashBox(explicit *uuid.UUID) (uuid.UUID, error) {
	if explicit != nil && *explicit != uuid.Nil {
		return *explicit, nil
	}
	if s != nil && s.DefaultCashBoxID != nil && *s.DefaultCashBoxID != uuid.Nil {
		return *s.DefaultCashBoxID, nil
	}
	return uuid.Nil, shared.NewConfigurationError("No cash box informed and no default cash box is configured")
}

// SetRates updates the interest policy
func (s *TenantSettings) SetRates(monthlyInterestRate, lateFeePercent decimal.Decimal, graceDays int) error {
	v := &shared.ValidationError{}
	if monthlyInterestRate.IsNegative() || monthlyInterestRate.GreaterThan(maxPercentage) {
		v.Add("monthly_interest_rate", "Must be between 0 and 100")
	}
	if lateFeePercent.IsNegative() || lateFeePercent.GreaterThan(maxPercentage) {
		v.Add("late_fee_percent", "Must be between 0 and 100")
	}
	if graceDays < 0 || graceDays > 60 {
		v.Add("grace_days", "Must be between 0 and 60")
	}
	if err := v.Err(); err != nil {
		return err
	}
	s.MonthlyInterestRate = monthlyInterestRate
	s.LateFeePercent = lateFeePercent
	s.GraceDays = graceDays
	s.UpdatedAt = time.Now()
	return nil
}

// MapAccounts sets the chart-of-accounts mappings after the caller validated them
func (s *TenantSettings) MapAccounts(duesRevenue, interestRevenue, defaultCashBox *uuid.UUID) {
	s.DuesRevenueAccountID = duesRevenue
	s.InterestRevenueAccountID = interestRevenue
	s.DefaultCashBoxID = defaultCashBox
	s.UpdatedAt = time.Now()
}

// SuggestedInterest computes late charges for amount after daysOverdue days:
// late fee percent once past the grace period plus the monthly rate pro rata per day.
func (s *TenantSettings) SuggestedInterest(amount decimal.Decimal, daysOverdue int) decimal.Decimal {
	if s == nil || daysOverdue <= s.GraceDays || !amount.IsPositive() {
		return decimal.Zero
	}
	fee := amount.Mul(s.LateFeePercent).Div(hundred)
	daily := amount.Mul(s.MonthlyInterestRate).Div(hundred).Div(daysPerMonth)
	interest := daily.Mul(decimal.NewFromInt(int64(daysOverdue)))
	return fee.Add(interest).Round(2)
}
