package report

import (
	"context"
	"errors"
	"time"

	"github.com/clube/backend/internal/application/calendar"
	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// batchSize is the page size used when a report reads every matching row
const batchSize = 100

// ReportService builds the financial reports of a club
type ReportService struct {
	ledgerRepo   finance.LedgerEntryRepository
	cashBoxRepo  finance.CashBoxRepository
	chartRepo    finance.ChartAccountRepository
	accountRepo  finance.AccountRepository
	settingsRepo finance.SettingsRepository
	duesRepo     dues.DuesRepository
	memberRepo   membership.MemberRepository
	calendar     calendar.Calendar
	logger       *zap.Logger
}

// ReportServiceConfig holds the dependencies of the report service
type ReportServiceConfig struct {
	LedgerRepo   finance.LedgerEntryRepository
	CashBoxRepo  finance.CashBoxRepository
	ChartRepo    finance.ChartAccountRepository
	AccountRepo  finance.AccountRepository
	SettingsRepo finance.SettingsRepository
	DuesRepo     dues.DuesRepository
	MemberRepo   membership.MemberRepository
	Calendar     calendar.Calendar
	Logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(cfg ReportServiceConfig) *ReportService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		ledgerRepo:   cfg.LedgerRepo,
		cashBoxRepo:  cfg.CashBoxRepo,
		chartRepo:    cfg.ChartRepo,
		accountRepo:  cfg.AccountRepo,
		settingsRepo: cfg.SettingsRepo,
		duesRepo:     cfg.DuesRepo,
		memberRepo:   cfg.MemberRepo,
		calendar:     cfg.Calendar,
		logger:       logger.Named("reports"),
	}
}

// DateRange is a closed interval of calendar days
type DateRange struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

func (r DateRange) validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return shared.NewValidationError("from", "Both from and to are required")
	}
	if r.To.Before(r.From) {
		return shared.NewValidationError("to", "End date must not be before start date")
	}
	return nil
}

// ===================== Cash Flow =====================

// CashFlowFilter selects one cash box over a date range
type CashFlowFilter struct {
	DateRange
	CashBoxID uuid.UUID `form:"cash_box_id" binding:"required"`
}

// CashFlowRow is one movement with the balance after it
type CashFlowRow struct {
	EntryID        uuid.UUID       `json:"entry_id"`
	EntryDate      time.Time       `json:"entry_date"`
	Description    string          `json:"description"`
	ChartAccount   string          `json:"chart_account,omitempty"`
	Source         string          `json:"source"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// CashFlowReport is the statement of one cash box
type CashFlowReport struct {
	CashBoxID      uuid.UUID       `json:"cash_box_id"`
	CashBoxName    string          `json:"cash_box_name"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	Rows           []CashFlowRow   `json:"rows"`
	TotalInflow    decimal.Decimal `json:"total_inflow"`
	TotalOutflow   decimal.Decimal `json:"total_outflow"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// CashFlow returns the movement of a cash box with running balances
func (s *ReportService) CashFlow(ctx context.Context, tenantID uuid.UUID, filter CashFlowFilter) (*CashFlowReport, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	box, err := s.cashBoxRepo.FindByIDForTenant(ctx, tenantID, filter.CashBoxID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Cash box")
		}
		return nil, err
	}
	from, to := finance.DateOnly(filter.From), finance.DateOnly(filter.To)

	before, err := s.ledgerRepo.SumBefore(ctx, tenantID, box.ID, from)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindInRange(ctx, tenantID, box.ID, from, to)
	if err != nil {
		return nil, err
	}
	names, err := s.chartNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	st := finance.BuildCashFlowStatement(box, from, to, before, entries)
	report := &CashFlowReport{
		CashBoxID:      box.ID,
		CashBoxName:    box.Name,
		From:           st.From,
		To:             st.To,
		OpeningBalance: st.OpeningBalance,
		BalanceBefore:  st.BalanceBefore,
		Rows:           make([]CashFlowRow, len(st.Rows)),
		TotalInflow:    st.TotalInflow,
		TotalOutflow:   st.TotalOutflow,
		ClosingBalance: st.ClosingBalance,
	}
	for i, row := range st.Rows {
		report.Rows[i] = CashFlowRow{
			EntryID:        row.EntryID,
			EntryDate:      row.EntryDate,
			Description:    row.Description,
			Source:         string(row.Source),
			Amount:         row.Amount,
			RunningBalance: row.RunningBalance,
		}
		if row.ChartAccountID != nil {
			report.Rows[i].ChartAccount = names[*row.ChartAccountID]
		}
	}
	return report, nil
}

func (s *ReportService) chartNames(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for page := 1; ; page++ {
		accounts, err := s.chartRepo.FindAllForTenant(ctx, tenantID, finance.ChartAccountFilter{
			Filter: shared.Filter{Page: page, PageSize: batchSize, OrderBy: "code", OrderDir: "asc"},
		})
		if err != nil {
			return nil, err
		}
		for i := range accounts {
			names[accounts[i].ID] = accounts[i].DisplayName()
		}
		if len(accounts) < batchSize {
			return names, nil
		}
	}
}

// ===================== Income Statement =====================

// IncomeLine is the total of one chart account
type IncomeLine struct {
	ChartAccountID *uuid.UUID      `json:"chart_account_id,omitempty"`
	Name           string          `json:"name"`
	Total          decimal.Decimal `json:"total"`
}

// IncomeStatementReport is the simple DRE of a date range
type IncomeStatementReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenues      []IncomeLine    `json:"revenues"`
	Expenses      []IncomeLine    `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Result        decimal.Decimal `json:"result"`
}

// IncomeStatement groups the ledger of a date range by chart account
func (s *ReportService) IncomeStatement(ctx context.Context, tenantID uuid.UUID, filter DateRange) (*IncomeStatementReport, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	from, to := finance.DateOnly(filter.From), finance.DateOnly(filter.To)
	positives, err := s.ledgerRepo.SumByChartAccount(ctx, tenantID, from, to, true)
	if err != nil {
		return nil, err
	}
	negatives, err := s.ledgerRepo.SumByChartAccount(ctx, tenantID, from, to, false)
	if err != nil {
		return nil, err
	}

	st := finance.BuildIncomeStatement(from, to, positives, negatives)
	return &IncomeStatementReport{
		From:          st.From,
		To:            st.To,
		Revenues:      toIncomeLines(st.Revenues),
		Expenses:      toIncomeLines(st.Expenses),
		TotalRevenue:  st.TotalRevenue,
		TotalExpenses: st.TotalExpenses,
		Result:        st.Result,
	}, nil
}

func toIncomeLines(totals []finance.ChartAccountTotal) []IncomeLine {
	lines := make([]IncomeLine, len(totals))
	for i, t := range totals {
		name := t.Name
		if t.ChartAccountID == nil {
			name = "Sem classificação"
		}
		lines[i] = IncomeLine{ChartAccountID: t.ChartAccountID, Name: name, Total: t.Total}
	}
	return lines
}

// ===================== Delinquency =====================

// DelinquencyFilter optionally restricts the report to one month
type DelinquencyFilter struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// DelinquencyRow is one unpaid dues record
type DelinquencyRow struct {
	DuesID             uuid.UUID       `json:"dues_id"`
	MemberID           uuid.UUID       `json:"member_id"`
	MemberName         string          `json:"member_name"`
	RegistrationNumber string          `json:"registration_number"`
	Period             string          `json:"period"`
	DueDate            time.Time       `json:"due_date"`
	Status             string          `json:"status"`
	Amount             decimal.Decimal `json:"amount"`
	DaysOverdue        int             `json:"days_overdue"`
	SuggestedInterest  decimal.Decimal `json:"suggested_interest"`
}

// DelinquencyReport lists open dues with totals
type DelinquencyReport struct {
	Period         string           `json:"period,omitempty"`
	Today          time.Time        `json:"today"`
	Rows           []DelinquencyRow `json:"rows"`
	MemberCount    int              `json:"member_count"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	TotalInterest  decimal.Decimal  `json:"total_interest"`
	OverdueRecords int              `json:"overdue_records"`
}

// Delinquency refreshes overdue statuses and lists every open dues record
func (s *ReportService) Delinquency(ctx context.Context, tenantID uuid.UUID, filter DelinquencyFilter) (*DelinquencyReport, error) {
	var period *dues.Period
	switch {
	case filter.Month == 0 && filter.Year == 0:
	case filter.Month == 0 || filter.Year == 0:
		return nil, shared.NewValidationError("month", "Month and year must be informed together")
	default:
		p, err := dues.NewPeriod(filter.Year, filter.Month)
		if err != nil {
			return nil, err
		}
		period = &p
	}

	today, err := s.refreshOverdue(ctx, tenantID, "delinquency")
	if err != nil {
		return nil, err
	}

	records, err := s.duesRepo.FindDelinquent(ctx, tenantID, dues.DelinquencyFilter{Period: period})
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.FindForTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	report := &DelinquencyReport{
		Today:         today,
		Rows:          make([]DelinquencyRow, len(records)),
		TotalAmount:   decimal.Zero,
		TotalInterest: decimal.Zero,
	}
	if period != nil {
		report.Period = period.String()
	}
	members := make(map[uuid.UUID]struct{})
	for i := range records {
		r := &records[i].Record
		days := r.DaysOverdue(today)
		interest := settings.SuggestedInterest(r.Amount, days)
		report.Rows[i] = DelinquencyRow{
			DuesID:             r.ID,
			MemberID:           r.MemberID,
			MemberName:         records[i].MemberName,
			RegistrationNumber: records[i].RegistrationNumber,
			Period:             r.Period.String(),
			DueDate:            r.DueDate,
			Status:             r.Status.String(),
			Amount:             r.Amount,
			DaysOverdue:        days,
			SuggestedInterest:  interest,
		}
		members[r.MemberID] = struct{}{}
		report.TotalAmount = report.TotalAmount.Add(r.Amount)
		report.TotalInterest = report.TotalInterest.Add(interest)
		if r.Status == finance.StatusOverdue {
			report.OverdueRecords++
		}
	}
	report.MemberCount = len(members)
	return report, nil
}

// ===================== Accounts =====================

// AccountsFilter selects receivables and payables by due date
type AccountsFilter struct {
	DueFrom *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo   *time.Time `form:"due_to" time_format:"2006-01-02"`
	Kind    string     `form:"kind"`
	Status  string     `form:"status"`
}

// AccountsRow is one account of the report
type AccountsRow struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"due_date"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	TotalDue    decimal.Decimal `json:"total_due"`
	DaysOverdue int             `json:"days_overdue"`
}

// AccountsReport lists accounts with per-kind totals
type AccountsReport struct {
	DueFrom          *time.Time      `json:"due_from,omitempty"`
	DueTo            *time.Time      `json:"due_to,omitempty"`
	Rows             []AccountsRow   `json:"rows"`
	TotalReceivable  decimal.Decimal `json:"total_receivable"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	OpenReceivable   decimal.Decimal `json:"open_receivable"`
	OpenPayable      decimal.Decimal `json:"open_payable"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
}

// Accounts refreshes overdue statuses and lists every matching account by due date
func (s *ReportService) Accounts(ctx context.Context, tenantID uuid.UUID, filter AccountsFilter) (*AccountsReport, error) {
	if filter.DueFrom != nil && filter.DueTo != nil && filter.DueTo.Before(*filter.DueFrom) {
		return nil, shared.NewValidationError("due_to", "End date must not be before start date")
	}
	f := finance.AccountFilter{DueFrom: filter.DueFrom, DueTo: filter.DueTo}
	if filter.Kind != "" {
		kind := finance.AccountKind(filter.Kind)
		if !kind.IsValid() {
			return nil, shared.NewValidationError("kind", "Kind must be RECEIVABLE or PAYABLE")
		}
		f.Kind = &kind
	}
	if filter.Status != "" {
		status, err := finance.ParseObligationStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f.Status = &status
	}

	today := s.calendar.Today(ctx, tenantID)
	if _, err := s.accountRepo.MarkOverdue(ctx, tenantID, today); err != nil {
		return nil, err
	}

	report := &AccountsReport{
		DueFrom:          filter.DueFrom,
		DueTo:            filter.DueTo,
		Rows:             []AccountsRow{},
		TotalReceivable:  decimal.Zero,
		TotalPayable:     decimal.Zero,
		OpenReceivable:   decimal.Zero,
		OpenPayable:      decimal.Zero,
		ProjectedBalance: decimal.Zero,
	}
	for page := 1; ; page++ {
		f.Filter = shared.Filter{Page: page, PageSize: batchSize, OrderBy: "due_date", OrderDir: "asc"}
		accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, f)
		if err != nil {
			return nil, err
		}
		for i := range accounts {
			report.add(&accounts[i], today)
		}
		if len(accounts) < batchSize {
			break
		}
	}
	report.ProjectedBalance = report.OpenReceivable.Sub(report.OpenPayable)
	return report, nil
}

func (r *AccountsReport) add(a *finance.Account, today time.Time) {
	total := a.TotalDue()
	r.Rows = append(r.Rows, AccountsRow{
		ID:          a.ID,
		Kind:        a.Kind.String(),
		Description: a.Description,
		DueDate:     a.DueDate,
		PaymentDate: a.PaymentDate,
		Status:      a.Status.String(),
		Amount:      a.Amount,
		TotalDue:    total,
		DaysOverdue: a.DaysOverdue(today),
	})
	if a.Status == finance.StatusCanceled {
		return
	}
	open := a.Status.IsOpen()
	if a.Kind == finance.AccountKindReceivable {
		r.TotalReceivable = r.TotalReceivable.Add(total)
		if open {
			r.OpenReceivable = r.OpenReceivable.Add(total)
		}
		return
	}
	r.TotalPayable = r.TotalPayable.Add(total)
	if open {
		r.OpenPayable = r.OpenPayable.Add(total)
	}
}
