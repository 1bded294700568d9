package report

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardMonths  = 6
	dashboardRecent  = 5
	dashboardOverdue = 10
)

// MonthlyRevenue is the paid dues of one payment month
type MonthlyRevenue struct {
	Period string          `json:"period"`
	Total  decimal.Decimal `json:"total"`
}

// DashboardDues is a dues record shown on the dashboard with its member
type DashboardDues struct {
	DuesID             uuid.UUID       `json:"dues_id"`
	MemberID           uuid.UUID       `json:"member_id"`
	MemberName         string          `json:"member_name"`
	RegistrationNumber string          `json:"registration_number"`
	Period             string          `json:"period"`
	Amount             decimal.Decimal `json:"amount"`
	DueDate            time.Time       `json:"due_date"`
	PaymentDate        *time.Time      `json:"payment_date,omitempty"`
	DaysOverdue        int             `json:"days_overdue"`
}

// Dashboard is the home screen summary of a club
type Dashboard struct {
	Today           time.Time        `json:"today"`
	ActiveMembers   int64            `json:"active_members"`
	MonthRevenue    decimal.Decimal  `json:"month_revenue"`
	OpenDues        int64            `json:"open_dues"`
	DelinquencyRate decimal.Decimal  `json:"delinquency_rate"`
	RevenueByMonth  []MonthlyRevenue `json:"revenue_by_month"`
	RecentPayments  []DashboardDues  `json:"recent_payments"`
	OldestOverdue   []DashboardDues  `json:"oldest_overdue"`
}

// Dashboard refreshes overdue statuses and summarizes members and dues.
// The delinquency rate is overdue records over every record ever billed, in percent.
func (s *ReportService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*Dashboard, error) {
	today, err := s.refreshOverdue(ctx, tenantID, "dashboard")
	if err != nil {
		return nil, err
	}
	current := dues.PeriodOf(today)

	active := membership.MemberStatusActive
	activeMembers, err := s.memberRepo.CountForTenant(ctx, tenantID, membership.MemberFilter{Status: &active})
	if err != nil {
		return nil, err
	}

	pending, err := s.countDues(ctx, tenantID, finance.StatusPending)
	if err != nil {
		return nil, err
	}
	overdue, err := s.countDues(ctx, tenantID, finance.StatusOverdue)
	if err != nil {
		return nil, err
	}
	billed, err := s.duesRepo.CountForTenant(ctx, tenantID, dues.DuesFilter{})
	if err != nil {
		return nil, err
	}

	paid := finance.StatusPaid
	monthRevenue := decimal.Zero
	err = s.eachDues(ctx, tenantID, dues.DuesFilter{Status: &paid, PeriodFrom: &current, PeriodTo: &current}, func(r *dues.DuesRecord) {
		monthRevenue = monthRevenue.Add(r.Amount)
	})
	if err != nil {
		return nil, err
	}

	first := current.AddMonths(1 - dashboardMonths)
	series := make([]MonthlyRevenue, dashboardMonths)
	index := make(map[dues.Period]int, dashboardMonths)
	for i := range series {
		p := first.AddMonths(i)
		series[i] = MonthlyRevenue{Period: p.String(), Total: decimal.Zero}
		index[p] = i
	}
	paidFrom := first.FirstDay()
	err = s.eachDues(ctx, tenantID, dues.DuesFilter{Status: &paid, PaidFrom: &paidFrom}, func(r *dues.DuesRecord) {
		if r.PaymentDate == nil {
			return
		}
		if i, ok := index[dues.PeriodOf(*r.PaymentDate)]; ok {
			series[i].Total = series[i].Total.Add(r.Amount)
		}
	})
	if err != nil {
		return nil, err
	}

	recent, err := s.duesRepo.FindAllForTenant(ctx, tenantID, dues.DuesFilter{
		Filter: shared.Filter{Page: 1, PageSize: dashboardRecent, OrderBy: "payment_date", OrderDir: "desc"},
		Status: &paid,
	})
	if err != nil {
		return nil, err
	}
	overdueStatus := finance.StatusOverdue
	oldest, err := s.duesRepo.FindAllForTenant(ctx, tenantID, dues.DuesFilter{
		Filter: shared.Filter{Page: 1, PageSize: dashboardOverdue, OrderBy: "due_date", OrderDir: "asc"},
		Status: &overdueStatus,
	})
	if err != nil {
		return nil, err
	}
	members, err := s.membersOf(ctx, tenantID, recent, oldest)
	if err != nil {
		return nil, err
	}

	rate := decimal.Zero
	if billed > 0 {
		rate = decimal.NewFromInt(overdue).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(billed)).Round(2)
	}
	return &Dashboard{
		Today:           today,
		ActiveMembers:   activeMembers,
		MonthRevenue:    monthRevenue,
		OpenDues:        pending + overdue,
		DelinquencyRate: rate,
		RevenueByMonth:  series,
		RecentPayments:  toDashboardDues(recent, members, today),
		OldestOverdue:   toDashboardDues(oldest, members, today),
	}, nil
}

// refreshOverdue moves past-due pending dues to overdue and returns the tenant's today
func (s *ReportService) refreshOverdue(ctx context.Context, tenantID uuid.UUID, reason string) (time.Time, error) {
	today := s.calendar.Today(ctx, tenantID)
	updated, err := s.duesRepo.MarkOverdue(ctx, tenantID, today)
	if err != nil {
		return today, err
	}
	if updated > 0 {
		s.logger.Info("Dues marked overdue before report",
			zap.String("tenant_id", tenantID.String()),
			zap.String("report", reason),
			zap.Int64("updated", updated))
	}
	return today, nil
}

func (s *ReportService) countDues(ctx context.Context, tenantID uuid.UUID, status finance.ObligationStatus) (int64, error) {
	return s.duesRepo.CountForTenant(ctx, tenantID, dues.DuesFilter{Status: &status})
}

func (s *ReportService) eachDues(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter, fn func(*dues.DuesRecord)) error {
	for page := 1; ; page++ {
		filter.Filter = shared.Filter{Page: page, PageSize: batchSize, OrderBy: "due_date", OrderDir: "asc"}
		records, err := s.duesRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		for i := range records {
			fn(&records[i])
		}
		if len(records) < batchSize {
			return nil
		}
	}
}

func (s *ReportService) membersOf(ctx context.Context, tenantID uuid.UUID, lists ...[]dues.DuesRecord) (map[uuid.UUID]*membership.Member, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, list := range lists {
		for i := range list {
			if _, ok := seen[list[i].MemberID]; !ok {
				seen[list[i].MemberID] = struct{}{}
				ids = append(ids, list[i].MemberID)
			}
		}
	}
	out := make(map[uuid.UUID]*membership.Member, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	members, err := s.memberRepo.FindByIDsForTenant(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for i := range members {
		out[members[i].ID] = &members[i]
	}
	return out, nil
}

func toDashboardDues(records []dues.DuesRecord, members map[uuid.UUID]*membership.Member, today time.Time) []DashboardDues {
	out := make([]DashboardDues, len(records))
	for i := range records {
		r := &records[i]
		out[i] = DashboardDues{
			DuesID:      r.ID,
			MemberID:    r.MemberID,
			Period:      r.Period.String(),
			Amount:      r.Amount,
			DueDate:     r.DueDate,
			PaymentDate: r.PaymentDate,
			DaysOverdue: r.DaysOverdue(today),
		}
		if m, ok := members[r.MemberID]; ok {
			out[i].MemberName = m.Name
			out[i].RegistrationNumber = m.RegistrationNumber
		}
	}
	return out
}
