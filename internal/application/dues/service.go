package dues

import (
	"context"
	"errors"
	"time"

	"github.com/clube/backend/internal/application/calendar"
	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metrics receives the outcome of dues engine operations
type Metrics interface {
	RecordGeneration(ctx context.Context, tenantID uuid.UUID, created, ignored int)
	RecordSettlement(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal)
	RecordOverdue(ctx context.Context, tenantID uuid.UUID, updated int64)
}

// DuesService runs the dues engine: generation, overdue refresh and settlement
type DuesService struct {
	duesRepo         dues.DuesRepository
	billable         dues.BillableMemberSource
	memberRepo       membership.MemberRepository
	categoryRepo     membership.CategoryRepository
	cashBoxRepo      finance.CashBoxRepository
	chartRepo        finance.ChartAccountRepository
	ledgerRepo       finance.LedgerEntryRepository
	settingsRepo     finance.SettingsRepository
	txManager        shared.TransactionManager
	calendar         calendar.Calendar
	eventPublisher   shared.EventPublisher
	metrics          Metrics
	logger           *zap.Logger
	defaultLookahead int
}

// DuesServiceConfig holds the dependencies of the dues service
type DuesServiceConfig struct {
	DuesRepo     dues.DuesRepository
	Billable     dues.BillableMemberSource
	MemberRepo   membership.MemberRepository
	CategoryRepo membership.CategoryRepository
	CashBoxRepo  finance.CashBoxRepository
	ChartRepo    finance.ChartAccountRepository
	LedgerRepo   finance.LedgerEntryRepository
	SettingsRepo finance.SettingsRepository
	TxManager    shared.TransactionManager
	Calendar     calendar.Calendar
	Metrics      Metrics
	Logger       *zap.Logger
	// DefaultLookahead is used when a generation request leaves Months empty
	DefaultLookahead int
}

// NewDuesService creates a new DuesService
func NewDuesService(cfg DuesServiceConfig) *DuesService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lookahead := cfg.DefaultLookahead
	if lookahead == 0 {
		lookahead = dues.DefaultLookahead
	}
	return &DuesService{
		duesRepo:         cfg.DuesRepo,
		billable:         cfg.Billable,
		memberRepo:       cfg.MemberRepo,
		categoryRepo:     cfg.CategoryRepo,
		cashBoxRepo:      cfg.CashBoxRepo,
		chartRepo:        cfg.ChartRepo,
		ledgerRepo:       cfg.LedgerRepo,
		settingsRepo:     cfg.SettingsRepo,
		txManager:        cfg.TxManager,
		calendar:         cfg.Calendar,
		metrics:          cfg.Metrics,
		logger:           logger.Named("dues"),
		defaultLookahead: lookahead,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DuesService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Generate creates the missing records of the current month and the next Months-1
// months for every active member. The whole run is one transaction.
func (s *DuesService) Generate(ctx context.Context, tenantID uuid.UUID, req GenerateDuesRequest) (*GenerateDuesResponse, error) {
	months := req.Months
	if months == 0 {
		months = s.defaultLookahead
	}
	if err := dues.ValidateLookahead(months); err != nil {
		return nil, err
	}

	today := s.calendar.Today(ctx, tenantID)
	periods := dues.UpcomingPeriods(dues.PeriodOf(today), months)

	var result dues.GenerationResult
	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.TenantOperation(tenantID.String(), "dues.generate"), func(c context.Context) {
		err = s.txManager.WithinTransaction(c, func(txCtx context.Context) error {
			members, err := s.billable.ListBillable(txCtx, tenantID, req.AffiliationID)
			if err != nil {
				return err
			}
			existing, err := s.duesRepo.ExistingForPeriods(txCtx, tenantID, periods)
			if err != nil {
				return err
			}
			plan, err := dues.PlanGeneration(tenantID, periods, members, existing)
			if err != nil {
				return err
			}
			if err := s.duesRepo.CreateBatch(txCtx, plan.Records); err != nil {
				return err
			}
			result = dues.GenerationResult{Created: len(plan.Records), Ignored: plan.Ignored, Periods: periods}
			return nil
		})
	})
	if err != nil {
		s.logger.Error("Dues generation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("months", months),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Dues generated",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("created", result.Created),
		zap.Int("ignored", result.Ignored))
	if s.metrics != nil {
		s.metrics.RecordGeneration(ctx, tenantID, result.Created, result.Ignored)
	}
	if result.Created > 0 && s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, dues.NewDuesGeneratedEvent(tenantID, result)); err != nil {
			s.logger.Warn("Failed to publish dues generated event", zap.Error(err))
		}
	}

	resp := &GenerateDuesResponse{Created: result.Created, Ignored: result.Ignored}
	for _, p := range periods {
		resp.Periods = append(resp.Periods, p.String())
	}
	return resp, nil
}

// RefreshOverdue moves pending records past their due date to overdue
func (s *DuesService) RefreshOverdue(ctx context.Context, tenantID uuid.UUID) (*RefreshOverdueResponse, error) {
	updated, err := s.duesRepo.MarkOverdue(ctx, tenantID, s.calendar.Today(ctx, tenantID))
	if err != nil {
		return nil, err
	}
	if updated > 0 {
		s.logger.Info("Dues marked overdue",
			zap.String("tenant_id", tenantID.String()),
			zap.Int64("updated", updated))
		if s.metrics != nil {
			s.metrics.RecordOverdue(ctx, tenantID, updated)
		}
	}
	return &RefreshOverdueResponse{Updated: updated}, nil
}

// Settle pays a record: the record becomes paid and its ledger entries are posted
// in the same transaction, holding a row lock on the record.
func (s *DuesService) Settle(ctx context.Context, tenantID, id uuid.UUID, req SettleDuesRequest) (*DuesResponse, error) {
	settings, err := s.loadSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	accounts, err := settings.RequireSettlementAccounts()
	if err != nil {
		return nil, err
	}
	cashBoxID, err := settings.ResolveCashBox(req.CashBoxID)
	if err != nil {
		return nil, err
	}

	today := s.calendar.Today(ctx, tenantID)
	in := dues.SettlementInput{
		PaymentDate: today,
		Interest:    decimal.Zero,
		Discount:    decimal.Zero,
	}
	if req.PaymentDate != nil {
		in.PaymentDate = *req.PaymentDate
	}
	if req.Interest != nil {
		in.Interest = *req.Interest
	}
	if req.Discount != nil {
		in.Discount = *req.Discount
	}

	var record *dues.DuesRecord
	var settlement *dues.Settlement
	telemetry.WithProfilingLabels(ctx, telemetry.TenantOperation(tenantID.String(), "dues.settle"), func(c context.Context) {
		err = s.txManager.WithinTransaction(c, func(txCtx context.Context) error {
			record, err = s.duesRepo.FindByIDForUpdate(txCtx, tenantID, id)
			if err != nil {
				return err
			}
			in.CashBox, err = s.cashBoxRepo.FindByIDForTenant(txCtx, tenantID, cashBoxID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Cash box")
			}
			if err != nil {
				return err
			}
			if in.DuesAccount, err = s.mappedAccount(txCtx, tenantID, accounts.DuesRevenueAccountID, "dues revenue"); err != nil {
				return err
			}
			if in.InterestAccount, err = s.mappedAccount(txCtx, tenantID, accounts.InterestRevenueAccountID, "interest revenue"); err != nil {
				return err
			}

			settlement, err = record.Settle(in)
			if err != nil {
				return err
			}
			if err := s.ledgerRepo.Create(txCtx, settlement.Entries()...); err != nil {
				return err
			}
			return s.duesRepo.SaveWithLock(txCtx, record)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dues settled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("dues_id", id.String()),
		zap.String("period", record.Period.String()),
		zap.String("total", record.TotalDue().StringFixed(2)))
	if s.metrics != nil {
		s.metrics.RecordSettlement(ctx, tenantID, record.TotalDue())
	}
	aggregates := []shared.AggregateRoot{record}
	for _, entry := range settlement.Entries() {
		aggregates = append(aggregates, entry)
	}
	s.publish(ctx, aggregates...)

	resp := ToDuesResponse(record, today)
	return &resp, nil
}

// mappedAccount loads a chart account referenced by the tenant settings.
// A dangling mapping is a configuration problem, not a missing resource.
func (s *DuesService) mappedAccount(ctx context.Context, tenantID, id uuid.UUID, purpose string) (*finance.ChartAccount, error) {
	account, err := s.chartRepo.FindByIDForTenant(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewConfigurationError("The " + purpose + " account configured for this club no longer exists")
	}
	return account, err
}

func (s *DuesService) loadSettings(ctx context.Context, tenantID uuid.UUID) (*finance.TenantSettings, error) {
	settings, err := s.settingsRepo.FindForTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return settings, err
}

// Cancel cancels an open record
func (s *DuesService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelDuesRequest) (*DuesResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *dues.DuesRecord) error {
		return r.Cancel(req.Reason)
	})
}

// Reopen returns a canceled record to pending
func (s *DuesService) Reopen(ctx context.Context, tenantID, id uuid.UUID) (*DuesResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *dues.DuesRecord) error {
		return r.Reopen()
	})
}

// Update changes amount, due date and notes of an open record
func (s *DuesService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateDuesRequest) (*DuesResponse, error) {
	today := s.calendar.Today(ctx, tenantID)
	return s.mutate(ctx, tenantID, id, func(r *dues.DuesRecord) error {
		return r.UpdateCharge(req.Amount, req.DueDate, req.Notes, today)
	})
}

func (s *DuesService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*dues.DuesRecord) error) (*DuesResponse, error) {
	record, err := s.duesRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(record); err != nil {
		return nil, err
	}
	if err := s.duesRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	s.publish(ctx, record)

	resp := ToDuesResponse(record, s.calendar.Today(ctx, tenantID))
	return &resp, nil
}

// CreateManual creates a record for one member and period outside of generation
func (s *DuesService) CreateManual(ctx context.Context, tenantID uuid.UUID, req CreateDuesRequest) (*DuesResponse, error) {
	period, err := dues.ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, req.MemberID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("Member")
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.duesRepo.ExistsForMemberPeriod(ctx, tenantID, member.ID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Dues for "+period.String()+" already exist for this member")
	}

	amount, dueDate := decimal.Zero, time.Time{}
	if req.Amount != nil {
		amount = *req.Amount
	}
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	if req.Amount == nil || req.DueDate == nil {
		category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, member.CategoryID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if category != nil {
			if req.Amount == nil {
				amount = category.MonthlyFee
			}
			if req.DueDate == nil {
				dueDate = period.DueDate(category.DueDay)
			}
		}
	}

	record, err := dues.NewDuesRecord(tenantID, member.ID, period, amount, dueDate, dues.OriginManual)
	if err != nil {
		return nil, err
	}
	record.Notes = req.Notes
	if req.CreatedBy != nil {
		record.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.duesRepo.CreateBatch(ctx, []*dues.DuesRecord{record}); err != nil {
		return nil, err
	}

	resp := ToDuesResponse(record, s.calendar.Today(ctx, tenantID))
	resp.withMember(member)
	return &resp, nil
}

// Delete removes a record that was never paid
func (s *DuesService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	record, err := s.duesRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := record.EnsureDeletable(); err != nil {
		return err
	}
	return s.duesRepo.DeleteForTenant(ctx, tenantID, id)
}

// GetByID returns a record with its derived values and the interest suggested
// by the club's late payment policy
func (s *DuesService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DuesResponse, error) {
	record, err := s.duesRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	today := s.calendar.Today(ctx, tenantID)
	// status is evaluated on read too, the bulk refresh may not have run yet today
	record.MarkOverdue(today)

	resp := ToDuesResponse(record, today)
	if record.Status.IsOpen() {
		settings, err := s.loadSettings(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		suggested := settings.SuggestedInterest(record.Amount, resp.DaysOverdue)
		resp.SuggestedInterest = &suggested
	}

	member, err := s.memberRepo.FindByIDForTenant(ctx, tenantID, record.MemberID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	resp.withMember(member)
	return &resp, nil
}

// List refreshes overdue status and returns a page of records
func (s *DuesService) List(ctx context.Context, tenantID uuid.UUID, filter DuesListFilter) (*shared.Paginated[DuesResponse], error) {
	if _, err := s.RefreshOverdue(ctx, tenantID); err != nil {
		return nil, err
	}

	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, err
	}
	records, err := s.duesRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.duesRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	members, err := s.membersByID(ctx, tenantID, records)
	if err != nil {
		return nil, err
	}
	today := s.calendar.Today(ctx, tenantID)
	items := make([]DuesResponse, len(records))
	for i := range records {
		items[i] = ToDuesResponse(&records[i], today)
		items[i].withMember(members[records[i].MemberID])
	}

	f := domainFilter.Normalize()
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

func (s *DuesService) membersByID(ctx context.Context, tenantID uuid.UUID, records []dues.DuesRecord) (map[uuid.UUID]*membership.Member, error) {
	out := make(map[uuid.UUID]*membership.Member)
	if len(records) == 0 {
		return out, nil
	}
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(records))
	for _, r := range records {
		if !seen[r.MemberID] {
			seen[r.MemberID] = true
			ids = append(ids, r.MemberID)
		}
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

func toDomainFilter(f DuesListFilter) (dues.DuesFilter, error) {
	out := dues.DuesFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			Search:   f.Search,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		},
		MemberID: f.MemberID,
	}
	if f.Status != "" {
		status, err := finance.ParseObligationStatus(f.Status)
		if err != nil {
			return out, err
		}
		out.Status = &status
	}
	if f.PeriodFrom != "" {
		p, err := dues.ParsePeriod(f.PeriodFrom)
		if err != nil {
			return out, err
		}
		out.PeriodFrom = &p
	}
	if f.PeriodTo != "" {
		p, err := dues.ParsePeriod(f.PeriodTo)
		if err != nil {
			return out, err
		}
		out.PeriodTo = &p
	}
	return out, nil
}

func (s *DuesService) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, aggregates...); err != nil {
		s.logger.Warn("Failed to publish dues events", zap.Error(err))
	}
}
