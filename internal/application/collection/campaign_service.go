package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clube/backend/internal/application/calendar"
	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CampaignServiceConfig holds the collaborators of CampaignService
type CampaignServiceConfig struct {
	TemplateRepo collection.TemplateRepository
	CampaignRepo collection.CampaignRepository
	DispatchRepo collection.DispatchRepository
	DuesRepo     dues.DuesRepository
	MemberRepo   membership.MemberRepository
	TenantRepo   identity.TenantRepository
	Sender       collection.Sender
	Calendar     calendar.Calendar
	TxManager    shared.TransactionManager
	Logger       *zap.Logger
}

// CampaignService manages billing campaigns and runs them
type CampaignService struct {
	templateRepo collection.TemplateRepository
	campaignRepo collection.CampaignRepository
	dispatchRepo collection.DispatchRepository
	duesRepo     dues.DuesRepository
	memberRepo   membership.MemberRepository
	tenantRepo   identity.TenantRepository
	sender       collection.Sender
	calendar     calendar.Calendar
	txManager    shared.TransactionManager
	logger       *zap.Logger
	now          func() time.Time
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(cfg CampaignServiceConfig) *CampaignService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignService{
		templateRepo: cfg.TemplateRepo,
		campaignRepo: cfg.CampaignRepo,
		dispatchRepo: cfg.DispatchRepo,
		duesRepo:     cfg.DuesRepo,
		memberRepo:   cfg.MemberRepo,
		tenantRepo:   cfg.TenantRepo,
		sender:       cfg.Sender,
		calendar:     cfg.Calendar,
		txManager:    cfg.TxManager,
		logger:       logger.Named("collection"),
		now:          time.Now,
	}
}

// Create adds a draft campaign
func (s *CampaignService) Create(ctx context.Context, tenantID uuid.UUID, req CampaignRequest) (*CampaignResponse, error) {
	targets, err := req.targets()
	if err != nil {
		return nil, err
	}
	tmpl, err := s.template(ctx, tenantID, req.TemplateID)
	if err != nil {
		return nil, err
	}
	campaign, err := collection.NewCampaign(tenantID, req.Name, tmpl, targets, req.MinDaysOverdue)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := campaign.Update(req.Name, req.Description, tmpl, targets, req.MinDaysOverdue); err != nil {
			return nil, err
		}
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// GetByID returns a campaign
func (s *CampaignService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// List retrieves a page of campaigns
func (s *CampaignService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[CampaignResponse], error) {
	filter = filter.Normalize()
	campaigns, err := s.campaignRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.campaignRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		items[i] = ToCampaignResponse(&campaigns[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update replaces the campaign filters
func (s *CampaignService) Update(ctx context.Context, tenantID, id uuid.UUID, req CampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	targets, err := req.targets()
	if err != nil {
		return nil, err
	}
	tmpl, err := s.template(ctx, tenantID, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if err := campaign.Update(req.Name, req.Description, tmpl, targets, req.MinDaysOverdue); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// ChangeStatus activates, pauses or finishes a campaign
func (s *CampaignService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := campaign.ChangeStatus(collection.CampaignStatus(status)); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(campaign)
	return &resp, nil
}

// Delete removes a campaign that never ran
func (s *CampaignService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if campaign.LastRunAt != nil {
		return shared.NewInvalidStateError("Campaigns that already ran cannot be deleted; finish them instead")
	}
	return s.campaignRepo.DeleteForTenant(ctx, tenantID, id)
}

// ListDispatches retrieves a page of the campaign's messages
func (s *CampaignService) ListDispatches(ctx context.Context, tenantID, campaignID uuid.UUID, filter DispatchListFilter) (*shared.Paginated[DispatchResponse], error) {
	if _, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, campaignID); err != nil {
		return nil, err
	}
	f := collection.DispatchFilter{
		Filter: shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize(),
	}
	if filter.Status != "" {
		status := collection.DispatchStatus(filter.Status)
		switch status {
		case collection.DispatchPending, collection.DispatchSent, collection.DispatchFailed, collection.DispatchCanceled:
			f.Status = &status
		default:
			return nil, shared.NewValidationError("status", "Unknown dispatch status")
		}
	}
	dispatches, err := s.dispatchRepo.FindByCampaign(ctx, tenantID, campaignID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.dispatchRepo.CountByCampaign(ctx, tenantID, campaignID, f)
	if err != nil {
		return nil, err
	}
	items := make([]DispatchResponse, len(dispatches))
	for i := range dispatches {
		items[i] = ToDispatchResponse(&dispatches[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// =============================================================================
// Run
// =============================================================================

// Run refreshes overdue dues, creates the missing dispatches of the campaign
// and delivers every dispatch still pending. Running again never duplicates a
// (member, dues record) message; failed ones are retried up to MaxAttempts.
func (s *CampaignService) Run(ctx context.Context, tenantID, id uuid.UUID) (*RunResult, error) {
	if s.sender == nil {
		return nil, shared.NewConfigurationError("No message sender is configured")
	}
	campaign, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := campaign.EnsureRunnable(); err != nil {
		return nil, err
	}
	tmpl, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, campaign.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.Active {
		return nil, shared.NewInvalidStateError(fmt.Sprintf("Template %q is inactive", tmpl.Name))
	}

	today := s.calendar.Today(ctx, tenantID)
	if _, err := s.duesRepo.MarkOverdue(ctx, tenantID, today); err != nil {
		return nil, err
	}
	open, err := s.duesRepo.FindDelinquent(ctx, tenantID, dues.DelinquencyFilter{})
	if err != nil {
		return nil, err
	}
	existing, err := s.dispatchRepo.FindAllByCampaign(ctx, tenantID, campaign.ID)
	if err != nil {
		return nil, err
	}

	result := &RunResult{CampaignID: campaign.ID, RanAt: s.now()}
	matched := make([]dues.DelinquentDues, 0, len(open))
	stillOpen := make(map[collection.DispatchKey]bool, len(open))
	for i := range open {
		rec := &open[i].Record
		key := collection.DispatchKey{MemberID: rec.MemberID, DuesRecordID: rec.ID}
		stillOpen[key] = true
		if campaign.Matches(rec.Status, rec.DaysOverdue(today)) {
			matched = append(matched, open[i])
		}
	}
	result.Matched = len(matched)

	created, renderFailures, err := s.buildDispatches(ctx, tenantID, campaign, tmpl, matched, existing, today)
	if err != nil {
		return nil, err
	}
	result.Created = len(created)
	result.Failed = renderFailures

	var changed []*collection.Dispatch
	for key, d := range existing {
		switch {
		case !stillOpen[key] && d.Status != collection.DispatchSent && d.Status != collection.DispatchCanceled:
			d.Cancel()
			changed = append(changed, d)
			result.Canceled++
		case !d.NeedsDelivery():
			result.Skipped++
		}
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if len(created) > 0 {
			if err := s.dispatchRepo.Create(txCtx, created); err != nil {
				return err
			}
		}
		for _, d := range changed {
			if err := s.dispatchRepo.Save(txCtx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pending := make([]*collection.Dispatch, 0, len(created)+len(existing))
	for _, d := range created {
		if d.NeedsDelivery() {
			pending = append(pending, d)
		}
	}
	for key, d := range existing {
		if stillOpen[key] && d.NeedsDelivery() {
			pending = append(pending, d)
		}
	}
	for _, d := range pending {
		if s.deliver(ctx, d) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	campaign.RecordRun(result.Sent, result.Failed, result.RanAt)
	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign run finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("campaign_id", campaign.ID.String()),
		zap.Int("matched", result.Matched),
		zap.Int("created", result.Created),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("canceled", result.Canceled))
	return result, nil
}

// RunActive runs every active campaign of the tenant. A failing campaign is
// logged and does not stop the others.
func (s *CampaignService) RunActive(ctx context.Context, tenantID uuid.UUID) ([]RunResult, error) {
	var results []RunResult
	filter := shared.Filter{Page: 1, PageSize: 100}.Normalize()
	for {
		campaigns, err := s.campaignRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return results, err
		}
		for i := range campaigns {
			if campaigns[i].Status != collection.CampaignActive {
				continue
			}
			result, err := s.Run(ctx, tenantID, campaigns[i].ID)
			if err != nil {
				s.logger.Warn("Campaign run failed",
					zap.String("tenant_id", tenantID.String()),
					zap.String("campaign_id", campaigns[i].ID.String()),
					zap.Error(err))
				continue
			}
			results = append(results, *result)
		}
		if len(campaigns) < filter.PageSize {
			return results, nil
		}
		filter.Page++
	}
}

func (s *CampaignService) buildDispatches(
	ctx context.Context,
	tenantID uuid.UUID,
	campaign *collection.Campaign,
	tmpl *collection.Template,
	matched []dues.DelinquentDues,
	existing map[collection.DispatchKey]*collection.Dispatch,
	today time.Time,
) ([]*collection.Dispatch, int, error) {
	var missing []dues.DelinquentDues
	memberIDs := make([]uuid.UUID, 0, len(matched))
	seen := make(map[uuid.UUID]bool)
	for _, m := range matched {
		key := collection.DispatchKey{MemberID: m.Record.MemberID, DuesRecordID: m.Record.ID}
		if _, ok := existing[key]; ok {
			continue
		}
		missing = append(missing, m)
		if !seen[m.Record.MemberID] {
			seen[m.Record.MemberID] = true
			memberIDs = append(memberIDs, m.Record.MemberID)
		}
	}
	if len(missing) == 0 {
		return nil, 0, nil
	}

	members, err := s.memberRepo.FindByIDsForTenant(ctx, tenantID, memberIDs)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]*membership.Member, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}
	club := collection.ClubData{}
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	switch {
	case err == nil:
		club = collection.ClubData{Name: tenant.Name, Phone: tenant.Phone}
	case !errors.Is(err, shared.ErrNotFound):
		return nil, 0, err
	}

	out := make([]*collection.Dispatch, 0, len(missing))
	failures := 0
	for _, m := range missing {
		member, ok := byID[m.Record.MemberID]
		if !ok {
			continue
		}
		rec := &m.Record
		data := collection.MessageData{
			Member: collection.MemberData{
				Name:               member.Name,
				RegistrationNumber: member.RegistrationNumber,
				Email:              member.Email,
				Phone:              contactPhone(member),
			},
			Dues: collection.DuesData{
				Period:      rec.Period.String(),
				DueDate:     rec.DueDate.Format("02/01/2006"),
				Amount:      valueobject.FormatBRL(rec.Amount),
				Total:       valueobject.FormatBRL(rec.TotalDue()),
				DaysOverdue: rec.DaysOverdue(today),
			},
			Club: club,
		}
		key := collection.DispatchKey{MemberID: rec.MemberID, DuesRecordID: rec.ID}
		subject, body, err := tmpl.Render(data)
		if err != nil {
			// no dispatch is stored so a fixed template is picked up by the next run
			failures++
			s.logger.Warn("Failed to render billing message",
				zap.String("campaign_id", campaign.ID.String()),
				zap.String("dues_record_id", rec.ID.String()),
				zap.Error(err))
			continue
		}
		out = append(out, collection.NewDispatch(campaign, key, tmpl.Channel, recipientFor(tmpl.Channel, member), subject, body))
	}
	return out, failures, nil
}

// deliver sends d and records the outcome. It reports whether the message went out.
func (s *CampaignService) deliver(ctx context.Context, d *collection.Dispatch) bool {
	var err error
	if d.Recipient == "" {
		err = fmt.Errorf("member has no contact for channel %s", d.Channel)
	} else {
		err = s.sender.Send(ctx, collection.MessageOf(d))
	}
	if err != nil {
		d.MarkFailed(err)
		s.logger.Warn("Dispatch failed",
			zap.String("dispatch_id", d.ID.String()),
			zap.Int("attempts", d.Attempts),
			zap.Error(err))
	} else {
		d.MarkSent(s.now())
	}
	if err := s.dispatchRepo.Save(ctx, d); err != nil {
		s.logger.Error("Failed to save dispatch",
			zap.String("dispatch_id", d.ID.String()),
			zap.Error(err))
	}
	return d.Status == collection.DispatchSent
}

func (s *CampaignService) template(ctx context.Context, tenantID, id uuid.UUID) (*collection.Template, error) {
	tmpl, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("template_id", "Template not found")
	}
	return tmpl, err
}

func recipientFor(channel collection.Channel, m *membership.Member) string {
	switch channel {
	case collection.ChannelEmail:
		return m.Email
	case collection.ChannelSMS, collection.ChannelWhatsApp:
		if m.MobilePhone != "" {
			return m.MobilePhone
		}
		return m.Phone
	case collection.ChannelLetter:
		if m.Address.IsEmpty() {
			return ""
		}
		return m.Address.String()
	}
	return ""
}

func contactPhone(m *membership.Member) string {
	if m.MobilePhone != "" {
		return m.MobilePhone
	}
	return m.Phone
}
