package collection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clube/backend/internal/application/calendar"
	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mocks
// =============================================================================

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collection.Template, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]collection.Template, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]collection.Template), args.Error(1)
}

func (m *MockTemplateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemplateRepository) IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, tmpl *collection.Template) error {
	return m.Called(ctx, tmpl).Error(0)
}

func (m *MockTemplateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collection.Campaign, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]collection.Campaign, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]collection.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCampaignRepository) Save(ctx context.Context, campaign *collection.Campaign) error {
	return m.Called(ctx, campaign).Error(0)
}

func (m *MockCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockDispatchRepository struct {
	mock.Mock
}

func (m *MockDispatchRepository) FindByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter collection.DispatchFilter) ([]collection.Dispatch, error) {
	args := m.Called(ctx, tenantID, campaignID, filter)
	return args.Get(0).([]collection.Dispatch), args.Error(1)
}

func (m *MockDispatchRepository) CountByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter collection.DispatchFilter) (int64, error) {
	args := m.Called(ctx, tenantID, campaignID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDispatchRepository) FindAllByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) (map[collection.DispatchKey]*collection.Dispatch, error) {
	args := m.Called(ctx, tenantID, campaignID)
	return args.Get(0).(map[collection.DispatchKey]*collection.Dispatch), args.Error(1)
}

func (m *MockDispatchRepository) Create(ctx context.Context, dispatches []*collection.Dispatch) error {
	return m.Called(ctx, dispatches).Error(0)
}

func (m *MockDispatchRepository) Save(ctx context.Context, dispatch *collection.Dispatch) error {
	return m.Called(ctx, dispatch).Error(0)
}

// MockDuesRepository only implements what a campaign run reads
type MockDuesRepository struct {
	dues.DuesRepository
	mock.Mock
}

func (m *MockDuesRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDuesRepository) FindDelinquent(ctx context.Context, tenantID uuid.UUID, filter dues.DelinquencyFilter) ([]dues.DelinquentDues, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]dues.DelinquentDues), args.Error(1)
}

type MockMemberRepository struct {
	membership.MemberRepository
	mock.Mock
}

func (m *MockMemberRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]membership.Member, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]membership.Member), args.Error(1)
}

type MockTenantRepository struct {
	identity.TenantRepository
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg collection.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockTransactionManager struct {
	calls int
}

func (m *MockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// =============================================================================
// Fixtures
// =============================================================================

var today = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

type collectionFixture struct {
	templates  *MockTemplateRepository
	campaigns  *MockCampaignRepository
	dispatches *MockDispatchRepository
	dues       *MockDuesRepository
	members    *MockMemberRepository
	tenants    *MockTenantRepository
	sender     *MockSender
	service    *CampaignService
	tenantID   uuid.UUID
}

func newCollectionFixture() *collectionFixture {
	f := &collectionFixture{
		templates:  new(MockTemplateRepository),
		campaigns:  new(MockCampaignRepository),
		dispatches: new(MockDispatchRepository),
		dues:       new(MockDuesRepository),
		members:    new(MockMemberRepository),
		tenants:    new(MockTenantRepository),
		sender:     new(MockSender),
		tenantID:   uuid.New(),
	}
	f.service = NewCampaignService(CampaignServiceConfig{
		TemplateRepo: f.templates,
		CampaignRepo: f.campaigns,
		DispatchRepo: f.dispatches,
		DuesRepo:     f.dues,
		MemberRepo:   f.members,
		TenantRepo:   f.tenants,
		Sender:       f.sender,
		Calendar:     calendar.Fixed(today),
		TxManager:    new(MockTransactionManager),
	})
	f.service.now = func() time.Time { return today.Add(9 * time.Hour) }
	return f
}

func (f *collectionFixture) emailTemplate(t *testing.T) *collection.Template {
	t.Helper()
	tmpl, err := collection.NewTemplate(f.tenantID, "Cobrança", collection.ChannelEmail,
		"Mensalidade {{.Dues.Period}}",
		"Olá {{.Member.Name}}, sua mensalidade de {{.Dues.Total}} venceu em {{.Dues.DueDate}}. {{.Club.Name}}")
	require.NoError(t, err)
	return tmpl
}

func (f *collectionFixture) activeCampaign(t *testing.T, tmpl *collection.Template) *collection.Campaign {
	t.Helper()
	c, err := collection.NewCampaign(f.tenantID, "Atrasados", tmpl, nil, 5)
	require.NoError(t, err)
	require.NoError(t, c.ChangeStatus(collection.CampaignActive))
	return c
}

func (f *collectionFixture) member(name, email string) membership.Member {
	return membership.Member{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(f.tenantID),
		Name:                name,
		Email:               email,
		Status:              membership.MemberStatusActive,
	}
}

func (f *collectionFixture) openDues(t *testing.T, m membership.Member, month int, due time.Time, status finance.ObligationStatus) dues.DelinquentDues {
	t.Helper()
	period, err := dues.NewPeriod(2024, month)
	require.NoError(t, err)
	rec, err := dues.NewDuesRecord(f.tenantID, m.ID, period, decimal.NewFromInt(150), due, dues.OriginGenerated)
	require.NoError(t, err)
	rec.Status = status
	return dues.DelinquentDues{Record: *rec, MemberName: m.Name}
}

// =============================================================================
// Campaign Run
// =============================================================================

func TestCampaignService_Run(t *testing.T) {
	f := newCollectionFixture()
	tmpl := f.emailTemplate(t)
	campaign := f.activeCampaign(t, tmpl)

	ana := f.member("Ana", "ana@example.com")
	bia := f.member("Bia", "bia@example.com")
	caio := f.member("Caio", "")
	davi := f.member("Davi", "davi@example.com")

	late := f.openDues(t, ana, 1, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), finance.StatusOverdue)
	recent := f.openDues(t, bia, 3, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), finance.StatusOverdue)
	noEmail := f.openDues(t, caio, 2, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), finance.StatusOverdue)
	alreadySent := f.openDues(t, davi, 2, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), finance.StatusOverdue)

	sent := collection.NewDispatch(campaign, collection.DispatchKey{MemberID: davi.ID, DuesRecordID: alreadySent.Record.ID},
		collection.ChannelEmail, davi.Email, "s", "b")
	sent.MarkSent(today.Add(-24 * time.Hour))
	paidMeanwhile := collection.NewDispatch(campaign, collection.DispatchKey{MemberID: bia.ID, DuesRecordID: uuid.New()},
		collection.ChannelEmail, bia.Email, "s", "b")
	existing := map[collection.DispatchKey]*collection.Dispatch{
		sent.Key():          sent,
		paidMeanwhile.Key(): paidMeanwhile,
	}

	f.campaigns.On("FindByIDForTenant", mock.Anything, f.tenantID, campaign.ID).Return(campaign, nil)
	f.templates.On("FindByIDForTenant", mock.Anything, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.dues.On("MarkOverdue", mock.Anything, f.tenantID, today).Return(int64(0), nil)
	f.dues.On("FindDelinquent", mock.Anything, f.tenantID, dues.DelinquencyFilter{}).
		Return([]dues.DelinquentDues{late, recent, noEmail, alreadySent}, nil)
	f.dispatches.On("FindAllByCampaign", mock.Anything, f.tenantID, campaign.ID).Return(existing, nil)
	f.members.On("FindByIDsForTenant", mock.Anything, f.tenantID, []uuid.UUID{ana.ID, caio.ID}).
		Return([]membership.Member{ana, caio}, nil)
	f.tenants.On("FindByID", mock.Anything, f.tenantID).Return(&identity.Tenant{Name: "Clube Atlético"}, nil)
	f.dispatches.On("Create", mock.Anything, mock.MatchedBy(func(ds []*collection.Dispatch) bool { return len(ds) == 2 })).Return(nil)
	f.dispatches.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(msg collection.Message) bool {
		return msg.Recipient == "ana@example.com"
	})).Return(nil)
	f.campaigns.On("Save", mock.Anything, campaign).Return(nil)

	result, err := f.service.Run(context.Background(), f.tenantID, campaign.ID)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Matched, "the 3-day-old record is below the minimum")
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed, "member without email")
	assert.Equal(t, 1, result.Canceled)
	assert.Equal(t, 1, result.Skipped)

	assert.Equal(t, collection.DispatchCanceled, paidMeanwhile.Status)
	assert.Equal(t, 1, campaign.SentCount)
	assert.Equal(t, 1, campaign.FailedCount)
	require.NotNil(t, campaign.LastRunAt)

	f.sender.AssertNumberOfCalls(t, "Send", 1)
	msg := f.sender.Calls[0].Arguments.Get(1).(collection.Message)
	assert.Equal(t, "Mensalidade 2024-01", msg.Subject)
	assert.Equal(t, "Olá Ana, sua mensalidade de R$ 150,00 venceu em 10/01/2024. Clube Atlético", msg.Body)
	// one cancel plus two deliveries
	f.dispatches.AssertNumberOfCalls(t, "Save", 3)
}

func TestCampaignService_RunIsIdempotent(t *testing.T) {
	f := newCollectionFixture()
	tmpl := f.emailTemplate(t)
	campaign := f.activeCampaign(t, tmpl)
	ana := f.member("Ana", "ana@example.com")
	late := f.openDues(t, ana, 1, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), finance.StatusOverdue)

	sent := collection.NewDispatch(campaign, collection.DispatchKey{MemberID: ana.ID, DuesRecordID: late.Record.ID},
		collection.ChannelEmail, ana.Email, "s", "b")
	sent.MarkSent(today)

	f.campaigns.On("FindByIDForTenant", mock.Anything, f.tenantID, campaign.ID).Return(campaign, nil)
	f.templates.On("FindByIDForTenant", mock.Anything, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.dues.On("MarkOverdue", mock.Anything, f.tenantID, today).Return(int64(0), nil)
	f.dues.On("FindDelinquent", mock.Anything, f.tenantID, dues.DelinquencyFilter{}).Return([]dues.DelinquentDues{late}, nil)
	f.dispatches.On("FindAllByCampaign", mock.Anything, f.tenantID, campaign.ID).
		Return(map[collection.DispatchKey]*collection.Dispatch{sent.Key(): sent}, nil)
	f.campaigns.On("Save", mock.Anything, campaign).Return(nil)

	result, err := f.service.Run(context.Background(), f.tenantID, campaign.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
	f.dispatches.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCampaignService_RunRetriesFailedDispatch(t *testing.T) {
	f := newCollectionFixture()
	tmpl := f.emailTemplate(t)
	campaign := f.activeCampaign(t, tmpl)
	ana := f.member("Ana", "ana@example.com")
	late := f.openDues(t, ana, 1, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), finance.StatusOverdue)

	failed := collection.NewDispatch(campaign, collection.DispatchKey{MemberID: ana.ID, DuesRecordID: late.Record.ID},
		collection.ChannelEmail, ana.Email, "s", "b")
	failed.MarkFailed(errors.New("smtp timeout"))

	f.campaigns.On("FindByIDForTenant", mock.Anything, f.tenantID, campaign.ID).Return(campaign, nil)
	f.templates.On("FindByIDForTenant", mock.Anything, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.dues.On("MarkOverdue", mock.Anything, f.tenantID, today).Return(int64(1), nil)
	f.dues.On("FindDelinquent", mock.Anything, f.tenantID, dues.DelinquencyFilter{}).Return([]dues.DelinquentDues{late}, nil)
	f.dispatches.On("FindAllByCampaign", mock.Anything, f.tenantID, campaign.ID).
		Return(map[collection.DispatchKey]*collection.Dispatch{failed.Key(): failed}, nil)
	f.dispatches.On("Save", mock.Anything, failed).Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.campaigns.On("Save", mock.Anything, campaign).Return(nil)

	result, err := f.service.Run(context.Background(), f.tenantID, campaign.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, collection.DispatchSent, failed.Status)
	assert.Equal(t, 2, failed.Attempts)
}

func TestCampaignService_RunRequiresActiveCampaign(t *testing.T) {
	f := newCollectionFixture()
	tmpl := f.emailTemplate(t)
	campaign, err := collection.NewCampaign(f.tenantID, "Rascunho", tmpl, nil, 0)
	require.NoError(t, err)
	f.campaigns.On("FindByIDForTenant", mock.Anything, f.tenantID, campaign.ID).Return(campaign, nil)

	_, err = f.service.Run(context.Background(), f.tenantID, campaign.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.dues.AssertNotCalled(t, "MarkOverdue", mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignService_RunWithoutSender(t *testing.T) {
	f := newCollectionFixture()
	f.service.sender = nil

	_, err := f.service.Run(context.Background(), f.tenantID, uuid.New())

	assert.ErrorIs(t, err, shared.ErrConfiguration)
}

// =============================================================================
// Campaign CRUD
// =============================================================================

func TestCampaignService_Create(t *testing.T) {
	f := newCollectionFixture()
	tmpl := f.emailTemplate(t)
	f.templates.On("FindByIDForTenant", mock.Anything, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.campaigns.On("Save", mock.Anything, mock.AnythingOfType("*collection.Campaign")).Return(nil)

	resp, err := f.service.Create(context.Background(), f.tenantID, CampaignRequest{
		Name:           "Pendentes",
		Description:    "Lembrete antes do vencimento",
		TemplateID:     tmpl.ID,
		TargetStatuses: []string{"pending", "OVERDUE"},
	})

	require.NoError(t, err)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Equal(t, []string{"PENDING", "OVERDUE"}, resp.TargetStatuses)
	assert.Equal(t, "Lembrete antes do vencimento", resp.Description)
}

func TestCampaignService_CreateRejectsPaidTarget(t *testing.T) {
	f := newCollectionFixture()
	tmpl := f.emailTemplate(t)
	f.templates.On("FindByIDForTenant", mock.Anything, f.tenantID, tmpl.ID).Return(tmpl, nil)

	_, err := f.service.Create(context.Background(), f.tenantID, CampaignRequest{
		Name:           "Pagos",
		TemplateID:     tmpl.ID,
		TargetStatuses: []string{"PAID"},
	})

	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCampaignService_CreateWithUnknownTemplate(t *testing.T) {
	f := newCollectionFixture()
	id := uuid.New()
	f.templates.On("FindByIDForTenant", mock.Anything, f.tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(context.Background(), f.tenantID, CampaignRequest{Name: "X", TemplateID: id})

	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCampaignService_DeleteAfterRun(t *testing.T) {
	f := newCollectionFixture()
	campaign := f.activeCampaign(t, f.emailTemplate(t))
	campaign.RecordRun(1, 0, today)
	f.campaigns.On("FindByIDForTenant", mock.Anything, f.tenantID, campaign.ID).Return(campaign, nil)

	err := f.service.Delete(context.Background(), f.tenantID, campaign.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCampaignService_ListDispatchesRejectsUnknownStatus(t *testing.T) {
	f := newCollectionFixture()
	campaign := f.activeCampaign(t, f.emailTemplate(t))
	f.campaigns.On("FindByIDForTenant", mock.Anything, f.tenantID, campaign.ID).Return(campaign, nil)

	_, err := f.service.ListDispatches(context.Background(), f.tenantID, campaign.ID, DispatchListFilter{Status: "BOUNCED"})

	assert.ErrorIs(t, err, shared.ErrValidation)
}

// =============================================================================
// Templates
// =============================================================================

func TestTemplateService_DeleteInUse(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo, nil)
	tenantID := uuid.New()
	tmpl, err := collection.NewTemplate(tenantID, "SMS", collection.ChannelSMS, "", "Oi {{.Member.Name}}")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, tmpl.ID).Return(tmpl, nil)
	repo.On("IsInUse", mock.Anything, tenantID, tmpl.ID).Return(true, nil)

	err = svc.Delete(context.Background(), tenantID, tmpl.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_Preview(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo, nil)
	tenantID := uuid.New()
	tmpl, err := collection.NewTemplate(tenantID, "WhatsApp", collection.ChannelWhatsApp, "",
		"{{.Member.Name}}, {{.Dues.DaysOverdue}} dias de atraso ({{.Dues.Total}})")
	require.NoError(t, err)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, tmpl.ID).Return(tmpl, nil)

	preview, err := svc.Preview(context.Background(), tenantID, tmpl.ID)

	require.NoError(t, err)
	assert.Equal(t, "Maria da Silva, 12 dias de atraso (R$ 153,00)", preview.Body)
}

func TestTemplateService_CreateRejectsBrokenTemplate(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo, nil)

	_, err := svc.Create(context.Background(), uuid.New(), TemplateRequest{
		Name:    "Quebrado",
		Channel: "sms",
		Body:    "Oi {{.Member.Name",
	})

	assert.ErrorIs(t, err, shared.ErrValidation)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
