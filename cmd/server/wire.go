package main

import (
	"github.com/clube/backend/internal/application/calendar"
	"github.com/clube/backend/internal/application/clubevent"
	"github.com/clube/backend/internal/application/collection"
	duesapp "github.com/clube/backend/internal/application/dues"
	financeapp "github.com/clube/backend/internal/application/finance"
	identityapp "github.com/clube/backend/internal/application/identity"
	"github.com/clube/backend/internal/application/membership"
	partnerapp "github.com/clube/backend/internal/application/partner"
	reportapp "github.com/clube/backend/internal/application/report"
	collectiondomain "github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/infrastructure/persistence"
	"github.com/clube/backend/internal/interfaces/http/handler"
	"github.com/clube/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// repositories holds the GORM repositories of every bounded context
type repositories struct {
	tenants       *persistence.GormTenantRepository
	users         *persistence.GormUserRepository
	members       *persistence.GormMemberRepository
	categories    *persistence.GormCategoryRepository
	affiliations  *persistence.GormAffiliationRepository
	dues          *persistence.GormDuesRepository
	billable      *persistence.GormBillableMemberSource
	cashBoxes     *persistence.GormCashBoxRepository
	chart         *persistence.GormChartAccountRepository
	ledger        *persistence.GormLedgerEntryRepository
	accounts      *persistence.GormAccountRepository
	settings      *persistence.GormSettingsRepository
	suppliers     *persistence.GormSupplierRepository
	events        *persistence.GormEventRepository
	registrations *persistence.GormRegistrationRepository
	templates     *persistence.GormTemplateRepository
	campaigns     *persistence.GormCampaignRepository
	dispatches    *persistence.GormDispatchRepository
	tx            *persistence.GormTransactionManager
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		tenants:       persistence.NewGormTenantRepository(db),
		users:         persistence.NewGormUserRepository(db),
		members:       persistence.NewGormMemberRepository(db),
		categories:    persistence.NewGormCategoryRepository(db),
		affiliations:  persistence.NewGormAffiliationRepository(db),
		dues:          persistence.NewGormDuesRepository(db),
		billable:      persistence.NewGormBillableMemberSource(db),
		cashBoxes:     persistence.NewGormCashBoxRepository(db),
		chart:         persistence.NewGormChartAccountRepository(db),
		ledger:        persistence.NewGormLedgerEntryRepository(db),
		accounts:      persistence.NewGormAccountRepository(db),
		settings:      persistence.NewGormSettingsRepository(db),
		suppliers:     persistence.NewGormSupplierRepository(db),
		events:        persistence.NewGormEventRepository(db),
		registrations: persistence.NewGormRegistrationRepository(db),
		templates:     persistence.NewGormTemplateRepository(db),
		campaigns:     persistence.NewGormCampaignRepository(db),
		dispatches:    persistence.NewGormDispatchRepository(db),
		tx:            persistence.NewGormTransactionManager(db),
	}
}

// services holds the application services
type services struct {
	auth         *identityapp.AuthService
	users        *identityapp.UserService
	tenants      *identityapp.TenantService
	categories   *membership.CategoryService
	affiliations *membership.AffiliationService
	members      *membership.MemberService
	dues         *duesapp.DuesService
	cashBoxes    *financeapp.CashBoxService
	chart        *financeapp.ChartAccountService
	ledger       *financeapp.LedgerService
	accounts     *financeapp.AccountService
	settings     *financeapp.SettingsService
	suppliers    *partnerapp.SupplierService
	events       *clubevent.EventService
	templates    *collection.TemplateService
	campaigns    *collection.CampaignService
	reports      *reportapp.ReportService
	pdf          *reportapp.PDFExporter
}

// serviceDeps are the infrastructure collaborators that are not repositories
type serviceDeps struct {
	cfg       *config.Config
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	metrics   duesapp.Metrics
	sender    collectiondomain.Sender
	exporter  reportapp.Exporter
	archive   reportapp.Archive
	logger    *zap.Logger
}

func newServices(repos *repositories, deps serviceDeps) *services {
	log := deps.logger
	cal := calendar.NewTenantCalendar(repos.tenants)

	s := &services{
		auth: identityapp.NewAuthService(repos.users, repos.tenants, deps.jwt, deps.blacklist,
			identityapp.AuthServiceConfig{
				MaxLoginAttempts: deps.cfg.Auth.MaxLoginAttempts,
				LockDuration:     deps.cfg.Auth.LockDuration,
			}, log),
		users:        identityapp.NewUserService(repos.users, deps.blacklist, log),
		tenants:      identityapp.NewTenantService(repos.tenants, repos.users, repos.tx, log),
		categories:   membership.NewCategoryService(repos.categories),
		affiliations: membership.NewAffiliationService(repos.affiliations),
		members:      membership.NewMemberService(repos.members, repos.categories, repos.affiliations, repos.dues, log),
		dues: duesapp.NewDuesService(duesapp.DuesServiceConfig{
			DuesRepo:         repos.dues,
			Billable:         repos.billable,
			MemberRepo:       repos.members,
			CategoryRepo:     repos.categories,
			CashBoxRepo:      repos.cashBoxes,
			ChartRepo:        repos.chart,
			LedgerRepo:       repos.ledger,
			SettingsRepo:     repos.settings,
			TxManager:        repos.tx,
			Calendar:         cal,
			Metrics:          deps.metrics,
			Logger:           log,
			DefaultLookahead: deps.cfg.Dues.Lookahead,
		}),
		cashBoxes: financeapp.NewCashBoxService(repos.cashBoxes),
		chart:     financeapp.NewChartAccountService(repos.chart),
		ledger:    financeapp.NewLedgerService(repos.ledger, repos.cashBoxes, repos.chart, log),
		accounts: financeapp.NewAccountService(financeapp.AccountServiceConfig{
			AccountRepo:  repos.accounts,
			ChartRepo:    repos.chart,
			CashBoxRepo:  repos.cashBoxes,
			LedgerRepo:   repos.ledger,
			SettingsRepo: repos.settings,
			MemberRepo:   repos.members,
			SupplierRepo: repos.suppliers,
			TxManager:    repos.tx,
			Calendar:     cal,
			Logger:       log,
		}),
		settings:  financeapp.NewSettingsService(repos.settings, repos.chart, repos.cashBoxes),
		suppliers: partnerapp.NewSupplierService(repos.suppliers, log),
		events:    clubevent.NewEventService(repos.events, repos.registrations, repos.members, repos.tx, log),
		templates: collection.NewTemplateService(repos.templates, log),
		campaigns: collection.NewCampaignService(collection.CampaignServiceConfig{
			TemplateRepo: repos.templates,
			CampaignRepo: repos.campaigns,
			DispatchRepo: repos.dispatches,
			DuesRepo:     repos.dues,
			MemberRepo:   repos.members,
			TenantRepo:   repos.tenants,
			Sender:       deps.sender,
			Calendar:     cal,
			TxManager:    repos.tx,
			Logger:       log,
		}),
		reports: reportapp.NewReportService(reportapp.ReportServiceConfig{
			LedgerRepo:   repos.ledger,
			CashBoxRepo:  repos.cashBoxes,
			ChartRepo:    repos.chart,
			AccountRepo:  repos.accounts,
			SettingsRepo: repos.settings,
			DuesRepo:     repos.dues,
			MemberRepo:   repos.members,
			Calendar:     cal,
			Logger:       log,
		}),
	}

	if deps.exporter != nil {
		s.pdf = reportapp.NewPDFExporter(s.reports, reportapp.PDFExporterConfig{
			Exporter:   deps.exporter,
			Archive:    deps.archive,
			TenantRepo: repos.tenants,
			LinkTTL:    deps.cfg.Storage.PresignExpiration,
			Logger:     log,
		})
	}
	return s
}

// publishTo wires the event publisher into every service that emits domain events
func (s *services) publishTo(publisher shared.EventPublisher) {
	s.users.SetEventPublisher(publisher)
	s.members.SetEventPublisher(publisher)
	s.dues.SetEventPublisher(publisher)
	s.ledger.SetEventPublisher(publisher)
	s.accounts.SetEventPublisher(publisher)
	s.suppliers.SetEventPublisher(publisher)
	s.events.SetEventPublisher(publisher)
}

func newHandlers(s *services, system *handler.SystemHandler) router.Handlers {
	return router.Handlers{
		Auth:         handler.NewAuthHandler(s.auth),
		Members:      handler.NewMemberHandler(s.members),
		Categories:   handler.NewCategoryHandler(s.categories),
		Affiliations: handler.NewAffiliationHandler(s.affiliations),
		Dues:         handler.NewDuesHandler(s.dues),
		Finance: handler.NewFinanceHandler(handler.FinanceServices{
			CashBoxes: s.cashBoxes,
			Chart:     s.chart,
			Ledger:    s.ledger,
			Accounts:  s.accounts,
			Settings:  s.settings,
		}),
		Reports:    handler.NewReportHandler(s.reports, s.pdf),
		Events:     handler.NewEventHandler(s.events),
		Collection: handler.NewCollectionHandler(s.templates, s.campaigns),
		Suppliers:  handler.NewSupplierHandler(s.suppliers),
		Users:      handler.NewUserHandler(s.users),
		Club:       handler.NewTenantHandler(s.tenants),
		System:     system,
	}
}
