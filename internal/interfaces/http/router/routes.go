package router

import (
	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/interfaces/http/handler"
	"github.com/clube/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers of the club API. A nil handler leaves its
// routes unmounted.
type Handlers struct {
	Auth         *handler.AuthHandler
	Members      *handler.MemberHandler
	Categories   *handler.CategoryHandler
	Affiliations *handler.AffiliationHandler
	Dues         *handler.DuesHandler
	Finance      *handler.FinanceHandler
	Reports      *handler.ReportHandler
	Events       *handler.EventHandler
	Collection   *handler.CollectionHandler
	Suppliers    *handler.SupplierHandler
	Users        *handler.UserHandler
	Club         *handler.TenantHandler
	System       *handler.SystemHandler
}

// RegisterClubRoutes registers one domain group per resource. Every group
// except auth checks the caller's role against the resource.
func (r *Router) RegisterClubRoutes(h Handlers) *Router {
	if h.Auth != nil {
		r.Register(NewDomainGroup("auth", "/auth").
			POST("/login", h.Auth.Login).
			POST("/refresh", h.Auth.RefreshToken).
			POST("/logout", h.Auth.Logout).
			GET("/me", h.Auth.GetCurrentUser).
			PUT("/password", h.Auth.ChangePassword))
	}

	if h.Members != nil {
		r.Register(NewDomainGroup("members", "/members").
			Use(middleware.RequireResource(identity.ResourceMembers)).
			GET("", h.Members.List).
			POST("", h.Members.Create).
			GET("/:id", h.Members.GetByID).
			PUT("/:id", h.Members.Update).
			DELETE("/:id", h.Members.Delete).
			POST("/:id/status", h.Members.ChangeStatus).
			POST("/:id/dependents", h.Members.AddDependent).
			DELETE("/:id/dependents/:dependentId", h.Members.RemoveDependent))
	}

	if h.Categories != nil {
		r.Register(NewDomainGroup("categories", "/categories").
			Use(middleware.RequireResource(identity.ResourceCategories)).
			GET("", h.Categories.List).
			POST("", h.Categories.Create).
			GET("/:id", h.Categories.GetByID).
			PUT("/:id", h.Categories.Update).
			DELETE("/:id", h.Categories.Delete))
	}

	if h.Affiliations != nil {
		r.Register(NewDomainGroup("affiliations", "/affiliations").
			Use(middleware.RequireResource(identity.ResourceAffiliations)).
			GET("", h.Affiliations.List).
			POST("", h.Affiliations.Create).
			GET("/:id", h.Affiliations.GetByID).
			PUT("/:id", h.Affiliations.Update).
			DELETE("/:id", h.Affiliations.Delete))
	}

	if h.Dues != nil {
		settle := middleware.RequireResourceAction(identity.ResourceDues, identity.ActionUpdate)
		r.Register(NewDomainGroup("dues", "/dues").
			Use(middleware.RequireResource(identity.ResourceDues)).
			GET("", h.Dues.List).
			POST("", h.Dues.Create).
			POST("/generate", h.Dues.Generate).
			POST("/refresh-overdue", h.Dues.RefreshOverdue).
			GET("/:id", h.Dues.GetByID).
			PUT("/:id", h.Dues.Update).
			DELETE("/:id", h.Dues.Delete).
			POST("/:id/settle", settle, h.Dues.Settle).
			POST("/:id/cancel", settle, h.Dues.Cancel).
			POST("/:id/reopen", settle, h.Dues.Reopen))
	}

	if h.Finance != nil {
		finance := NewDomainGroup("finance", "/finance").
			Use(middleware.RequireResource(identity.ResourceFinance))
		finance.Group("cash-boxes", "/cash-boxes").
			GET("", h.Finance.ListCashBoxes).
			POST("", h.Finance.CreateCashBox).
			GET("/:id", h.Finance.GetCashBox).
			PUT("/:id", h.Finance.UpdateCashBox).
			POST("/:id/activate", h.Finance.ActivateCashBox).
			POST("/:id/deactivate", h.Finance.DeactivateCashBox)
		finance.Group("chart-accounts", "/chart-accounts").
			GET("", h.Finance.ListChartAccounts).
			POST("", h.Finance.CreateChartAccount).
			GET("/:id", h.Finance.GetChartAccount).
			PUT("/:id", h.Finance.UpdateChartAccount).
			DELETE("/:id", h.Finance.DeleteChartAccount)
		finance.Group("ledger", "/ledger").
			GET("", h.Finance.ListLedgerEntries).
			POST("", h.Finance.CreateLedgerEntry).
			GET("/:id", h.Finance.GetLedgerEntry).
			PUT("/:id", h.Finance.UpdateLedgerEntry).
			DELETE("/:id", h.Finance.DeleteLedgerEntry)
		finance.Group("accounts", "/accounts").
			GET("", h.Finance.ListAccounts).
			POST("", h.Finance.CreateAccount).
			POST("/refresh-overdue", h.Finance.RefreshOverdueAccounts).
			GET("/:id", h.Finance.GetAccount).
			DELETE("/:id", h.Finance.DeleteAccount).
			POST("/:id/settle", h.Finance.SettleAccount).
			POST("/:id/cancel", h.Finance.CancelAccount).
			POST("/:id/reopen", h.Finance.ReopenAccount)
		finance.GET("/settings", h.Finance.GetSettings).
			PUT("/settings", h.Finance.UpdateSettings)
		r.Register(finance)
	}

	if h.Reports != nil {
		r.Register(NewDomainGroup("reports", "/reports").
			Use(middleware.RequireResource(identity.ResourceReports)).
			GET("/dashboard", h.Reports.Dashboard).
			GET("/cash-flow", h.Reports.CashFlow).
			GET("/income-statement", h.Reports.IncomeStatement).
			GET("/delinquency", h.Reports.Delinquency).
			GET("/accounts", h.Reports.Accounts))
	}

	if h.Events != nil {
		events := NewDomainGroup("events", "/events").
			Use(middleware.RequireResource(identity.ResourceEvents)).
			GET("", h.Events.List).
			POST("", h.Events.Create).
			GET("/:id", h.Events.GetByID).
			PUT("/:id", h.Events.Update).
			DELETE("/:id", h.Events.Delete).
			POST("/:id/publish", h.Events.Publish).
			POST("/:id/start", h.Events.Start).
			POST("/:id/finish", h.Events.Finish).
			POST("/:id/cancel", h.Events.Cancel).
			POST("/:id/registration/open", h.Events.OpenRegistration).
			POST("/:id/registration/close", h.Events.CloseRegistration).
			GET("/:id/attendance", h.Events.Attendance)
		events.Group("registrations", "/:id/registrations").
			POST("", h.Events.Register).
			DELETE("/:registrationId", h.Events.CancelRegistration).
			POST("/:registrationId/check-in", h.Events.CheckIn)
		r.Register(events)
	}

	if h.Collection != nil {
		collection := NewDomainGroup("collection", "/collection").
			Use(middleware.RequireResource(identity.ResourceCollection))
		collection.Group("templates", "/templates").
			GET("", h.Collection.ListTemplates).
			POST("", h.Collection.CreateTemplate).
			GET("/:id", h.Collection.GetTemplate).
			PUT("/:id", h.Collection.UpdateTemplate).
			DELETE("/:id", h.Collection.DeleteTemplate).
			GET("/:id/preview", h.Collection.PreviewTemplate).
			POST("/:id/activate", h.Collection.ActivateTemplate).
			POST("/:id/deactivate", h.Collection.DeactivateTemplate)
		collection.Group("campaigns", "/campaigns").
			GET("", h.Collection.ListCampaigns).
			POST("", h.Collection.CreateCampaign).
			GET("/:id", h.Collection.GetCampaign).
			PUT("/:id", h.Collection.UpdateCampaign).
			DELETE("/:id", h.Collection.DeleteCampaign).
			POST("/:id/status", h.Collection.ChangeCampaignStatus).
			POST("/:id/run", h.Collection.RunCampaign).
			GET("/:id/dispatches", h.Collection.ListDispatches)
		r.Register(collection)
	}

	if h.Suppliers != nil {
		r.Register(NewDomainGroup("suppliers", "/suppliers").
			Use(middleware.RequireResource(identity.ResourceSuppliers)).
			GET("", h.Suppliers.List).
			POST("", h.Suppliers.Create).
			GET("/:id", h.Suppliers.GetByID).
			PUT("/:id", h.Suppliers.Update).
			DELETE("/:id", h.Suppliers.Delete).
			POST("/:id/activate", h.Suppliers.Activate).
			POST("/:id/deactivate", h.Suppliers.Deactivate))
	}

	admin := middleware.RequireRole(identity.RoleAdmin)
	if h.Users != nil {
		r.Register(NewDomainGroup("users", "/users").
			Use(admin).
			GET("", h.Users.List).
			POST("", h.Users.Create).
			GET("/:id", h.Users.GetByID).
			PUT("/:id", h.Users.Update).
			DELETE("/:id", h.Users.Delete).
			POST("/:id/reset-password", h.Users.ResetPassword).
			POST("/:id/activate", h.Users.Activate).
			POST("/:id/deactivate", h.Users.Deactivate))
	}
	if h.Club != nil {
		r.Register(NewDomainGroup("club", "/club").
			GET("", h.Club.GetCurrent).
			PUT("", admin, h.Club.UpdateCurrent))
	}
	if h.System != nil {
		r.Register(NewDomainGroup("system", "/system").
			Use(admin).
			GET("/info", h.System.GetSystemInfo))
	}
	return r
}
