package models

// All returns every persistence model in dependency order, for AutoMigrate in
// tests and local development
func All() []any {
	return []any{
		&TenantModel{},
		&UserModel{},
		&CategoryModel{},
		&AffiliationModel{},
		&MemberModel{},
		&DependentModel{},
		&CashBoxModel{},
		&ChartAccountModel{},
		&TenantSettingsModel{},
		&DuesRecordModel{},
		&LedgerEntryModel{},
		&AccountModel{},
		&SupplierModel{},
		&EventModel{},
		&RegistrationModel{},
		&TemplateModel{},
		&CampaignModel{},
		&DispatchModel{},
	}
}
