// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free from
// ORM concerns. Each model has ToDomain/FromDomain mappers used by the repositories.
//
// Structure:
//   - base.go: shared columns (id, timestamps, version, tenant)
//   - identity.go: tenants and users
//   - membership.go: members, dependents, categories, affiliations
//   - dues.go: dues records
//   - finance.go: cash boxes, chart of accounts, ledger, accounts, settings
//   - clubevent.go: events and registrations
//   - collection.go: billing templates, campaigns, dispatches
//   - partner.go: suppliers
package models
