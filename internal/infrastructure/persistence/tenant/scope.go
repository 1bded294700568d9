package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope filters a query by tenant on the statement's own table
func Scope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ScopeTable filters by tenant on a named table, for joined queries
func ScopeTable(table string, tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".tenant_id = ?", tenantID)
	}
}
