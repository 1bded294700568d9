// Package tenant keeps queries of one club from reaching another club's rows.
//
// Every repository method already filters by an explicit tenant ID. On top of
// that, EnableAutoTenantFilter registers GORM callbacks that add
// "tenant_id = ?" to queries, updates and deletes issued with a context that
// carries a tenant (see logger.WithTenantID).
package tenant

import (
	"errors"
	"strings"

	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const column = "tenant_id"

var (
	// ErrTenantIDRequired is returned when a tenant-scoped table is queried without a tenant in context
	ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")
	// ErrInvalidTenantID is returned when the tenant in context is not a UUID
	ErrInvalidTenantID = errors.New("invalid tenant_id format")
)

type callback struct {
	required bool
}

// EnableAutoTenantFilter registers the tenant callbacks on db. With required set,
// statements on tenant-scoped tables fail unless the context carries a tenant.
// Creates are not filtered: aggregates always carry their tenant.
func EnableAutoTenantFilter(db *gorm.DB, required bool) error {
	cb := &callback{required: required}
	if err := db.Callback().Query().Before("gorm:query").Register("tenant:query", cb.apply); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenant:row", cb.apply); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenant:update", cb.apply); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("tenant:delete", cb.apply)
}

func (cb *callback) apply(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Context == nil || stmt.Unscoped {
		return
	}
	// tenants, and raw statements built outside of a model, are left alone
	if stmt.Schema == nil || stmt.Schema.LookUpField(column) == nil {
		return
	}
	if hasTenantCondition(stmt) {
		return
	}

	tenantID := logger.GetTenantID(stmt.Context)
	if tenantID == "" {
		if cb.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: tenantID},
	}})
}

func hasTenantCondition(stmt *gorm.Statement) bool {
	if c, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if mentionsTenant(expr) {
					return true
				}
			}
		}
	}
	return false
}

func mentionsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == column
		}
		if s, ok := e.Column.(string); ok {
			return strings.HasSuffix(s, column)
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == column
		}
	case clause.Expr:
		return strings.Contains(e.SQL, column)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, column)
	case clause.AndConditions:
		for _, c := range e.Exprs {
			if mentionsTenant(c) {
				return true
			}
		}
	case clause.OrConditions:
		for _, c := range e.Exprs {
			if mentionsTenant(c) {
				return true
			}
		}
	}
	return false
}
