package persistence

import (
	"errors"
	"strings"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// translate maps GORM errors to domain errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// paginate orders by a whitelisted column and applies offset/limit
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	f := filter.Normalize()
	field := ValidateSortField(f.OrderBy, allowed, defaultField)
	return query.
		Order(field + " " + ValidateSortOrder(f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize)
}

// likePattern builds a case-insensitive contains pattern, escaping LIKE wildcards
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(search))) + "%"
}

// exists reports whether query matches at least one row
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// deleted turns a delete result into ErrNotFound when no row matched
func deleted(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// excluding drops the row being edited from a uniqueness check
func excluding(query *gorm.DB, excludeID *uuid.UUID) *gorm.DB {
	if excludeID != nil {
		return query.Where("id <> ?", *excludeID)
	}
	return query
}
