package tenant

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type scopedRow struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Name     string
}

func (scopedRow) TableName() string { return "scoped_rows" }

type globalRow struct {
	ID   uuid.UUID
	Code string
}

func (globalRow) TableName() string { return "global_rows" }

func setupMockDB(t *testing.T, required bool) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, EnableAutoTenantFilter(db, required))
	return db, mock
}

func tenantContext(tenantID string) context.Context {
	return logger.WithTenantID(context.Background(), tenantID)
}

func TestEnableAutoTenantFilter(t *testing.T) {
	t.Run("adds the tenant filter from context", func(t *testing.T) {
		db, mock := setupMockDB(t, true)
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "scoped_rows" WHERE "scoped_rows"."tenant_id" = \$1`).
			WithArgs(tenantID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var rows []scopedRow
		require.NoError(t, db.WithContext(tenantContext(tenantID.String())).Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps an explicit tenant condition", func(t *testing.T) {
		db, mock := setupMockDB(t, true)
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "scoped_rows" WHERE tenant_id = \$1$`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var rows []scopedRow
		err := db.WithContext(tenantContext(uuid.NewString())).Scopes(Scope(tenantID)).Find(&rows).Error
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails without a tenant when required", func(t *testing.T) {
		db, _ := setupMockDB(t, true)

		var rows []scopedRow
		err := db.WithContext(context.Background()).Find(&rows).Error
		assert.ErrorIs(t, err, ErrTenantIDRequired)
	})

	t.Run("rejects a malformed tenant", func(t *testing.T) {
		db, _ := setupMockDB(t, true)

		var rows []scopedRow
		err := db.WithContext(tenantContext("club-1")).Find(&rows).Error
		assert.ErrorIs(t, err, ErrInvalidTenantID)
	})

	t.Run("passes through when not required", func(t *testing.T) {
		db, mock := setupMockDB(t, false)

		mock.ExpectQuery(`SELECT \* FROM "scoped_rows"$`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var rows []scopedRow
		require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ignores tables without a tenant column", func(t *testing.T) {
		db, mock := setupMockDB(t, true)

		mock.ExpectQuery(`SELECT \* FROM "global_rows"$`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))

		var rows []globalRow
		require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestScopeTable(t *testing.T) {
	db, mock := setupMockDB(t, false)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "scoped_rows" WHERE m.tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var rows []scopedRow
	require.NoError(t, db.Scopes(ScopeTable("m", tenantID)).Find(&rows).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
