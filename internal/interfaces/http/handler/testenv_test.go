package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clube/backend/internal/application/calendar"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/infrastructure/persistence"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/clube/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testEnv is a club backed by an in-memory SQLite database
type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	tenant   *identity.Tenant
	userID   uuid.UUID
	tenants  *persistence.GormTenantRepository
	members  *persistence.GormMemberRepository
	cats     *persistence.GormCategoryRepository
	affs     *persistence.GormAffiliationRepository
	dues     *persistence.GormDuesRepository
	cashes   *persistence.GormCashBoxRepository
	chart    *persistence.GormChartAccountRepository
	ledger   *persistence.GormLedgerEntryRepository
	accounts *persistence.GormAccountRepository
	settings *persistence.GormSettingsRepository
	tx       *persistence.GormTransactionManager
	calendar *calendar.TenantCalendar
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	env := &testEnv{
		t:        t,
		db:       db,
		userID:   uuid.New(),
		tenants:  persistence.NewGormTenantRepository(db),
		members:  persistence.NewGormMemberRepository(db),
		cats:     persistence.NewGormCategoryRepository(db),
		affs:     persistence.NewGormAffiliationRepository(db),
		dues:     persistence.NewGormDuesRepository(db),
		cashes:   persistence.NewGormCashBoxRepository(db),
		chart:    persistence.NewGormChartAccountRepository(db),
		ledger:   persistence.NewGormLedgerEntryRepository(db),
		accounts: persistence.NewGormAccountRepository(db),
		settings: persistence.NewGormSettingsRepository(db),
		tx:       persistence.NewGormTransactionManager(db),
	}
	env.calendar = calendar.NewTenantCalendar(env.tenants)
	env.tenant = env.newTenant("clube-azul")
	return env
}

func (e *testEnv) newTenant(code string) *identity.Tenant {
	e.t.Helper()
	tenant, err := identity.NewTenant(code, "Clube "+code)
	require.NoError(e.t, err)
	require.NoError(e.t, e.tenants.Save(context.Background(), tenant))
	return tenant
}

// seedMember enrolls an active member in a new category with the given fee
func (e *testEnv) seedMember(tenantID uuid.UUID, name, fee string) *membership.Member {
	e.t.Helper()
	ctx := context.Background()
	category, err := membership.NewCategory(tenantID, "Categoria "+name, decimal.RequireFromString(fee), 10)
	require.NoError(e.t, err)
	require.NoError(e.t, e.cats.Save(ctx, category))

	member, err := membership.NewMember(tenantID, membership.NewMemberInput{
		RegistrationNumber: "M-" + uuid.NewString()[:8],
		Name:               name,
		CPF:                "529.982.247-25",
		AdmissionDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:           category,
	})
	require.NoError(e.t, err)
	require.NoError(e.t, e.members.Save(ctx, member))
	return member
}

// engine returns a gin engine acting as an authenticated user of tenantID.
// register mounts the routes under test.
func (e *testEnv) engine(tenantID uuid.UUID, register func(r gin.IRouter)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, e.userID.String())
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.TenantIDKey, tenantID.String())
		c.Next()
	})
	register(r)
	return r
}

// apiResponse keeps data raw for typed decoding
type apiResponse = APIResponse[json.RawMessage]

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Code != http.StatusNoContent && rec.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}
