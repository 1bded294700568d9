package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService() (*UserService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	users := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewUserService(users, blacklist, nil), users, blacklist
}

func TestUserService_Create(t *testing.T) {
	svc, users, _ := newUserService()
	tenantID := uuid.New()
	users.On("ExistsByUsername", mock.Anything, tenantID, "secretaria").Return(false, nil)
	users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	resp, err := svc.Create(context.Background(), tenantID, CreateUserRequest{
		Username: "Secretaria", Password: "senha1234", Email: "sec@clube.org", DisplayName: "Secretaria", Role: "staff",
	})

	require.NoError(t, err)
	assert.Equal(t, "secretaria", resp.Username)
	assert.Equal(t, "STAFF", resp.Role)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, "sec@clube.org", resp.Email)
}

func TestUserService_Create_Rejections(t *testing.T) {
	tenantID := uuid.New()

	t.Run("unknown role", func(t *testing.T) {
		svc, users, _ := newUserService()
		_, err := svc.Create(context.Background(), tenantID, CreateUserRequest{Username: "bob", Password: "senha1234", Role: "owner"})
		assert.ErrorIs(t, err, shared.ErrValidation)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, users, _ := newUserService()
		users.On("ExistsByUsername", mock.Anything, tenantID, "bob").Return(true, nil)
		_, err := svc.Create(context.Background(), tenantID, CreateUserRequest{Username: "bob", Password: "senha1234", Role: "staff"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		svc, users, _ := newUserService()
		users.On("ExistsByUsername", mock.Anything, tenantID, "bob").Return(false, nil)
		_, err := svc.Create(context.Background(), tenantID, CreateUserRequest{Username: "bob", Password: "onlyletters", Role: "staff"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestUserService_Update_LastAdminCannotBeDemoted(t *testing.T) {
	svc, users, _ := newUserService()
	tenantID := uuid.New()
	admin := newTestUser(t, tenantID, "presidente", identity.RoleAdmin)
	users.On("FindByIDForTenant", mock.Anything, tenantID, admin.ID).Return(admin, nil)
	users.On("CountActiveAdmins", mock.Anything, tenantID).Return(int64(1), nil)

	_, err := svc.Update(context.Background(), tenantID, admin.ID, UpdateUserRequest{Role: "finance"})

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, identity.RoleAdmin, admin.Role)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Update_RoleChangeRevokesSessions(t *testing.T) {
	svc, users, blacklist := newUserService()
	tenantID := uuid.New()
	user := newTestUser(t, tenantID, "caixa", identity.RoleStaff)
	users.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)

	resp, err := svc.Update(context.Background(), tenantID, user.ID, UpdateUserRequest{Role: "FINANCE", DisplayName: "Caixa"})

	require.NoError(t, err)
	assert.Equal(t, "FINANCE", resp.Role)
	assert.Equal(t, "Caixa", resp.DisplayName)
	invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_Deactivate(t *testing.T) {
	tenantID := uuid.New()
	actorID := uuid.New()

	t.Run("self", func(t *testing.T) {
		svc, _, _ := newUserService()
		_, err := svc.Deactivate(context.Background(), tenantID, actorID, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("last admin", func(t *testing.T) {
		svc, users, _ := newUserService()
		admin := newTestUser(t, tenantID, "presidente", identity.RoleAdmin)
		users.On("FindByIDForTenant", mock.Anything, tenantID, admin.ID).Return(admin, nil)
		users.On("CountActiveAdmins", mock.Anything, tenantID).Return(int64(1), nil)

		_, err := svc.Deactivate(context.Background(), tenantID, actorID, admin.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("one of two admins", func(t *testing.T) {
		svc, users, _ := newUserService()
		admin := newTestUser(t, tenantID, "vice", identity.RoleAdmin)
		users.On("FindByIDForTenant", mock.Anything, tenantID, admin.ID).Return(admin, nil)
		users.On("CountActiveAdmins", mock.Anything, tenantID).Return(int64(2), nil)
		users.On("Save", mock.Anything, admin).Return(nil)

		resp, err := svc.Deactivate(context.Background(), tenantID, actorID, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, "DEACTIVATED", resp.Status)
	})
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc, users, _ := newUserService()
	tenantID := uuid.New()
	id := uuid.New()
	users.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	err := svc.Delete(context.Background(), tenantID, uuid.New(), id)

	assert.True(t, errors.Is(err, shared.ErrNotFound))
	users.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_List_InvalidFilters(t *testing.T) {
	svc, _, _ := newUserService()

	_, err := svc.List(context.Background(), uuid.New(), UserListFilter{Status: "sleeping"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.List(context.Background(), uuid.New(), UserListFilter{Role: "guest"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUserService_List(t *testing.T) {
	svc, users, _ := newUserService()
	tenantID := uuid.New()
	u := newTestUser(t, tenantID, "caixa", identity.RoleStaff)
	users.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f identity.UserFilter) bool {
		return f.Role != nil && *f.Role == identity.RoleStaff && f.OrderBy == "username"
	})).Return([]identity.User{*u}, nil)
	users.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(1), nil)

	page, err := svc.List(context.Background(), tenantID, UserListFilter{Role: "staff"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "caixa", page.Items[0].Username)
}

// =============================================================================
// TenantService
// =============================================================================

func TestTenantService_Provision(t *testing.T) {
	tenants := new(MockTenantRepository)
	users := new(MockUserRepository)
	tx := new(MockTransactionManager)
	svc := NewTenantService(tenants, users, tx, nil)

	tenants.On("ExistsByCode", mock.Anything, "nautico").Return(false, nil)
	tenants.On("Save", mock.Anything, mock.AnythingOfType("*identity.Tenant")).Return(nil)
	users.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.Role == identity.RoleAdmin && u.Username == "admin"
	})).Return(nil)

	result, err := svc.Provision(context.Background(), CreateTenantInput{
		Code: "Nautico", Name: "Clube Náutico", AdminUsername: "admin", AdminPassword: "senha1234",
	})

	require.NoError(t, err)
	assert.Equal(t, "nautico", result.Tenant.Code)
	assert.Equal(t, identity.DefaultTimezone, result.Tenant.Timezone)
	assert.Equal(t, "ADMIN", result.Admin.Role)
	assert.Equal(t, 1, tx.calls)
}

func TestTenantService_Provision_DuplicateCode(t *testing.T) {
	tenants := new(MockTenantRepository)
	svc := NewTenantService(tenants, new(MockUserRepository), new(MockTransactionManager), nil)
	tenants.On("ExistsByCode", mock.Anything, "nautico").Return(true, nil)

	_, err := svc.Provision(context.Background(), CreateTenantInput{
		Code: "nautico", Name: "Clube Náutico", AdminUsername: "admin", AdminPassword: "senha1234",
	})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestTenantService_Update_Timezone(t *testing.T) {
	tenants := new(MockTenantRepository)
	svc := NewTenantService(tenants, new(MockUserRepository), new(MockTransactionManager), nil)
	tenant := newTestTenant(t)
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	tenants.On("Save", mock.Anything, tenant).Return(nil)

	resp, err := svc.Update(context.Background(), tenant.ID, UpdateTenantRequest{
		Name: "Clube Atlético Paulista", Phone: "(11) 3333-0000", Timezone: "America/Manaus",
	})
	require.NoError(t, err)
	assert.Equal(t, "America/Manaus", resp.Timezone)
	assert.Equal(t, "Clube Atlético Paulista", resp.Name)

	_, err = svc.Update(context.Background(), tenant.ID, UpdateTenantRequest{Name: "X", Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
