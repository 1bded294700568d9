package persistence

import (
	"context"
	"testing"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/partner"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTenantRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	active, err := identity.NewTenant("clube-centro", "Clube Centro")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))
	suspended, err := identity.NewTenant("clube-norte", "Clube Norte")
	require.NoError(t, err)
	suspended.Status = identity.TenantStatusSuspended
	require.NoError(t, repo.Save(ctx, suspended))

	found, err := repo.FindByCode(ctx, " CLUBE-CENTRO ")
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	exists, err := repo.ExistsByCode(ctx, "clube-norte")
	require.NoError(t, err)
	assert.True(t, exists)

	list, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "clube-centro", list[0].Code)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	admin, err := identity.NewUser(tenantID, "Admin", "segredo123", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, admin))
	staff, err := identity.NewUser(tenantID, "secretaria", "segredo123", identity.RoleStaff)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, staff))

	found, err := repo.FindByUsername(ctx, tenantID, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
	assert.True(t, found.VerifyPassword("segredo123"))

	_, err = repo.FindByUsername(ctx, uuid.New(), "admin")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	admins, err := repo.CountActiveAdmins(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)

	role := identity.RoleStaff
	users, err := repo.FindAllForTenant(ctx, tenantID, identity.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "secretaria", users[0].Username)

	taken, err := repo.ExistsByUsername(ctx, tenantID, "Secretaria")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestGormSupplierRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSupplierRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	supplier, err := partner.NewSupplier(tenantID, partner.SupplierInput{
		Name:      "Distribuidora Boa Água Ltda",
		TradeName: "Boa Água",
		Document:  "11.222.333/0001-81",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, supplier))

	taken, err := repo.ExistsByDocument(ctx, tenantID, "11222333000181", nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.ExistsByDocument(ctx, tenantID, "11222333000181", &supplier.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	list, err := repo.FindAllForTenant(ctx, tenantID, partner.SupplierFilter{Filter: shared.Filter{Search: "11.222"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "11222333000181", list[0].Document.Digits())

	referenced, err := repo.IsReferenced(ctx, tenantID, supplier.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, supplier.ID))
	assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, supplier.ID), shared.ErrNotFound)
}
