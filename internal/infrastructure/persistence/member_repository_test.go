package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func saveCategory(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, fee string, dueDay int) *membership.Category {
	t.Helper()
	c, err := membership.NewCategory(tenantID, name, decimal.RequireFromString(fee), dueDay)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(context.Background(), c))
	return c
}

func saveMember(t *testing.T, db *gorm.DB, tenantID uuid.UUID, registration, name, cpf string, category *membership.Category) *membership.Member {
	t.Helper()
	m, err := membership.NewMember(tenantID, membership.NewMemberInput{
		RegistrationNumber: registration,
		Name:               name,
		CPF:                cpf,
		AdmissionDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Category:           category,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormMemberRepository(db).Save(context.Background(), m))
	return m
}

func TestGormMemberRepository_SaveReplacesDependents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemberRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	category := saveCategory(t, db, tenantID, "Titular", "150.00", 10)
	member := saveMember(t, db, tenantID, "0001", "Ana Souza", "529.982.247-25", category)

	_, err := member.AddDependent(membership.DependentInput{Name: "Bruno Souza", Relationship: membership.RelationshipChild})
	require.NoError(t, err)
	spouse, err := member.AddDependent(membership.DependentInput{Name: "Carla Souza", Relationship: membership.RelationshipSpouse})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, member))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, member.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Dependents, 2)
	assert.Equal(t, "Bruno Souza", loaded.Dependents[0].Name)
	assert.Equal(t, "52998224725", loaded.CPF.Digits())

	require.NoError(t, loaded.RemoveDependent(spouse.ID))
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, member.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Dependents, 1)
	assert.Equal(t, "Bruno Souza", reloaded.Dependents[0].Name)
}

func TestGormMemberRepository_TenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemberRepository(db)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()
	member := saveMember(t, db, tenantA, "0001", "Ana Souza", "52998224725", saveCategory(t, db, tenantA, "Titular", "150", 10))
	// same registration and CPF in another club is allowed
	saveMember(t, db, tenantB, "0001", "Ana Souza", "52998224725", saveCategory(t, db, tenantB, "Titular", "90", 5))

	_, err := repo.FindByIDForTenant(ctx, tenantB, member.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	taken, err := repo.ExistsByRegistration(ctx, tenantA, "0001", nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.ExistsByRegistration(ctx, tenantA, "0001", &member.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.ExistsByCPF(ctx, tenantA, "529.982.247-25", nil)
	require.NoError(t, err)
	assert.True(t, taken)

	count, err := repo.CountForTenant(ctx, tenantA, membership.MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormMemberRepository_FindAllForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemberRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	titular := saveCategory(t, db, tenantID, "Titular", "150", 10)
	remido := saveCategory(t, db, tenantID, "Remido", "0", 10)
	saveMember(t, db, tenantID, "0001", "Ana Souza", "52998224725", titular)
	saveMember(t, db, tenantID, "0002", "Bruno Lima", "11144477735", titular)
	carlos := saveMember(t, db, tenantID, "0003", "Carlos Dias", "39053344705", remido)
	require.NoError(t, carlos.ChangeStatus(membership.MemberStatusSuspended, "dues"))
	require.NoError(t, repo.Save(ctx, carlos))

	t.Run("searches by name", func(t *testing.T) {
		members, err := repo.FindAllForTenant(ctx, tenantID, membership.MemberFilter{Filter: shared.Filter{Search: "souza"}})
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "Ana Souza", members[0].Name)
	})

	t.Run("searches by CPF digits", func(t *testing.T) {
		members, err := repo.FindAllForTenant(ctx, tenantID, membership.MemberFilter{Filter: shared.Filter{Search: "111.444"}})
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "Bruno Lima", members[0].Name)
	})

	t.Run("filters by status and category", func(t *testing.T) {
		status := membership.MemberStatusSuspended
		members, err := repo.FindAllForTenant(ctx, tenantID, membership.MemberFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, carlos.ID, members[0].ID)

		members, err = repo.FindAllForTenant(ctx, tenantID, membership.MemberFilter{CategoryID: &titular.ID})
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("orders by whitelisted field", func(t *testing.T) {
		members, err := repo.FindAllForTenant(ctx, tenantID, membership.MemberFilter{
			Filter: shared.Filter{OrderBy: "name", OrderDir: "asc"},
		})
		require.NoError(t, err)
		require.Len(t, members, 3)
		assert.Equal(t, "Ana Souza", members[0].Name)
		assert.Equal(t, "Carlos Dias", members[2].Name)
	})
}

func TestGormMemberRepository_DeleteForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemberRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	member := saveMember(t, db, tenantID, "0001", "Ana Souza", "52998224725", saveCategory(t, db, tenantID, "Titular", "150", 10))

	assert.ErrorIs(t, repo.DeleteForTenant(ctx, uuid.New(), member.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, member.ID))
	_, err := repo.FindByIDForTenant(ctx, tenantID, member.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	category := saveCategory(t, db, tenantID, "Titular", "150", 10)

	t.Run("name check is case-insensitive", func(t *testing.T) {
		taken, err := repo.ExistsByName(ctx, tenantID, "  TITULAR ", nil)
		require.NoError(t, err)
		assert.True(t, taken)
		taken, err = repo.ExistsByName(ctx, tenantID, "titular", &category.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("in use once a member references it", func(t *testing.T) {
		used, err := repo.IsInUse(ctx, tenantID, category.ID)
		require.NoError(t, err)
		assert.False(t, used)

		saveMember(t, db, tenantID, "0001", "Ana Souza", "52998224725", category)
		used, err = repo.IsInUse(ctx, tenantID, category.ID)
		require.NoError(t, err)
		assert.True(t, used)
	})

	t.Run("round trips the fee", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, tenantID, category.ID)
		require.NoError(t, err)
		assert.True(t, loaded.MonthlyFee.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, 10, loaded.DueDay)
	})
}

func TestGormAffiliationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAffiliationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	a, err := membership.NewAffiliation(tenantID, "Sindicato dos Bancários")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, a))

	list, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "bancários"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	used, err := repo.IsInUse(ctx, tenantID, a.ID)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, a.ID))
	assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, a.ID), shared.ErrNotFound)
}
