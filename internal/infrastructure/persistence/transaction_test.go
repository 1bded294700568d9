package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionManager(t *testing.T) {
	db := setupTestDB(t)
	tm := NewGormTransactionManager(db)
	repo := NewGormDuesRepository(db)
	tenantID := uuid.New()
	period := dues.Period{Year: 2026, Month: 3}

	t.Run("rolls back every repository write on error", func(t *testing.T) {
		record := newDuesRecord(t, tenantID, uuid.New(), period, "150")
		boom := errors.New("boom")

		err := tm.WithinTransaction(context.Background(), func(ctx context.Context) error {
			assert.True(t, InTransaction(ctx))
			require.NoError(t, repo.CreateBatch(ctx, []*dues.DuesRecord{record}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = repo.FindByIDForTenant(context.Background(), tenantID, record.ID)
		assert.Error(t, err)
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		record := newDuesRecord(t, tenantID, uuid.New(), period, "150")

		err := tm.WithinTransaction(context.Background(), func(ctx context.Context) error {
			return tm.WithinTransaction(ctx, func(inner context.Context) error {
				return repo.CreateBatch(inner, []*dues.DuesRecord{record})
			})
		})
		require.NoError(t, err)

		found, err := repo.FindByIDForTenant(context.Background(), tenantID, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, found.ID)
	})

	assert.False(t, InTransaction(context.Background()))
}
