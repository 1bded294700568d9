package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCollectionRepositories(t *testing.T) {
	db := setupTestDB(t)
	templates := NewGormTemplateRepository(db)
	campaigns := NewGormCampaignRepository(db)
	dispatches := NewGormDispatchRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	tmpl, err := collection.NewTemplate(tenantID, "Lembrete", collection.ChannelEmail, "Mensalidade em aberto", "Olá {{.MemberName}}")
	require.NoError(t, err)
	require.NoError(t, templates.Save(ctx, tmpl))

	campaign, err := collection.NewCampaign(tenantID, "Inadimplentes março", tmpl,
		[]finance.ObligationStatus{finance.StatusOverdue, finance.StatusPending}, 5)
	require.NoError(t, err)
	require.NoError(t, campaigns.Save(ctx, campaign))

	t.Run("target statuses round trip through JSON", func(t *testing.T) {
		loaded, err := campaigns.FindByIDForTenant(ctx, tenantID, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, []finance.ObligationStatus{finance.StatusOverdue, finance.StatusPending}, loaded.TargetStatuses)
		assert.Equal(t, 5, loaded.MinDaysOverdue)
	})

	t.Run("template in use", func(t *testing.T) {
		used, err := templates.IsInUse(ctx, tenantID, tmpl.ID)
		require.NoError(t, err)
		assert.True(t, used)
	})

	t.Run("dispatches keyed by member and record", func(t *testing.T) {
		ok := collection.NewDispatch(campaign, collection.DispatchKey{MemberID: uuid.New(), DuesRecordID: uuid.New()},
			collection.ChannelEmail, "ana@example.com", "Mensalidade", "Olá Ana")
		failed := collection.NewDispatch(campaign, collection.DispatchKey{MemberID: uuid.New(), DuesRecordID: uuid.New()},
			collection.ChannelEmail, "bruno@example.com", "Mensalidade", "Olá Bruno")
		require.NoError(t, dispatches.Create(ctx, []*collection.Dispatch{ok, failed}))

		ok.MarkSent(time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC))
		require.NoError(t, dispatches.Save(ctx, ok))
		failed.MarkFailed(errors.New("mailbox unavailable"))
		require.NoError(t, dispatches.Save(ctx, failed))

		all, err := dispatches.FindAllByCampaign(ctx, tenantID, campaign.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, collection.DispatchSent, all[ok.Key()].Status)
		assert.Equal(t, "mailbox unavailable", all[failed.Key()].LastError)

		status := collection.DispatchFailed
		count, err := dispatches.CountByCampaign(ctx, tenantID, campaign.ID, collection.DispatchFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("deleting a campaign removes its dispatches", func(t *testing.T) {
		require.NoError(t, campaigns.DeleteForTenant(ctx, tenantID, campaign.ID))
		all, err := dispatches.FindAllByCampaign(ctx, tenantID, campaign.ID)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
