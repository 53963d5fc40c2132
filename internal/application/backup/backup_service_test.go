package backup

import (
	"context"
	"testing"

	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/glowstock/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBackupService() (*BackupService, *persistence.MemoryStore) {
	store := persistence.NewMemoryStore()
	return NewBackupService(store, zap.NewNop()), store
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, store := newBackupService()
	ctx := context.Background()

	snap := snapshot.New()
	item, err := inventory.NewItem("Serum", inventory.CategorySkincare)
	require.NoError(t, err)
	item.Stock = 4
	snap.Items = append(snap.Items, *item)
	require.NoError(t, store.Save(ctx, snap))

	data, err := svc.Export(ctx)
	require.NoError(t, err)

	// wipe, then restore from the export
	require.NoError(t, store.Save(ctx, snapshot.New()))
	require.NoError(t, svc.Import(ctx, data))

	restored, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, "Serum", restored.Items[0].Name)
	assert.Equal(t, 4, restored.Items[0].Stock)
}

func TestImportInvalidLeavesStateUntouched(t *testing.T) {
	svc, store := newBackupService()
	ctx := context.Background()

	snap := snapshot.New()
	item, err := inventory.NewItem("Serum", inventory.CategorySkincare)
	require.NoError(t, err)
	snap.Items = append(snap.Items, *item)
	require.NoError(t, store.Save(ctx, snap))

	err = svc.Import(ctx, []byte(`{"nothing": true}`))
	assert.ErrorIs(t, err, shared.ErrInvalidBackup)

	current, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, current.Items, 1)
}

func TestUpdateSettings(t *testing.T) {
	svc, _ := newBackupService()
	ctx := context.Background()

	rate := 8.5
	settings, err := svc.UpdateSettings(ctx, UpdateSettingsRequest{TaxRatePercent: &rate})
	require.NoError(t, err)
	assert.True(t, settings.TaxRatePercent.Equal(decimal.NewFromFloat(8.5)))
	// untouched field keeps its default
	assert.True(t, settings.WeightCostPerLb.Equal(decimal.NewFromFloat(7.00)))

	got, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.TaxRatePercent.Equal(decimal.NewFromFloat(8.5)))
}

func TestBranches(t *testing.T) {
	svc, _ := newBackupService()
	ctx := context.Background()

	branch, err := svc.CreateBranch(ctx, "Polanco")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, branch.ID)

	_, err = svc.CreateBranch(ctx, "")
	assert.Error(t, err)

	branches, err := svc.ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 1)

	require.NoError(t, svc.DeleteBranch(ctx, branch.ID))
	assert.ErrorIs(t, svc.DeleteBranch(ctx, branch.ID), shared.ErrNotFound)
}
