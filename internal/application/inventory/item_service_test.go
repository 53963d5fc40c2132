package inventory

import (
	"context"
	"testing"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newItemService() *ItemService {
	return NewItemService(persistence.NewMemoryStore(), zap.NewNop())
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestCreateAndListItems(t *testing.T) {
	svc := newItemService()
	ctx := context.Background()

	for _, req := range []CreateItemRequest{
		{Name: "Vitamin C Serum", Category: "skincare"},
		{Name: "Matte Lipstick", Category: "makeup"},
		{Name: "Night Serum", Category: "skincare"},
	} {
		_, err := svc.CreateItem(ctx, req)
		require.NoError(t, err)
	}

	t.Run("all items sorted by name", func(t *testing.T) {
		items, err := svc.ListItems(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Matte Lipstick", items[0].Name)
		assert.Equal(t, "Night Serum", items[1].Name)
		assert.Equal(t, "Vitamin C Serum", items[2].Name)
	})

	t.Run("category filter", func(t *testing.T) {
		items, err := svc.ListItems(ctx, "makeup", "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Matte Lipstick", items[0].Name)
	})

	t.Run("case-insensitive search", func(t *testing.T) {
		items, err := svc.ListItems(ctx, "", "SERUM")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("invalid category rejected", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, CreateItemRequest{Name: "Gummies", Category: "vitamins"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})
}

func TestUpdateItemPartial(t *testing.T) {
	svc := newItemService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemRequest{Name: "Serum", Category: "skincare", Notes: "restock soon"})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, item.ID, UpdateItemRequest{
		Name:  strPtr("Renamed Serum"),
		Stock: intPtr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Serum", updated.Name)
	assert.Equal(t, 12, updated.Stock)
	// untouched fields survive
	assert.Equal(t, "restock soon", updated.Notes)

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, item.ID, UpdateItemRequest{Name: strPtr("")})
		assert.Error(t, err)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, uuid.New(), UpdateItemRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDeleteItem(t *testing.T) {
	svc := newItemService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemRequest{Name: "Serum", Category: "skincare"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	_, err = svc.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteItem(ctx, item.ID), shared.ErrNotFound)
}

func TestPricingOperations(t *testing.T) {
	svc := newItemService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemRequest{Name: "Serum", Category: "skincare"})
	require.NoError(t, err)

	overridden, err := svc.OverridePricing(ctx, item.ID, OverridePricingRequest{MinPrice: 30, MaxPrice: 40})
	require.NoError(t, err)
	assert.True(t, overridden.MinPrice.Equal(decimal.NewFromInt(30)))
	assert.True(t, overridden.MaxPrice.Equal(decimal.NewFromInt(40)))

	t.Run("recalculate discards the override", func(t *testing.T) {
		recalced, err := svc.RecalculatePricing(ctx, item.ID)
		require.NoError(t, err)
		// no cost history yet, so the band derives from a zero cost
		assert.True(t, recalced.MinPrice.Equal(decimal.NewFromInt(5)))
		assert.True(t, recalced.MaxPrice.Equal(decimal.NewFromInt(10)))
	})

	t.Run("inverted band rejected", func(t *testing.T) {
		_, err := svc.OverridePricing(ctx, item.ID, OverridePricingRequest{MinPrice: 40, MaxPrice: 30})
		assert.Error(t, err)
	})
}

func TestAddImage(t *testing.T) {
	svc := newItemService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemRequest{Name: "Serum", Category: "skincare"})
	require.NoError(t, err)

	_, err = svc.AddImage(ctx, item.ID, ItemImageRequest{Data: "data:image/png;base64,aaa", Primary: true})
	require.NoError(t, err)
	updated, err := svc.AddImage(ctx, item.ID, ItemImageRequest{Data: "data:image/png;base64,bbb", Primary: true})
	require.NoError(t, err)

	// the new primary displaces the old one
	require.Len(t, updated.Images, 2)
	assert.False(t, updated.Images[0].Primary)
	assert.True(t, updated.Images[1].Primary)
	primary := updated.PrimaryImage()
	require.NotNil(t, primary)
	assert.Equal(t, "data:image/png;base64,bbb", primary.Data)
}

func TestAddCompetitorPrice(t *testing.T) {
	svc := newItemService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemRequest{Name: "Serum", Category: "skincare"})
	require.NoError(t, err)

	updated, err := svc.AddCompetitorPrice(ctx, item.ID, CompetitorPriceRequest{Source: "Sephora", Price: 34.99})
	require.NoError(t, err)
	require.Len(t, updated.CompetitorPrices, 1)
	assert.Equal(t, "Sephora", updated.CompetitorPrices[0].Source)
	assert.True(t, updated.CompetitorPrices[0].Price.Equal(decimal.NewFromFloat(34.99)))
}
