package trade

import (
	"context"
	"testing"
	"time"

	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/glowstock/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func f64(v float64) *float64 { return &v }

func seedItem(t *testing.T, snap *snapshot.Snapshot, name string, weightLbs float64) inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(name, inventory.CategorySkincare)
	require.NoError(t, err)
	item.WeightLbs = decimal.NewFromFloat(weightLbs)
	snap.Items = append(snap.Items, *item)
	return *item
}

func seedRevenue(t *testing.T, snap *snapshot.Snapshot, amount float64) {
	t.Helper()
	sale, err := trade.NewSale(time.Now(), "", trade.PaymentMethodCash, 0,
		[]trade.SaleLine{{ItemID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromFloat(amount)}}, "")
	require.NoError(t, err)
	snap.Sales = append(snap.Sales, *sale)
}

func TestCreatePurchase(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	seed := snapshot.New()
	serum := seedItem(t, seed, "Serum", 1.0)
	seedRevenue(t, seed, 100)
	require.NoError(t, store.Save(ctx, seed))

	svc := NewPurchaseService(store, zap.NewNop())

	purchase, err := svc.CreatePurchase(ctx, CreatePurchaseRequest{
		Lines: []PurchaseLineRequest{
			{ItemID: serum.ID.String(), Quantity: 2, UnitCost: 10},
			{NewItem: &QuickAddItemRequest{Name: "Lip Kit", Category: "makeup", WeightLbs: 3.0}, Quantity: 2, UnitCost: 5},
		},
		Tax:          f64(6),
		ShippingUS:   8,
		ShippingIntl: f64(8),
		RevenueToUse: 20,
	})
	require.NoError(t, err)

	// subtotal defaults to the line sum
	assert.True(t, purchase.Subtotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, purchase.TotalCost().Equal(decimal.NewFromInt(52)))

	// tax follows cost share, US shipping is equal per unit, intl follows
	// weight share (serum 2 lbs of 8, lip kits 6 lbs of 8)
	require.Len(t, purchase.Lines, 2)
	serumLine, kitLine := purchase.Lines[0], purchase.Lines[1]
	assert.True(t, serumLine.PerUnitTax.Equal(decimal.NewFromInt(2)), "serum tax %s", serumLine.PerUnitTax)
	assert.True(t, serumLine.PerUnitShippingUS.Equal(decimal.NewFromInt(2)))
	assert.True(t, serumLine.PerUnitShippingIntl.Equal(decimal.NewFromInt(1)))
	assert.True(t, serumLine.UnitCostPostShipping.Equal(decimal.NewFromInt(15)))
	assert.True(t, kitLine.PerUnitTax.Equal(decimal.NewFromInt(1)), "kit tax %s", kitLine.PerUnitTax)
	assert.True(t, kitLine.PerUnitShippingIntl.Equal(decimal.NewFromInt(3)))
	assert.True(t, kitLine.UnitCostPostShipping.Equal(decimal.NewFromInt(11)))

	// funding stamps
	assert.Equal(t, trade.PaymentSourceMixed, purchase.PaymentSource)
	assert.True(t, purchase.RevenueUsed.Equal(decimal.NewFromInt(20)))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Purchases, 1)
	require.Len(t, snap.Items, 2)

	// stock and landed costs pushed into inventory, pricing re-derived
	updatedSerum := snap.FindItem(serum.ID)
	require.NotNil(t, updatedSerum)
	assert.Equal(t, 2, updatedSerum.Stock)
	assert.True(t, updatedSerum.CostPostShipping.Equal(decimal.NewFromInt(15)))
	assert.True(t, updatedSerum.MinPrice.Equal(decimal.NewFromInt(20)))
	assert.True(t, updatedSerum.MaxPrice.Equal(decimal.NewFromInt(25)))

	kit := snap.FindItem(kitLine.ItemID)
	require.NotNil(t, kit)
	assert.Equal(t, "Lip Kit", kit.Name)
	assert.Equal(t, inventory.CategoryMakeup, kit.Category)
	assert.Equal(t, 2, kit.Stock)
	assert.True(t, kit.MinPrice.Equal(decimal.NewFromInt(16)))

	// the withdrawal is linked to the purchase
	require.Len(t, snap.RevenueWithdrawals, 1)
	require.NotNil(t, snap.RevenueWithdrawals[0].PurchaseID)
	assert.Equal(t, purchase.ID, *snap.RevenueWithdrawals[0].PurchaseID)
}

func TestCreatePurchaseSuggestedAggregates(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	seed := snapshot.New()
	serum := seedItem(t, seed, "Serum", 0)
	require.NoError(t, store.Save(ctx, seed))

	svc := NewPurchaseService(store, zap.NewNop())

	purchase, err := svc.CreatePurchase(ctx, CreatePurchaseRequest{
		Lines:     []PurchaseLineRequest{{ItemID: serum.ID.String(), Quantity: 4, UnitCost: 25}},
		WeightLbs: 2,
	})
	require.NoError(t, err)

	// default settings: 10% tax on the 100 subtotal, 7.00/lb on 2 lbs
	assert.True(t, purchase.Tax.Equal(decimal.NewFromInt(10)), "tax %s", purchase.Tax)
	assert.True(t, purchase.ShippingIntl.Equal(decimal.NewFromInt(14)), "intl %s", purchase.ShippingIntl)
	assert.Equal(t, trade.PaymentSourceExternal, purchase.PaymentSource)
}

func TestCreatePurchaseRejectsInsufficientRevenue(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	seed := snapshot.New()
	serum := seedItem(t, seed, "Serum", 0)
	seedRevenue(t, seed, 10)
	require.NoError(t, store.Save(ctx, seed))

	svc := NewPurchaseService(store, zap.NewNop())

	_, err := svc.CreatePurchase(ctx, CreatePurchaseRequest{
		Lines:        []PurchaseLineRequest{{ItemID: serum.ID.String(), Quantity: 1, UnitCost: 50}},
		Tax:          f64(0),
		ShippingIntl: f64(0),
		RevenueToUse: 50,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_REVENUE", domainErr.Code)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Purchases)
	assert.Equal(t, 0, snap.FindItem(serum.ID).Stock)
}

func TestUpdatePurchaseStockDelta(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	seed := snapshot.New()
	serum := seedItem(t, seed, "Serum", 0)
	require.NoError(t, store.Save(ctx, seed))

	svc := NewPurchaseService(store, zap.NewNop())

	purchase, err := svc.CreatePurchase(ctx, CreatePurchaseRequest{
		Lines:        []PurchaseLineRequest{{ItemID: serum.ID.String(), Quantity: 2, UnitCost: 10}},
		Tax:          f64(0),
		ShippingIntl: f64(0),
	})
	require.NoError(t, err)

	t.Run("quantity change moves stock by the delta", func(t *testing.T) {
		_, err := svc.UpdatePurchase(ctx, purchase.ID, UpdatePurchaseRequest{
			Lines:        []PurchaseLineRequest{{ItemID: serum.ID.String(), Quantity: 5, UnitCost: 10}},
			Tax:          f64(0),
			ShippingIntl: f64(0),
		})
		require.NoError(t, err)

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, snap.FindItem(serum.ID).Stock)
		require.Len(t, snap.Purchases, 1)
		assert.Equal(t, 5, snap.Purchases[0].TotalUnits())
	})

	t.Run("cost-only change leaves stock alone", func(t *testing.T) {
		updated, err := svc.UpdatePurchase(ctx, purchase.ID, UpdatePurchaseRequest{
			Lines:        []PurchaseLineRequest{{ItemID: serum.ID.String(), Quantity: 5, UnitCost: 12}},
			Tax:          f64(0),
			ShippingIntl: f64(0),
		})
		require.NoError(t, err)

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		item := snap.FindItem(serum.ID)
		assert.Equal(t, 5, item.Stock)
		assert.True(t, item.CostPostShipping.Equal(decimal.NewFromInt(12)))
		assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(60)))
	})

	t.Run("identity and funding preserved", func(t *testing.T) {
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, purchase.ID, snap.Purchases[0].ID)
		assert.Equal(t, trade.PaymentSourceExternal, snap.Purchases[0].PaymentSource)
	})

	t.Run("missing purchase", func(t *testing.T) {
		_, err := svc.UpdatePurchase(ctx, uuid.New(), UpdatePurchaseRequest{
			Lines: []PurchaseLineRequest{{ItemID: serum.ID.String(), Quantity: 1, UnitCost: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDeletePurchase(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	seed := snapshot.New()
	serum := seedItem(t, seed, "Serum", 0)
	seedRevenue(t, seed, 100)
	require.NoError(t, store.Save(ctx, seed))

	svc := NewPurchaseService(store, zap.NewNop())
	saleSvc := NewSaleService(store, zap.NewNop())

	purchase, err := svc.CreatePurchase(ctx, CreatePurchaseRequest{
		Lines:        []PurchaseLineRequest{{ItemID: serum.ID.String(), Quantity: 3, UnitCost: 10}},
		Tax:          f64(0),
		ShippingIntl: f64(0),
		RevenueToUse: 30,
	})
	require.NoError(t, err)

	// sell two of the three purchased units, then delete the purchase:
	// stock clamps at zero instead of going negative
	_, err = saleSvc.CreateSale(ctx, CreateSaleRequest{
		PaymentMethod: "cash",
		Lines:         []SaleLineRequest{{ItemID: serum.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePurchase(ctx, purchase.ID))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Purchases)
	assert.Equal(t, 0, snap.FindItem(serum.ID).Stock)
	assert.Empty(t, snap.RevenueWithdrawals, "funding withdrawal should cascade")

	assert.ErrorIs(t, svc.DeletePurchase(ctx, uuid.New()), shared.ErrNotFound)
}

func TestPreviewAllocationDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	seed := snapshot.New()
	serum := seedItem(t, seed, "Serum", 0)
	require.NoError(t, store.Save(ctx, seed))

	svc := NewPurchaseService(store, zap.NewNop())

	lines, err := svc.PreviewAllocation(ctx, CreatePurchaseRequest{
		Lines: []PurchaseLineRequest{
			{ItemID: serum.ID.String(), Quantity: 2, UnitCost: 10},
			{NewItem: &QuickAddItemRequest{Name: "Mask", Category: "skincare"}, Quantity: 2, UnitCost: 10},
		},
		Tax:          f64(4),
		ShippingUS:   8,
		ShippingIntl: f64(0),
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].PerUnitTax.Equal(decimal.NewFromInt(1)))
	assert.True(t, lines[0].PerUnitShippingUS.Equal(decimal.NewFromInt(2)))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Purchases)
	assert.Len(t, snap.Items, 1, "preview must not create the quick-add item")
	assert.Equal(t, 0, snap.FindItem(serum.ID).Stock)
}
