package snapshot

import (
	"testing"
	"time"

	"github.com/glowstock/backend/internal/domain/finance"
	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, name string) inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(name, inventory.CategorySkincare)
	require.NoError(t, err)
	return *item
}

func TestNewSnapshot(t *testing.T) {
	s := New()
	assert.NotNil(t, s.Items)
	assert.NotNil(t, s.Purchases)
	assert.True(t, s.Settings.WeightCostPerLb.Equal(decimal.NewFromFloat(7.00)))
	assert.True(t, s.Settings.TaxRatePercent.Equal(decimal.NewFromFloat(10.0)))
}

func TestNormalizeFillsDefaults(t *testing.T) {
	s := &Snapshot{}
	s.Normalize()

	assert.NotNil(t, s.Sales)
	assert.NotNil(t, s.RevenueWithdrawals)
	assert.NotNil(t, s.Branches)
	assert.False(t, s.Settings.WeightCostPerLb.IsZero())
}

func TestCloneIsolation(t *testing.T) {
	s := New()
	s.Items = append(s.Items, newTestItem(t, "Serum"))

	clone := s.Clone()
	clone.Items[0].Stock = 99
	clone.Items = append(clone.Items, newTestItem(t, "Mask"))

	assert.Equal(t, 0, s.Items[0].Stock)
	assert.Len(t, s.Items, 1)
	assert.Len(t, clone.Items, 2)
}

func TestFindersReturnPointersIntoSlices(t *testing.T) {
	s := New()
	s.Items = append(s.Items, newTestItem(t, "Serum"))
	id := s.Items[0].ID

	item := s.FindItem(id)
	require.NotNil(t, item)
	item.Stock = 5
	assert.Equal(t, 5, s.Items[0].Stock)

	assert.Nil(t, s.FindItem(uuid.New()))
}

func TestItemWeights(t *testing.T) {
	s := New()
	weighted := newTestItem(t, "Heavy Cream")
	weighted.WeightLbs = decimal.NewFromFloat(0.5)
	weightless := newTestItem(t, "Sample")
	s.Items = append(s.Items, weighted, weightless)

	weights := s.ItemWeights()
	assert.Len(t, weights, 1)
	assert.True(t, weights[weighted.ID].Equal(decimal.NewFromFloat(0.5)))
}

func TestRemoveOperations(t *testing.T) {
	s := New()
	item := newTestItem(t, "Serum")
	s.Items = append(s.Items, item)

	t.Run("remove existing", func(t *testing.T) {
		require.NoError(t, s.RemoveItem(item.ID))
		assert.Empty(t, s.Items)
	})

	t.Run("remove missing", func(t *testing.T) {
		assert.ErrorIs(t, s.RemoveItem(uuid.New()), shared.ErrNotFound)
		_, err := s.RemovePurchase(uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = s.RemoveSale(uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = s.RemoveTransaction(uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRemoveWithdrawalsCascade(t *testing.T) {
	s := New()
	purchaseID := uuid.New()
	txID := uuid.New()

	forPurchase, err := finance.NewRevenueWithdrawal(decimal.NewFromInt(10), "Restock", "")
	require.NoError(t, err)
	forPurchase.LinkPurchase(purchaseID)

	forTx, err := finance.NewRevenueWithdrawal(decimal.NewFromInt(5), "Transaction: fee", "")
	require.NoError(t, err)
	forTx.LinkTransaction(txID)

	unrelated, err := finance.NewRevenueWithdrawal(decimal.NewFromInt(3), "Other", "")
	require.NoError(t, err)

	s.RevenueWithdrawals = []finance.RevenueWithdrawal{*forPurchase, *forTx, *unrelated}

	assert.Equal(t, 1, s.RemoveWithdrawalsForPurchase(purchaseID))
	assert.Equal(t, 1, s.RemoveWithdrawalsForTransaction(txID))
	assert.Equal(t, 0, s.RemoveWithdrawalsForTransaction(uuid.New()))
	require.Len(t, s.RevenueWithdrawals, 1)
	assert.Equal(t, "Other", s.RevenueWithdrawals[0].Reason)
}

func TestLedgerDerivation(t *testing.T) {
	s := New()
	sale, err := trade.NewSale(time.Now(), "", trade.PaymentMethodCash, 0,
		[]trade.SaleLine{{ItemID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(25)}}, "")
	require.NoError(t, err)
	s.Sales = append(s.Sales, *sale)

	ledger := s.Ledger()
	assert.True(t, ledger.TotalRevenue.Equal(decimal.NewFromInt(50)))
	assert.True(t, ledger.AvailableRevenue.Equal(decimal.NewFromInt(50)))
}
