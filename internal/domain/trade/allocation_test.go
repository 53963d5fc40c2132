package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLine(itemID uuid.UUID, qty int, unitCost float64) PurchaseLine {
	return PurchaseLine{
		ItemID:   itemID,
		ItemName: "Item",
		Quantity: qty,
		UnitCost: decimal.NewFromFloat(unitCost),
	}
}

func TestAllocatePurchase_USShippingEqualPerUnit(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lines := []PurchaseLine{
		makeLine(a, 3, 10),
		makeLine(b, 2, 20),
	}

	out := AllocatePurchase(lines, decimal.Zero, decimal.NewFromInt(10), decimal.Zero, nil)

	// 10 / 5 units = 2.00 per unit, on every line
	for i := range out {
		assert.True(t, out[i].PerUnitShippingUS.Equal(decimal.NewFromInt(2)),
			"line %d got %s", i, out[i].PerUnitShippingUS)
	}
}

func TestAllocatePurchase_TaxProportionalToCostShare(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lines := []PurchaseLine{
		makeLine(a, 1, 30), // 75% of subtotal
		makeLine(b, 1, 10), // 25% of subtotal
	}

	out := AllocatePurchase(lines, decimal.NewFromInt(4), decimal.Zero, decimal.Zero, nil)

	assert.True(t, out[0].PerUnitTax.Equal(decimal.NewFromInt(3)), "got %s", out[0].PerUnitTax)
	assert.True(t, out[1].PerUnitTax.Equal(decimal.NewFromInt(1)), "got %s", out[1].PerUnitTax)
}

func TestAllocatePurchase_TaxConservation(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	lines := []PurchaseLine{
		makeLine(a, 3, 12.99),
		makeLine(b, 2, 7.50),
		makeLine(c, 1, 24.10),
	}
	lines[1].HasSubItems = true
	lines[1].SubItemsQty = 4

	tax := decimal.NewFromFloat(13.37)
	out := AllocatePurchase(lines, tax, decimal.Zero, decimal.Zero, nil)

	total := decimal.Zero
	for i := range out {
		units := decimal.NewFromInt(int64(out[i].TotalUnits()))
		total = total.Add(out[i].PerUnitTax.Mul(units))
	}
	got, _ := total.Float64()
	want, _ := tax.Float64()
	assert.InDelta(t, want, got, 0.001)
}

func TestAllocatePurchase_IntlShippingWeightProportional(t *testing.T) {
	heavy, light := uuid.New(), uuid.New()
	lines := []PurchaseLine{
		makeLine(heavy, 1, 10),
		makeLine(light, 1, 10),
	}
	weights := map[uuid.UUID]decimal.Decimal{
		heavy: decimal.NewFromInt(3),
		light: decimal.NewFromInt(1),
	}

	out := AllocatePurchase(lines, decimal.Zero, decimal.Zero, decimal.NewFromInt(8), weights)

	// total weight 4 lbs: heavy gets 8*3/4 = 6, light gets 8*1/4 = 2
	assert.True(t, out[0].PerUnitShippingIntl.Equal(decimal.NewFromInt(6)), "got %s", out[0].PerUnitShippingIntl)
	assert.True(t, out[1].PerUnitShippingIntl.Equal(decimal.NewFromInt(2)), "got %s", out[1].PerUnitShippingIntl)
}

func TestAllocatePurchase_IntlShippingFallsBackToEqualSplit(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lines := []PurchaseLine{
		makeLine(a, 2, 10),
		makeLine(b, 2, 10),
	}

	// no item carries weight
	out := AllocatePurchase(lines, decimal.Zero, decimal.Zero, decimal.NewFromInt(8), nil)

	for i := range out {
		assert.True(t, out[i].PerUnitShippingIntl.Equal(decimal.NewFromInt(2)),
			"line %d got %s", i, out[i].PerUnitShippingIntl)
	}
}

func TestAllocatePurchase_WeightlessLineGetsNoIntlShare(t *testing.T) {
	weighted, weightless := uuid.New(), uuid.New()
	lines := []PurchaseLine{
		makeLine(weighted, 1, 10),
		makeLine(weightless, 1, 10),
	}
	weights := map[uuid.UUID]decimal.Decimal{
		weighted: decimal.NewFromInt(2),
	}

	out := AllocatePurchase(lines, decimal.Zero, decimal.Zero, decimal.NewFromInt(10), weights)

	assert.True(t, out[0].PerUnitShippingIntl.Equal(decimal.NewFromInt(10)))
	assert.True(t, out[1].PerUnitShippingIntl.IsZero())
}

func TestAllocatePurchase_LandedCostSumsAllShares(t *testing.T) {
	a := uuid.New()
	lines := []PurchaseLine{makeLine(a, 2, 10)}
	weights := map[uuid.UUID]decimal.Decimal{a: decimal.NewFromInt(1)}

	out := AllocatePurchase(lines, decimal.NewFromInt(2), decimal.NewFromInt(4), decimal.NewFromInt(6), weights)

	// per unit: cost 10 + tax 1 + US 2 + intl 3
	assert.True(t, out[0].UnitCostPostShipping.Equal(decimal.NewFromInt(16)),
		"got %s", out[0].UnitCostPostShipping)
}

func TestAllocatePurchase_ZeroUnits(t *testing.T) {
	out := AllocatePurchase(nil, decimal.NewFromInt(5), decimal.NewFromInt(5), decimal.NewFromInt(5), nil)
	assert.Empty(t, out)
}

func TestAllocatePurchase_DoesNotMutateInput(t *testing.T) {
	a := uuid.New()
	lines := []PurchaseLine{makeLine(a, 1, 10)}

	_ = AllocatePurchase(lines, decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero, nil)

	assert.True(t, lines[0].PerUnitTax.IsZero())
	assert.True(t, lines[0].UnitCostPostShipping.IsZero())
}

func TestPurchaseAllocate_InPlace(t *testing.T) {
	a := uuid.New()
	p, err := NewPurchase(
		[]PurchaseLine{makeLine(a, 2, 10)},
		decimal.Zero, decimal.NewFromInt(2), decimal.NewFromInt(2), decimal.Zero, decimal.Zero,
	)
	require.NoError(t, err)

	p.Allocate(nil)

	assert.True(t, p.Lines[0].PerUnitTax.Equal(decimal.NewFromInt(1)))
	assert.True(t, p.Lines[0].PerUnitShippingUS.Equal(decimal.NewFromInt(1)))
	assert.True(t, p.Lines[0].UnitCostPostShipping.Equal(decimal.NewFromInt(12)))
}
