package inventory

import (
	"testing"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePricing(t *testing.T) {
	tests := []struct {
		name     string
		cost     float64
		minPrice int64
		maxPrice int64
	}{
		{"fractional cost rounds up", 12.30, 18, 23},
		{"whole cost stays whole", 7, 12, 17},
		{"zero cost", 0, 5, 10},
		{"cents just under the dollar", 9.99, 15, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DerivePricing(decimal.NewFromFloat(tt.cost))
			assert.True(t, p.MinPrice.Equal(decimal.NewFromInt(tt.minPrice)), "min got %s", p.MinPrice)
			assert.True(t, p.MaxPrice.Equal(decimal.NewFromInt(tt.maxPrice)), "max got %s", p.MaxPrice)
			assert.True(t, p.MinRevenue.Equal(p.MinPrice.Sub(decimal.NewFromFloat(tt.cost))))
			assert.True(t, p.MaxRevenue.Equal(p.MaxPrice.Sub(decimal.NewFromFloat(tt.cost))))
		})
	}
}

func TestCategoryIsValid(t *testing.T) {
	valid := []Category{
		CategorySkincare, CategoryMakeup, CategoryFragrance,
		CategoryHaircare, CategoryBodycare, CategoryTools, CategoryOther,
	}
	for _, c := range valid {
		assert.True(t, c.IsValid(), "category %s", c)
	}
	assert.False(t, Category("vitamins").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestNewItem(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		item, err := NewItem("Rose Serum", CategorySkincare)
		require.NoError(t, err)
		assert.Equal(t, 0, item.Stock)
		assert.True(t, item.UnitCost().IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewItem("", CategorySkincare)
		assert.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewItem("Rose Serum", Category("vitamins"))
		assert.Error(t, err)
	})
}

func TestItemUnitCostFallback(t *testing.T) {
	item, err := NewItem("Lip Tint", CategoryMakeup)
	require.NoError(t, err)

	assert.True(t, item.UnitCost().IsZero())

	item.CostPreShipping = decimal.NewFromInt(4)
	assert.True(t, item.UnitCost().Equal(decimal.NewFromInt(4)))

	item.CostPostShipping = decimal.NewFromFloat(5.5)
	assert.True(t, item.UnitCost().Equal(decimal.NewFromFloat(5.5)))
}

func TestItemStock(t *testing.T) {
	item, err := NewItem("Hair Oil", CategoryHaircare)
	require.NoError(t, err)

	require.NoError(t, item.AddStock(10))
	assert.Equal(t, 10, item.Stock)

	t.Run("remove within stock", func(t *testing.T) {
		require.NoError(t, item.RemoveStock(4))
		assert.Equal(t, 6, item.Stock)
	})

	t.Run("remove beyond stock is rejected", func(t *testing.T) {
		err := item.RemoveStock(7)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 6, item.Stock)
	})

	t.Run("non-positive quantities rejected", func(t *testing.T) {
		assert.Error(t, item.AddStock(0))
		assert.Error(t, item.RemoveStock(-1))
	})

	t.Run("clamped reduction floors at zero", func(t *testing.T) {
		item.ReduceStockClamped(100)
		assert.Equal(t, 0, item.Stock)
	})
}

func TestItemApplyLineCost(t *testing.T) {
	item, err := NewItem("Clay Mask", CategorySkincare)
	require.NoError(t, err)

	item.ApplyLineCost(decimal.NewFromInt(10), decimal.NewFromFloat(12.40))

	assert.True(t, item.CostPreShipping.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.CostPostShipping.Equal(decimal.NewFromFloat(12.40)))
	// pricing re-derived from the landed cost
	assert.True(t, item.MinPrice.Equal(decimal.NewFromInt(18)), "got %s", item.MinPrice)
	assert.True(t, item.MaxPrice.Equal(decimal.NewFromInt(23)), "got %s", item.MaxPrice)
}

func TestItemOverridePricing(t *testing.T) {
	item, err := NewItem("Brow Kit", CategoryTools)
	require.NoError(t, err)
	item.ApplyLineCost(decimal.NewFromInt(8), decimal.NewFromInt(9))

	t.Run("override wins and revenue follows", func(t *testing.T) {
		require.NoError(t, item.OverridePricing(decimal.NewFromInt(20), decimal.NewFromInt(30)))
		assert.True(t, item.MinRevenue.Equal(decimal.NewFromInt(11)))
		assert.True(t, item.MaxRevenue.Equal(decimal.NewFromInt(21)))
	})

	t.Run("recalculate discards the override", func(t *testing.T) {
		item.RecalculatePricing()
		assert.True(t, item.MinPrice.Equal(decimal.NewFromInt(14)), "got %s", item.MinPrice)
		assert.True(t, item.MaxPrice.Equal(decimal.NewFromInt(19)), "got %s", item.MaxPrice)
	})

	t.Run("rejects inverted band", func(t *testing.T) {
		assert.Error(t, item.OverridePricing(decimal.NewFromInt(30), decimal.NewFromInt(20)))
	})
}

func TestItemPrimaryImage(t *testing.T) {
	item, err := NewItem("Scented Candle", CategoryOther)
	require.NoError(t, err)

	assert.Nil(t, item.PrimaryImage())

	item.Images = []ItemImage{{Data: "a"}, {Data: "b", Primary: true}}
	img := item.PrimaryImage()
	require.NotNil(t, img)
	assert.Equal(t, "b", img.Data)

	item.Images = []ItemImage{{Data: "a"}, {Data: "b"}}
	img = item.PrimaryImage()
	require.NotNil(t, img)
	assert.Equal(t, "a", img.Data)
}

func TestItemStockValue(t *testing.T) {
	item, err := NewItem("Body Butter", CategoryBodycare)
	require.NoError(t, err)
	item.CostPostShipping = decimal.NewFromFloat(6.25)
	require.NoError(t, item.AddStock(4))

	assert.True(t, item.StockValue().Equal(decimal.NewFromInt(25)))
}
