package snapshot

import (
	"testing"

	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	s := New()
	item := newTestItem(t, "Serum")
	item.Stock = 7
	item.CostPostShipping = decimal.NewFromFloat(12.40)
	s.Items = append(s.Items, item)
	s.Settings.TaxRatePercent = decimal.NewFromFloat(8.5)

	data, err := Export(s)
	require.NoError(t, err)

	back, err := Import(data)
	require.NoError(t, err)
	require.Len(t, back.Items, 1)
	assert.Equal(t, "Serum", back.Items[0].Name)
	assert.Equal(t, 7, back.Items[0].Stock)
	assert.True(t, back.Items[0].CostPostShipping.Equal(decimal.NewFromFloat(12.40)))
	assert.True(t, back.Settings.TaxRatePercent.Equal(decimal.NewFromFloat(8.5)))
}

func TestImportRejectsMalformed(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		_, err := Import([]byte("not json at all"))
		assert.ErrorIs(t, err, shared.ErrInvalidBackup)
	})

	t.Run("json without items", func(t *testing.T) {
		_, err := Import([]byte(`{"purchases": []}`))
		assert.ErrorIs(t, err, shared.ErrInvalidBackup)
	})

	t.Run("items not an array", func(t *testing.T) {
		_, err := Import([]byte(`{"items": "nope"}`))
		assert.ErrorIs(t, err, shared.ErrInvalidBackup)
	})
}

func TestImportDefaultsMissingCollections(t *testing.T) {
	back, err := Import([]byte(`{"items": []}`))
	require.NoError(t, err)
	assert.NotNil(t, back.Sales)
	assert.NotNil(t, back.RevenueWithdrawals)
	assert.True(t, back.Settings.WeightCostPerLb.Equal(decimal.NewFromFloat(7.00)))
}

func TestImportLegacyItemsOnlyShape(t *testing.T) {
	legacy := []byte(`{"items": [
		{"id": "x1", "name": "Old Serum", "category": "skincare",
		 "stock": 4, "cost": 10.5, "costPostShipping": 12.0,
		 "minPrice": 18, "maxPrice": 23,
		 "createdAt": "2024-03-01T10:00:00Z"},
		{"id": "x2", "name": "Mystery", "category": "vitamins",
		 "stock": -3, "cost": 1, "costPostShipping": 0,
		 "minPrice": 0, "maxPrice": 0, "createdAt": "bad-date"},
		{"id": "x3", "name": "", "category": "makeup",
		 "stock": 1, "cost": 1, "costPostShipping": 1,
		 "minPrice": 0, "maxPrice": 0, "createdAt": ""}
	]}`)

	back, err := Import(legacy)
	require.NoError(t, err)
	// the unnamed record cannot be represented and is skipped
	require.Len(t, back.Items, 2)

	first := back.Items[0]
	assert.Equal(t, "Old Serum", first.Name)
	assert.Equal(t, 4, first.Stock)
	assert.True(t, first.CostPostShipping.Equal(decimal.NewFromFloat(12.0)))
	assert.True(t, first.MinPrice.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, 2024, first.CreatedAt.Year())

	second := back.Items[1]
	// unknown category folds to other, negative stock clamps, pricing re-derived
	assert.Equal(t, inventory.CategoryOther, second.Category)
	assert.Equal(t, 0, second.Stock)
	assert.True(t, second.MinPrice.Equal(decimal.NewFromInt(6)))
}
