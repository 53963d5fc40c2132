package inventory

import "github.com/shopspring/decimal"

// Flat dollar margins applied on top of the landed unit cost. Sale prices
// are rounded up to the next whole dollar.
var (
	minMargin = decimal.NewFromInt(5)
	maxMargin = decimal.NewFromInt(10)
)

// Pricing holds the sale-price band and revenue bounds derived from a
// landed unit cost.
type Pricing struct {
	MinPrice   decimal.Decimal `json:"minPrice"`
	MaxPrice   decimal.Decimal `json:"maxPrice"`
	MinRevenue decimal.Decimal `json:"minRevenue"`
	MaxRevenue decimal.Decimal `json:"maxRevenue"`
}

// DerivePricing computes the price band for a landed unit cost:
// minPrice = ceil(cost + 5), maxPrice = ceil(cost + 10), and the revenue
// bounds are the difference between each price and the landed cost.
func DerivePricing(landedCost decimal.Decimal) Pricing {
	minPrice := landedCost.Add(minMargin).Ceil()
	maxPrice := landedCost.Add(maxMargin).Ceil()
	return Pricing{
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		MinRevenue: minPrice.Sub(landedCost),
		MaxRevenue: maxPrice.Sub(landedCost),
	}
}
