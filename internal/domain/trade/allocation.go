package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation arithmetic distributes a purchase's aggregate tax and
// shipping figures across its lines to derive a per-unit landed cost:
//
//   - tax: proportional to each line's share of the subtotal, spread
//     evenly over the line's own billable units
//   - US shipping: equal per billable unit across the whole purchase
//   - international shipping: proportional to each line's share of total
//     weight, falling back to equal per-unit when no item carries weight
//
// Degenerate input (zero units, zero subtotal, zero weight) yields
// zero-valued shares rather than an error; an empty purchase-in-progress
// is a normal transient state.

// allocationScale is the precision allocations are carried at. Per-unit
// shares are intermediate values, so they keep more places than cents to
// let the conservation sums land within epsilon.
const allocationScale = 6

// AllocatePurchase enriches each line with its per-unit tax and shipping
// shares and the resulting landed unit cost. itemWeights maps item ID to
// per-unit weight in pounds; items absent from the map are weightless.
// The input slice is not mutated.
func AllocatePurchase(lines []PurchaseLine, tax, shippingUS, shippingIntl decimal.Decimal, itemWeights map[uuid.UUID]decimal.Decimal) []PurchaseLine {
	out := make([]PurchaseLine, len(lines))
	copy(out, lines)

	totalUnits := 0
	subtotal := decimal.Zero
	totalWeight := decimal.Zero
	for i := range out {
		units := out[i].TotalUnits()
		totalUnits += units
		subtotal = subtotal.Add(out[i].LineCost())
		if w, ok := itemWeights[out[i].ItemID]; ok {
			totalWeight = totalWeight.Add(w.Mul(decimal.NewFromInt(int64(units))))
		}
	}

	if totalUnits == 0 {
		for i := range out {
			out[i].PerUnitTax = decimal.Zero
			out[i].PerUnitShippingUS = decimal.Zero
			out[i].PerUnitShippingIntl = decimal.Zero
			out[i].UnitCostPostShipping = out[i].UnitCost
		}
		return out
	}

	perUnitUS := shippingUS.Div(decimal.NewFromInt(int64(totalUnits))).Round(allocationScale)

	for i := range out {
		units := decimal.NewFromInt(int64(out[i].TotalUnits()))

		// Tax share follows the line's fraction of the subtotal.
		perUnitTax := decimal.Zero
		if !subtotal.IsZero() && !units.IsZero() {
			lineShare := tax.Mul(out[i].LineCost()).Div(subtotal)
			perUnitTax = lineShare.Div(units).Round(allocationScale)
		}

		perUnitIntl := decimal.Zero
		if !units.IsZero() {
			if w, ok := itemWeights[out[i].ItemID]; ok && !totalWeight.IsZero() {
				perUnitIntl = shippingIntl.Mul(w).Div(totalWeight).Round(allocationScale)
			} else if totalWeight.IsZero() {
				perUnitIntl = shippingIntl.Div(decimal.NewFromInt(int64(totalUnits))).Round(allocationScale)
			}
		}

		out[i].PerUnitTax = perUnitTax
		out[i].PerUnitShippingUS = perUnitUS
		out[i].PerUnitShippingIntl = perUnitIntl
		out[i].UnitCostPostShipping = out[i].UnitCost.
			Add(perUnitTax).
			Add(perUnitUS).
			Add(perUnitIntl)
	}
	return out
}

// Allocate recomputes this purchase's line allocations in place from its
// current aggregate cost fields.
func (p *Purchase) Allocate(itemWeights map[uuid.UUID]decimal.Decimal) {
	p.Lines = AllocatePurchase(p.Lines, p.Tax, p.ShippingUS, p.ShippingIntl, itemWeights)
	p.Touch()
}
