package trade

import (
	"time"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentSource classifies how a cost was funded
type PaymentSource string

const (
	PaymentSourceExternal PaymentSource = "external" // entirely external funds
	PaymentSourceRevenue  PaymentSource = "revenue"  // entirely from the revenue pool
	PaymentSourceMixed    PaymentSource = "mixed"    // part revenue, part external
)

// IsValid checks if the payment source is valid
func (p PaymentSource) IsValid() bool {
	switch p {
	case PaymentSourceExternal, PaymentSourceRevenue, PaymentSourceMixed:
		return true
	}
	return false
}

// String returns the string representation of PaymentSource
func (p PaymentSource) String() string {
	return string(p)
}

// PurchaseLine is one item within a purchase. The per-unit allocation
// fields are derived by AllocatePurchase and are zero until the purchase
// is saved.
type PurchaseLine struct {
	ItemID   uuid.UUID       `json:"itemId"`
	ItemName string          `json:"itemName"`
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`

	// Sub-items are extra units bundled under one parent unit (multi-packs).
	HasSubItems bool `json:"hasSubItems"`
	SubItemsQty int  `json:"subItemsQty,omitempty"`

	PerUnitTax           decimal.Decimal `json:"perUnitTax"`
	PerUnitShippingUS    decimal.Decimal `json:"perUnitShippingUS"`
	PerUnitShippingIntl  decimal.Decimal `json:"perUnitShippingIntl"`
	UnitCostPostShipping decimal.Decimal `json:"unitCostPostShipping"`
}

// TotalUnits returns the billable units contributed by the line:
// quantity plus bundled sub-items.
func (l *PurchaseLine) TotalUnits() int {
	if l.HasSubItems {
		return l.Quantity + l.SubItemsQty
	}
	return l.Quantity
}

// LineCost returns quantity * unit cost (pre-allocation)
func (l *PurchaseLine) LineCost() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Validate checks the line before any state mutation
func (l *PurchaseLine) Validate() error {
	if l.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_LINE", "Purchase line has no item selected")
	}
	if l.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if l.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Line unit cost cannot be negative")
	}
	if l.HasSubItems && l.SubItemsQty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Sub-items quantity cannot be negative")
	}
	return nil
}

// Purchase is a purchase order/receipt aggregate root
type Purchase struct {
	shared.BaseEntity
	OrderedAt    *time.Time      `json:"orderedAt,omitempty"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
	Lines        []PurchaseLine  `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	ShippingUS   decimal.Decimal `json:"shippingUS"`
	ShippingIntl decimal.Decimal `json:"shippingIntl"`
	WeightLbs    decimal.Decimal `json:"weightLbs"`
	RevenueUsed  decimal.Decimal `json:"revenueUsed"`
	PaymentSource PaymentSource  `json:"paymentSource,omitempty"`
}

// NewPurchase creates a purchase from its lines and aggregate cost fields.
// A zero subtotal defaults to the sum of line costs. Validation is
// all-or-nothing: any invalid line rejects the whole purchase.
func NewPurchase(lines []PurchaseLine, subtotal, tax, shippingUS, shippingIntl, weightLbs decimal.Decimal) (*Purchase, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_PURCHASE", "Purchase must have at least one line")
	}
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return nil, err
		}
	}
	if tax.IsNegative() || shippingUS.IsNegative() || shippingIntl.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Tax and shipping cannot be negative")
	}

	p := &Purchase{
		BaseEntity:   shared.NewBaseEntity(),
		Lines:        lines,
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingUS:   shippingUS,
		ShippingIntl: shippingIntl,
		WeightLbs:    weightLbs,
		RevenueUsed:  decimal.Zero,
	}
	if p.Subtotal.IsZero() {
		p.Subtotal = p.LineSubtotal()
	}
	return p, nil
}

// LineSubtotal returns the sum of quantity * unit cost over all lines
func (p *Purchase) LineSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range p.Lines {
		sum = sum.Add(p.Lines[i].LineCost())
	}
	return sum
}

// TotalUnits returns the billable units across all lines
func (p *Purchase) TotalUnits() int {
	total := 0
	for i := range p.Lines {
		total += p.Lines[i].TotalUnits()
	}
	return total
}

// TotalCost returns subtotal + tax + both shipping buckets
func (p *Purchase) TotalCost() decimal.Decimal {
	return p.Subtotal.Add(p.Tax).Add(p.ShippingUS).Add(p.ShippingIntl)
}

// UnitsByItem returns the billable units per item, merging lines that
// reference the same item.
func (p *Purchase) UnitsByItem() map[uuid.UUID]int {
	units := make(map[uuid.UUID]int, len(p.Lines))
	for i := range p.Lines {
		units[p.Lines[i].ItemID] += p.Lines[i].TotalUnits()
	}
	return units
}

// ExternalPayment returns the part of the total cost not funded from the
// revenue pool.
func (p *Purchase) ExternalPayment() decimal.Decimal {
	return p.TotalCost().Sub(p.RevenueUsed)
}

// SuggestTax returns subtotal * rate/100, used only as an editable default
func SuggestTax(subtotal, taxRatePercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRatePercent).Div(decimal.NewFromInt(100)).Round(2)
}

// SuggestShippingIntl returns weight * per-pound cost, used only as an
// editable default
func SuggestShippingIntl(weightLbs, costPerLb decimal.Decimal) decimal.Decimal {
	return weightLbs.Mul(costPerLb).Round(2)
}
