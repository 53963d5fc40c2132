package inventory

import (
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category classifies an inventory item
type Category string

const (
	CategorySkincare  Category = "skincare"
	CategoryMakeup    Category = "makeup"
	CategoryFragrance Category = "fragrance"
	CategoryHaircare  Category = "haircare"
	CategoryBodycare  Category = "bodycare"
	CategoryTools     Category = "tools"
	CategoryOther     Category = "other"
)

// IsValid checks if the category is a valid Category
func (c Category) IsValid() bool {
	switch c {
	case CategorySkincare, CategoryMakeup, CategoryFragrance,
		CategoryHaircare, CategoryBodycare, CategoryTools, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// ItemImage is an image attached to an item. Data holds an inline
// data URI or an external URL; at most one image should be primary.
type ItemImage struct {
	Data    string `json:"data"`
	Primary bool   `json:"primary"`
}

// CompetitorPrice is a reference price observed at a competitor
type CompetitorPrice struct {
	Source string          `json:"source"`
	Price  decimal.Decimal `json:"price"`
}

// Item is a stock-keeping unit. It is the aggregate root for inventory
// operations.
//
// Cost fallback order: CostPostShipping (landed, authoritative for
// pricing) -> CostPreShipping -> zero. Use UnitCost() rather than reading
// the fields directly.
type Item struct {
	shared.BaseEntity
	Name             string            `json:"name"`
	Category         Category          `json:"category"`
	Description      string            `json:"description,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Stock            int               `json:"stock"`
	WeightLbs        decimal.Decimal   `json:"weightLbs"`
	Images           []ItemImage       `json:"images,omitempty"`
	CostPreShipping  decimal.Decimal   `json:"costPreShipping"`
	CostPostShipping decimal.Decimal   `json:"costPostShipping"`
	MinPrice         decimal.Decimal   `json:"minPrice"`
	MaxPrice         decimal.Decimal   `json:"maxPrice"`
	MinRevenue       decimal.Decimal   `json:"minRevenue"`
	MaxRevenue       decimal.Decimal   `json:"maxRevenue"`
	CompetitorPrices []CompetitorPrice `json:"competitorPrices,omitempty"`
}

// NewItem creates a new item with zero stock and no cost history
func NewItem(name string, category Category) (*Item, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Item category is not valid")
	}

	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Category:   category,
		Stock:      0,
	}, nil
}

// UnitCost returns the authoritative per-unit cost: the landed cost when
// known, the pre-shipping cost otherwise, zero when the item has never
// been purchased.
func (i *Item) UnitCost() decimal.Decimal {
	if !i.CostPostShipping.IsZero() {
		return i.CostPostShipping
	}
	return i.CostPreShipping
}

// AddStock increases stock by qty
func (i *Item) AddStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Stock += qty
	i.Touch()
	return nil
}

// RemoveStock decreases stock by qty, rejecting if stock would go negative
func (i *Item) RemoveStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if qty > i.Stock {
		return shared.ErrInsufficientStock
	}
	i.Stock -= qty
	i.Touch()
	return nil
}

// ReduceStockClamped decreases stock by qty, clamping at zero. Used when
// reversing a purchase whose units may already have been sold.
func (i *Item) ReduceStockClamped(qty int) {
	i.Stock -= qty
	if i.Stock < 0 {
		i.Stock = 0
	}
	i.Touch()
}

// ApplyLineCost overwrites the item's cost fields from a purchase line and
// re-derives the price band from the landed cost.
func (i *Item) ApplyLineCost(preShipping, postShipping decimal.Decimal) {
	i.CostPreShipping = preShipping
	i.CostPostShipping = postShipping
	i.applyPricing(DerivePricing(postShipping))
}

// RecalculatePricing re-derives the price band from the current landed
// cost, discarding any manual overrides.
func (i *Item) RecalculatePricing() {
	i.applyPricing(DerivePricing(i.UnitCost()))
}

// OverridePricing sets a manual price band. Revenue bounds follow from the
// overridden prices and the current landed cost.
func (i *Item) OverridePricing(minPrice, maxPrice decimal.Decimal) error {
	if minPrice.IsNegative() || maxPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if maxPrice.LessThan(minPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Max price cannot be below min price")
	}
	cost := i.UnitCost()
	i.MinPrice = minPrice
	i.MaxPrice = maxPrice
	i.MinRevenue = minPrice.Sub(cost)
	i.MaxRevenue = maxPrice.Sub(cost)
	i.Touch()
	return nil
}

func (i *Item) applyPricing(p Pricing) {
	i.MinPrice = p.MinPrice
	i.MaxPrice = p.MaxPrice
	i.MinRevenue = p.MinRevenue
	i.MaxRevenue = p.MaxRevenue
	i.Touch()
}

// PrimaryImage returns the primary image, or the first image when none is
// marked primary, or nil when the item has no images.
func (i *Item) PrimaryImage() *ItemImage {
	for idx := range i.Images {
		if i.Images[idx].Primary {
			return &i.Images[idx]
		}
	}
	if len(i.Images) > 0 {
		return &i.Images[0]
	}
	return nil
}

// StockValue returns stock * landed unit cost
func (i *Item) StockValue() decimal.Decimal {
	return i.UnitCost().Mul(decimal.NewFromInt(int64(i.Stock)))
}
