package trade

import (
	"context"
	"maps"
	"time"

	financeapp "github.com/glowstock/backend/internal/application/finance"
	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseService provides application-level purchase operations: cost
// allocation, stock/cost propagation into inventory, and revenue funding.
type PurchaseService struct {
	store  snapshot.Store
	logger *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(store snapshot.Store, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{store: store, logger: logger}
}

// QuickAddItemRequest creates an item inline during purchase entry. The
// item starts at zero stock and is populated by the purchase's own
// allocation in the same operation.
type QuickAddItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category" binding:"required,category"`
	WeightLbs float64 `json:"weightLbs" binding:"omitempty,gte=0"`
}

// PurchaseLineRequest is one line of a purchase request. Exactly one of
// ItemID and NewItem must be set.
type PurchaseLineRequest struct {
	ItemID      string               `json:"itemId" binding:"omitempty,uuid"`
	NewItem     *QuickAddItemRequest `json:"newItem"`
	Quantity    int                  `json:"quantity" binding:"required,gt=0"`
	UnitCost    float64              `json:"unitCost" binding:"gte=0"`
	HasSubItems bool                 `json:"hasSubItems"`
	SubItemsQty int                  `json:"subItemsQty" binding:"omitempty,gte=0"`
}

// CreatePurchaseRequest represents a request to record a purchase.
// Optional aggregate fields fall back to their suggested defaults:
// subtotal to the sum of line costs, tax to subtotal * configured rate,
// international shipping to weight * configured per-pound cost.
type CreatePurchaseRequest struct {
	OrderedAt        *time.Time            `json:"orderedAt"`
	PaidAt           *time.Time            `json:"paidAt"`
	Lines            []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
	Subtotal         *float64              `json:"subtotal" binding:"omitempty,gte=0"`
	Tax              *float64              `json:"tax" binding:"omitempty,gte=0"`
	ShippingUS       float64               `json:"shippingUS" binding:"omitempty,gte=0"`
	ShippingIntl     *float64              `json:"shippingIntl" binding:"omitempty,gte=0"`
	WeightLbs        float64               `json:"weightLbs" binding:"omitempty,gte=0"`
	RevenueToUse     float64               `json:"revenueToUse" binding:"omitempty,gte=0"`
	WithdrawalReason string                `json:"withdrawalReason"`
	WithdrawalNotes  string                `json:"withdrawalNotes"`
}

// UpdatePurchaseRequest represents a request to edit a purchase. Funding
// fields are not editable; the original breakdown is preserved.
type UpdatePurchaseRequest struct {
	OrderedAt    *time.Time            `json:"orderedAt"`
	PaidAt       *time.Time            `json:"paidAt"`
	Lines        []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
	Subtotal     *float64              `json:"subtotal" binding:"omitempty,gte=0"`
	Tax          *float64              `json:"tax" binding:"omitempty,gte=0"`
	ShippingUS   float64               `json:"shippingUS" binding:"omitempty,gte=0"`
	ShippingIntl *float64              `json:"shippingIntl" binding:"omitempty,gte=0"`
	WeightLbs    float64               `json:"weightLbs" binding:"omitempty,gte=0"`
}

// CreatePurchase records a purchase: allocates its aggregate costs over
// the lines, adds the purchased units to stock, overwrites item costs and
// pricing, and optionally funds the purchase from the revenue pool. The
// apply is all-or-nothing: any validation failure leaves the snapshot
// unchanged.
func (s *PurchaseService) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (*trade.Purchase, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	lines, err := s.resolveLines(next, req.Lines)
	if err != nil {
		return nil, err
	}

	purchase, err := s.buildPurchase(next, lines, req.Subtotal, req.Tax, req.ShippingUS, req.ShippingIntl, req.WeightLbs)
	if err != nil {
		return nil, err
	}
	purchase.OrderedAt = req.OrderedAt
	purchase.PaidAt = req.PaidAt

	purchase.Allocate(next.ItemWeights())
	if err := applyPurchase(next, purchase); err != nil {
		return nil, err
	}

	if err := financeapp.FundPurchase(next, purchase, decimal.NewFromFloat(req.RevenueToUse), req.WithdrawalReason, req.WithdrawalNotes); err != nil {
		return nil, err
	}

	next.Purchases = append(next.Purchases, *purchase)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("purchase recorded",
		zap.String("purchase_id", purchase.ID.String()),
		zap.Int("total_units", purchase.TotalUnits()),
		zap.String("total_cost", purchase.TotalCost().StringFixed(2)),
		zap.String("payment_source", purchase.PaymentSource.String()),
	)
	return purchase, nil
}

// UpdatePurchase edits a purchase. When line quantities changed the
// original stock contribution is reversed before the new lines are
// applied, so stock moves only by the delta; cost-only edits leave stock
// untouched. Costs and pricing are recomputed either way.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, id uuid.UUID, req UpdatePurchaseRequest) (*trade.Purchase, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	existing := next.FindPurchase(id)
	if existing == nil {
		return nil, shared.ErrNotFound
	}

	lines, err := s.resolveLines(next, req.Lines)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildPurchase(next, lines, req.Subtotal, req.Tax, req.ShippingUS, req.ShippingIntl, req.WeightLbs)
	if err != nil {
		return nil, err
	}

	// Preserve identity and funding.
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.RevenueUsed = existing.RevenueUsed
	updated.PaymentSource = existing.PaymentSource
	updated.OrderedAt = req.OrderedAt
	updated.PaidAt = req.PaidAt
	if updated.OrderedAt == nil {
		updated.OrderedAt = existing.OrderedAt
	}
	if updated.PaidAt == nil {
		updated.PaidAt = existing.PaidAt
	}

	oldUnits := existing.UnitsByItem()
	newUnits := updated.UnitsByItem()
	if !maps.Equal(oldUnits, newUnits) {
		for itemID, qty := range oldUnits {
			if item := next.FindItem(itemID); item != nil {
				item.ReduceStockClamped(qty)
			}
		}
		for itemID, qty := range newUnits {
			item := next.FindItem(itemID)
			if item == nil {
				return nil, shared.ErrNotFound
			}
			if err := item.AddStock(qty); err != nil {
				return nil, err
			}
		}
	}

	updated.Allocate(next.ItemWeights())
	for i := range updated.Lines {
		item := next.FindItem(updated.Lines[i].ItemID)
		if item == nil {
			return nil, shared.ErrNotFound
		}
		item.ApplyLineCost(updated.Lines[i].UnitCost, updated.Lines[i].UnitCostPostShipping)
	}

	*existing = *updated
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("purchase updated",
		zap.String("purchase_id", id.String()),
		zap.Bool("stock_changed", !maps.Equal(oldUnits, newUnits)),
	)
	return existing, nil
}

// DeletePurchase removes a purchase, subtracting its units from stock
// (clamped at zero, since some units may already have been sold) and
// cascading to any withdrawals it funded.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	next := snap.Clone()

	removed, err := next.RemovePurchase(id)
	if err != nil {
		return err
	}
	for itemID, qty := range removed.UnitsByItem() {
		if item := next.FindItem(itemID); item != nil {
			item.ReduceStockClamped(qty)
		}
	}
	withdrawals := next.RemoveWithdrawalsForPurchase(id)

	if err := s.store.Save(ctx, next); err != nil {
		return err
	}
	s.logger.Info("purchase deleted",
		zap.String("purchase_id", id.String()),
		zap.Int("withdrawals_removed", withdrawals),
	)
	return nil
}

// ListPurchases returns all purchases
func (s *PurchaseService) ListPurchases(ctx context.Context) ([]trade.Purchase, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Purchases, nil
}

// PreviewAllocation runs the allocation arithmetic without touching any
// state, for the purchase form's live preview.
func (s *PurchaseService) PreviewAllocation(ctx context.Context, req CreatePurchaseRequest) ([]trade.PurchaseLine, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	lines, err := s.resolveLines(next, req.Lines)
	if err != nil {
		return nil, err
	}
	purchase, err := s.buildPurchase(next, lines, req.Subtotal, req.Tax, req.ShippingUS, req.ShippingIntl, req.WeightLbs)
	if err != nil {
		return nil, err
	}
	return trade.AllocatePurchase(purchase.Lines, purchase.Tax, purchase.ShippingUS, purchase.ShippingIntl, next.ItemWeights()), nil
}

// resolveLines maps request lines to domain lines, creating quick-add
// items in the working snapshot as needed.
func (s *PurchaseService) resolveLines(snap *snapshot.Snapshot, reqLines []PurchaseLineRequest) ([]trade.PurchaseLine, error) {
	lines := make([]trade.PurchaseLine, 0, len(reqLines))
	for i := range reqLines {
		rl := &reqLines[i]

		var item *inventory.Item
		switch {
		case rl.NewItem != nil:
			created, err := inventory.NewItem(rl.NewItem.Name, inventory.Category(rl.NewItem.Category))
			if err != nil {
				return nil, err
			}
			created.WeightLbs = decimal.NewFromFloat(rl.NewItem.WeightLbs)
			snap.Items = append(snap.Items, *created)
			item = &snap.Items[len(snap.Items)-1]
		case rl.ItemID != "":
			itemID, err := uuid.Parse(rl.ItemID)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_LINE", "Purchase line has an invalid item id")
			}
			item = snap.FindItem(itemID)
			if item == nil {
				return nil, shared.ErrNotFound
			}
		default:
			return nil, shared.NewDomainError("INVALID_LINE", "Purchase line has no item selected")
		}

		lines = append(lines, trade.PurchaseLine{
			ItemID:      item.ID,
			ItemName:    item.Name,
			Quantity:    rl.Quantity,
			UnitCost:    decimal.NewFromFloat(rl.UnitCost),
			HasSubItems: rl.HasSubItems,
			SubItemsQty: rl.SubItemsQty,
		})
	}
	return lines, nil
}

// buildPurchase constructs a validated purchase, filling unset aggregate
// fields from their suggested defaults.
func (s *PurchaseService) buildPurchase(snap *snapshot.Snapshot, lines []trade.PurchaseLine, subtotal, tax *float64, shippingUS float64, shippingIntl *float64, weightLbs float64) (*trade.Purchase, error) {
	weight := decimal.NewFromFloat(weightLbs)

	sub := decimal.Zero
	if subtotal != nil {
		sub = decimal.NewFromFloat(*subtotal)
	} else {
		for i := range lines {
			sub = sub.Add(lines[i].LineCost())
		}
	}

	taxAmount := decimal.Zero
	if tax != nil {
		taxAmount = decimal.NewFromFloat(*tax)
	} else {
		taxAmount = trade.SuggestTax(sub, snap.Settings.TaxRatePercent)
	}

	intl := decimal.Zero
	if shippingIntl != nil {
		intl = decimal.NewFromFloat(*shippingIntl)
	} else {
		intl = trade.SuggestShippingIntl(weight, snap.Settings.WeightCostPerLb)
	}

	return trade.NewPurchase(lines, sub, taxAmount, decimal.NewFromFloat(shippingUS), intl, weight)
}

// applyPurchase pushes a new purchase's units and costs into inventory
func applyPurchase(snap *snapshot.Snapshot, p *trade.Purchase) error {
	for itemID, qty := range p.UnitsByItem() {
		item := snap.FindItem(itemID)
		if item == nil {
			return shared.ErrNotFound
		}
		if err := item.AddStock(qty); err != nil {
			return err
		}
	}
	for i := range p.Lines {
		item := snap.FindItem(p.Lines[i].ItemID)
		if item == nil {
			return shared.ErrNotFound
		}
		item.ApplyLineCost(p.Lines[i].UnitCost, p.Lines[i].UnitCostPostShipping)
	}
	return nil
}
