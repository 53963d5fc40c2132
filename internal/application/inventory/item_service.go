package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemService provides application-level inventory operations
type ItemService struct {
	store  snapshot.Store
	logger *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(store snapshot.Store, logger *zap.Logger) *ItemService {
	return &ItemService{store: store, logger: logger}
}

// CreateItemRequest represents a request to create an item
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required,category"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
	WeightLbs   float64 `json:"weightLbs" binding:"omitempty,gte=0"`
}

// UpdateItemRequest represents a request to edit item metadata. Nil
// fields are left unchanged; cost and pricing fields have their own
// operations.
type UpdateItemRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Notes       *string  `json:"notes"`
	WeightLbs   *float64 `json:"weightLbs" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

// OverridePricingRequest sets a manual price band on an item
type OverridePricingRequest struct {
	MinPrice float64 `json:"minPrice" binding:"gte=0"`
	MaxPrice float64 `json:"maxPrice" binding:"gte=0"`
}

// ItemImageRequest attaches an image to an item
type ItemImageRequest struct {
	Data    string `json:"data" binding:"required"`
	Primary bool   `json:"primary"`
}

// CompetitorPriceRequest records a reference price seen at a competitor
type CompetitorPriceRequest struct {
	Source string  `json:"source" binding:"required"`
	Price  float64 `json:"price" binding:"gte=0"`
}

// ListItems returns items, optionally filtered by category and a
// case-insensitive name substring, sorted by name.
func (s *ItemService) ListItems(ctx context.Context, category, search string) ([]inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]inventory.Item, 0, len(snap.Items))
	needle := strings.ToLower(search)
	for i := range snap.Items {
		item := snap.Items[i]
		if category != "" && item.Category != inventory.Category(category) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// GetItem returns one item by ID
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	item := snap.FindItem(id)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

// CreateItem creates an item with zero stock and no cost history
func (s *ItemService) CreateItem(ctx context.Context, req CreateItemRequest) (*inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	item, err := inventory.NewItem(req.Name, inventory.Category(req.Category))
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	item.Notes = req.Notes
	item.WeightLbs = decimal.NewFromFloat(req.WeightLbs)

	next.Items = append(next.Items, *item)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("item created",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
		zap.String("category", item.Category.String()),
	)
	return item, nil
}

// UpdateItem edits item metadata. A direct stock edit is an inventory
// correction, not a trade, so it bypasses the purchase/sale flows.
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	item := next.FindItem(id)
	if item == nil {
		return nil, shared.ErrNotFound
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
		}
		item.Name = *req.Name
	}
	if req.Category != nil {
		category := inventory.Category(*req.Category)
		if !category.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Item category is not valid")
		}
		item.Category = category
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.WeightLbs != nil {
		item.WeightLbs = decimal.NewFromFloat(*req.WeightLbs)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock cannot be negative")
		}
		item.Stock = *req.Stock
	}
	item.Touch()

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("item updated", zap.String("item_id", id.String()))
	return item, nil
}

// DeleteItem removes an item. Past purchases and sales keep their copied
// line data, so history survives the deletion.
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	next := snap.Clone()

	if err := next.RemoveItem(id); err != nil {
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return err
	}
	s.logger.Info("item deleted", zap.String("item_id", id.String()))
	return nil
}

// RecalculatePricing re-derives the item's price band from its landed
// cost, discarding manual overrides.
func (s *ItemService) RecalculatePricing(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	item := next.FindItem(id)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	item.RecalculatePricing()

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	return item, nil
}

// OverridePricing sets a manual price band
func (s *ItemService) OverridePricing(ctx context.Context, id uuid.UUID, req OverridePricingRequest) (*inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	item := next.FindItem(id)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	if err := item.OverridePricing(decimal.NewFromFloat(req.MinPrice), decimal.NewFromFloat(req.MaxPrice)); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("item pricing overridden",
		zap.String("item_id", id.String()),
		zap.Float64("min_price", req.MinPrice),
		zap.Float64("max_price", req.MaxPrice),
	)
	return item, nil
}

// AddImage attaches an image to an item. Marking it primary clears the
// flag on any previous primary.
func (s *ItemService) AddImage(ctx context.Context, id uuid.UUID, req ItemImageRequest) (*inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	item := next.FindItem(id)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	if req.Primary {
		for i := range item.Images {
			item.Images[i].Primary = false
		}
	}
	item.Images = append(item.Images, inventory.ItemImage{Data: req.Data, Primary: req.Primary})
	item.Touch()

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	return item, nil
}

// AddCompetitorPrice records a competitor reference price on an item
func (s *ItemService) AddCompetitorPrice(ctx context.Context, id uuid.UUID, req CompetitorPriceRequest) (*inventory.Item, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	item := next.FindItem(id)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	item.CompetitorPrices = append(item.CompetitorPrices, inventory.CompetitorPrice{
		Source: req.Source,
		Price:  decimal.NewFromFloat(req.Price),
	})
	item.Touch()

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	return item, nil
}
