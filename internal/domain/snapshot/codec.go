package snapshot

import (
	"encoding/json"
	"time"

	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Export serializes the snapshot to its canonical JSON backup form.
func Export(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, shared.NewDomainError("EXPORT_FAILED", "Failed to serialize snapshot: "+err.Error())
	}
	return data, nil
}

// Import parses a backup produced by Export (or by an older schema) into
// a snapshot. Missing collections default to empty and settings to their
// documented defaults. Malformed JSON, or an object without the mandatory
// items field, fails with an invalid-backup error; the caller's persisted
// state must not be touched on failure.
func Import(data []byte) (*Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, shared.ErrInvalidBackup
	}
	if _, ok := fields["items"]; !ok {
		return nil, shared.ErrInvalidBackup
	}

	s := &Snapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		// Items present but not in the current shape: try the legacy
		// items-only schema before giving up.
		legacy, legacyErr := importLegacy(fields["items"])
		if legacyErr != nil {
			return nil, shared.ErrInvalidBackup
		}
		return legacy, nil
	}
	s.Normalize()
	return s, nil
}

// legacyItem is the pre-settings backup shape: loosely-typed items with
// float costs and string timestamps.
type legacyItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Cost        float64 `json:"cost"`
	CostPost    float64 `json:"costPostShipping"`
	MinPrice    float64 `json:"minPrice"`
	MaxPrice    float64 `json:"maxPrice"`
	CreatedAt   string  `json:"createdAt"`
}

func importLegacy(itemsRaw json.RawMessage) (*Snapshot, error) {
	var legacyItems []legacyItem
	if err := json.Unmarshal(itemsRaw, &legacyItems); err != nil {
		return nil, shared.ErrInvalidBackup
	}

	s := New()
	for _, li := range legacyItems {
		category := inventory.Category(li.Category)
		if !category.IsValid() {
			category = inventory.CategoryOther
		}
		item, err := inventory.NewItem(li.Name, category)
		if err != nil {
			// Best-effort conversion: skip records the current schema
			// cannot represent.
			continue
		}
		item.Description = li.Description
		item.Stock = li.Stock
		if li.Stock < 0 {
			item.Stock = 0
		}
		item.CostPreShipping = decimal.NewFromFloat(li.Cost)
		item.CostPostShipping = decimal.NewFromFloat(li.CostPost)
		if li.MinPrice > 0 || li.MaxPrice > 0 {
			_ = item.OverridePricing(decimal.NewFromFloat(li.MinPrice), decimal.NewFromFloat(li.MaxPrice))
		} else {
			item.RecalculatePricing()
		}
		if ts, err := time.Parse(time.RFC3339, li.CreatedAt); err == nil {
			item.CreatedAt = ts
		}
		s.Items = append(s.Items, *item)
	}
	return s, nil
}
