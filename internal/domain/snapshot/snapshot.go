package snapshot

import (
	"encoding/json"

	"github.com/glowstock/backend/internal/domain/finance"
	"github.com/glowstock/backend/internal/domain/inventory"
	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings holds the user-editable business defaults
type Settings struct {
	WeightCostPerLb decimal.Decimal `json:"weightCostPerLb"`
	TaxRatePercent  decimal.Decimal `json:"taxRatePercent"`
}

// DefaultSettings returns the documented settings defaults
func DefaultSettings() Settings {
	return Settings{
		WeightCostPerLb: decimal.NewFromFloat(7.00),
		TaxRatePercent:  decimal.NewFromFloat(10.0),
	}
}

// Branch is a named sales location or sub-operation
type Branch struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Snapshot is the aggregate root of persistence: the whole application
// state, read and written atomically on every mutation. All core
// operations are pure functions over one snapshot in, one snapshot out;
// there is a single active writer.
type Snapshot struct {
	Items              []inventory.Item            `json:"items"`
	Purchases          []trade.Purchase            `json:"purchases"`
	Sales              []trade.Sale                `json:"sales"`
	Transactions       []finance.Transaction       `json:"transactions"`
	Settings           Settings                    `json:"settings"`
	RevenueWithdrawals []finance.RevenueWithdrawal `json:"revenueWithdrawals"`
	Branches           []Branch                    `json:"branches"`
}

// New returns an empty snapshot with default settings
func New() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize upgrades a snapshot to the current schema: nil collections
// become empty and zero-valued settings take the documented defaults.
func (s *Snapshot) Normalize() {
	if s.Items == nil {
		s.Items = []inventory.Item{}
	}
	if s.Purchases == nil {
		s.Purchases = []trade.Purchase{}
	}
	if s.Sales == nil {
		s.Sales = []trade.Sale{}
	}
	if s.Transactions == nil {
		s.Transactions = []finance.Transaction{}
	}
	if s.RevenueWithdrawals == nil {
		s.RevenueWithdrawals = []finance.RevenueWithdrawal{}
	}
	if s.Branches == nil {
		s.Branches = []Branch{}
	}
	defaults := DefaultSettings()
	if s.Settings.WeightCostPerLb.IsZero() {
		s.Settings.WeightCostPerLb = defaults.WeightCostPerLb
	}
	if s.Settings.TaxRatePercent.IsZero() {
		s.Settings.TaxRatePercent = defaults.TaxRatePercent
	}
}

// Clone returns a deep copy of the snapshot via its canonical JSON form.
// Mutating operations work on a clone so a failed operation leaves the
// caller's snapshot untouched.
func (s *Snapshot) Clone() *Snapshot {
	data, err := json.Marshal(s)
	if err != nil {
		// The snapshot is a closed set of JSON-serializable types.
		panic("snapshot: clone marshal: " + err.Error())
	}
	out := &Snapshot{}
	if err := json.Unmarshal(data, out); err != nil {
		panic("snapshot: clone unmarshal: " + err.Error())
	}
	out.Normalize()
	return out
}

// FindItem returns a pointer into the Items slice, or nil
func (s *Snapshot) FindItem(id uuid.UUID) *inventory.Item {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// FindPurchase returns a pointer into the Purchases slice, or nil
func (s *Snapshot) FindPurchase(id uuid.UUID) *trade.Purchase {
	for i := range s.Purchases {
		if s.Purchases[i].ID == id {
			return &s.Purchases[i]
		}
	}
	return nil
}

// FindSale returns a pointer into the Sales slice, or nil
func (s *Snapshot) FindSale(id uuid.UUID) *trade.Sale {
	for i := range s.Sales {
		if s.Sales[i].ID == id {
			return &s.Sales[i]
		}
	}
	return nil
}

// FindTransaction returns a pointer into the Transactions slice, or nil
func (s *Snapshot) FindTransaction(id uuid.UUID) *finance.Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

// ItemWeights returns the per-unit weight of every item that carries one,
// keyed by item ID. Input for shipping allocation.
func (s *Snapshot) ItemWeights() map[uuid.UUID]decimal.Decimal {
	weights := make(map[uuid.UUID]decimal.Decimal)
	for i := range s.Items {
		if s.Items[i].WeightLbs.IsPositive() {
			weights[s.Items[i].ID] = s.Items[i].WeightLbs
		}
	}
	return weights
}

// Ledger derives the revenue ledger state from the snapshot
func (s *Snapshot) Ledger() finance.LedgerSummary {
	return finance.Summarize(s.Sales, s.Transactions, s.RevenueWithdrawals)
}

// RemovePurchase deletes a purchase by ID, returning the removed value.
func (s *Snapshot) RemovePurchase(id uuid.UUID) (*trade.Purchase, error) {
	for i := range s.Purchases {
		if s.Purchases[i].ID == id {
			removed := s.Purchases[i]
			s.Purchases = append(s.Purchases[:i], s.Purchases[i+1:]...)
			return &removed, nil
		}
	}
	return nil, shared.ErrNotFound
}

// RemoveSale deletes a sale by ID, returning the removed value.
func (s *Snapshot) RemoveSale(id uuid.UUID) (*trade.Sale, error) {
	for i := range s.Sales {
		if s.Sales[i].ID == id {
			removed := s.Sales[i]
			s.Sales = append(s.Sales[:i], s.Sales[i+1:]...)
			return &removed, nil
		}
	}
	return nil, shared.ErrNotFound
}

// RemoveTransaction deletes a transaction by ID, returning the removed value.
func (s *Snapshot) RemoveTransaction(id uuid.UUID) (*finance.Transaction, error) {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			removed := s.Transactions[i]
			s.Transactions = append(s.Transactions[:i], s.Transactions[i+1:]...)
			return &removed, nil
		}
	}
	return nil, shared.ErrNotFound
}

// RemoveItem deletes an item by ID.
func (s *Snapshot) RemoveItem(id uuid.UUID) error {
	for i := range s.Items {
		if s.Items[i].ID == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveWithdrawalsForPurchase drops every withdrawal linked to the
// purchase. Deleting a funding source cascades to its ledger entries so
// the freed revenue returns to the pool.
func (s *Snapshot) RemoveWithdrawalsForPurchase(purchaseID uuid.UUID) int {
	return s.removeWithdrawals(func(w *finance.RevenueWithdrawal) bool {
		return w.PurchaseID != nil && *w.PurchaseID == purchaseID
	})
}

// RemoveWithdrawalsForTransaction drops every withdrawal linked to the
// transaction.
func (s *Snapshot) RemoveWithdrawalsForTransaction(transactionID uuid.UUID) int {
	return s.removeWithdrawals(func(w *finance.RevenueWithdrawal) bool {
		return w.TransactionID != nil && *w.TransactionID == transactionID
	})
}

func (s *Snapshot) removeWithdrawals(match func(*finance.RevenueWithdrawal) bool) int {
	kept := s.RevenueWithdrawals[:0]
	removed := 0
	for i := range s.RevenueWithdrawals {
		if match(&s.RevenueWithdrawals[i]) {
			removed++
			continue
		}
		kept = append(kept, s.RevenueWithdrawals[i])
	}
	s.RevenueWithdrawals = kept
	return removed
}
