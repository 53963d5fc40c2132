package trade

import (
	"context"
	"sort"
	"time"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService provides application-level sale operations
type SaleService struct {
	store  snapshot.Store
	logger *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(store snapshot.Store, logger *zap.Logger) *SaleService {
	return &SaleService{store: store, logger: logger}
}

// SaleLineRequest is one item within a sale request. UnitPrice unset
// defaults to the item's current minimum price.
type SaleLineRequest struct {
	ItemID    string   `json:"itemId" binding:"required,uuid"`
	Quantity  int      `json:"quantity" binding:"required,gt=0"`
	UnitPrice *float64 `json:"unitPrice" binding:"omitempty,gte=0"`
}

// CreateSaleRequest represents a request to record a sale
type CreateSaleRequest struct {
	SoldAt              time.Time         `json:"soldAt"`
	Buyer               string            `json:"buyer"`
	PaymentMethod       string            `json:"paymentMethod" binding:"required,oneof=cash transfer installments"`
	InstallmentPayments int               `json:"installmentPayments" binding:"omitempty,gt=0"`
	Channel             string            `json:"channel" binding:"omitempty,oneof=in_person instagram whatsapp facebook other"`
	Lines               []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// BuyerGroup is the sales history for one buyer
type BuyerGroup struct {
	Buyer      string          `json:"buyer"`
	Sales      []trade.Sale    `json:"sales"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

// CreateSale records a sale and decrements stock. A line selling more
// units than are in stock rejects the whole sale.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*trade.Sale, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	lines := make([]trade.SaleLine, 0, len(req.Lines))
	for i := range req.Lines {
		rl := &req.Lines[i]
		itemID, err := uuid.Parse(rl.ItemID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_LINE", "Sale line has an invalid item id")
		}
		item := next.FindItem(itemID)
		if item == nil {
			return nil, shared.ErrNotFound
		}
		price := item.MinPrice
		if rl.UnitPrice != nil {
			price = decimal.NewFromFloat(*rl.UnitPrice)
		}
		lines = append(lines, trade.SaleLine{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  rl.Quantity,
			UnitPrice: price,
		})
	}

	sale, err := trade.NewSale(req.SoldAt, req.Buyer, trade.PaymentMethod(req.PaymentMethod), req.InstallmentPayments, lines, trade.SalesChannel(req.Channel))
	if err != nil {
		return nil, err
	}

	for itemID, qty := range sale.QuantityByItem() {
		item := next.FindItem(itemID)
		if item == nil {
			return nil, shared.ErrNotFound
		}
		if err := item.RemoveStock(qty); err != nil {
			return nil, err
		}
	}

	next.Sales = append(next.Sales, *sale)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("buyer", sale.BuyerKey()),
		zap.String("total", sale.TotalAmount().StringFixed(2)),
		zap.String("payment_method", sale.PaymentMethod.String()),
	)
	return sale, nil
}

// DeleteSale removes a sale and returns its units to stock
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	next := snap.Clone()

	removed, err := next.RemoveSale(id)
	if err != nil {
		return err
	}
	for itemID, qty := range removed.QuantityByItem() {
		// Item may have been deleted since the sale; restock only what
		// still exists.
		if item := next.FindItem(itemID); item != nil {
			_ = item.AddStock(qty)
		}
	}

	if err := s.store.Save(ctx, next); err != nil {
		return err
	}
	s.logger.Info("sale deleted", zap.String("sale_id", id.String()))
	return nil
}

// ListSales returns all sales, newest first
func (s *SaleService) ListSales(ctx context.Context) ([]trade.Sale, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	sales := make([]trade.Sale, len(snap.Sales))
	copy(sales, snap.Sales)
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].SoldAt.After(sales[j].SoldAt)
	})
	return sales, nil
}

// SalesByBuyer groups sales per buyer, anonymous sales under one key,
// ordered by total spent descending.
func (s *SaleService) SalesByBuyer(ctx context.Context) ([]BuyerGroup, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	byBuyer := make(map[string]*BuyerGroup)
	order := make([]string, 0)
	for i := range snap.Sales {
		sale := snap.Sales[i]
		key := sale.BuyerKey()
		group, ok := byBuyer[key]
		if !ok {
			group = &BuyerGroup{Buyer: key, TotalSpent: decimal.Zero}
			byBuyer[key] = group
			order = append(order, key)
		}
		group.Sales = append(group.Sales, sale)
		group.TotalSpent = group.TotalSpent.Add(sale.TotalAmount())
	}

	groups := make([]BuyerGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byBuyer[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalSpent.GreaterThan(groups[j].TotalSpent)
	})
	return groups, nil
}
