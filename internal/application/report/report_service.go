package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"time"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/shared/valueobject"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService derives read-only reports from the snapshot
type ReportService struct {
	store  snapshot.Store
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(store snapshot.Store, logger *zap.Logger) *ReportService {
	return &ReportService{store: store, logger: logger}
}

// SoldItemRow aggregates sales of one item within a window
type SoldItemRow struct {
	ItemID         uuid.UUID       `json:"itemId"`
	ItemName       string          `json:"itemName"`
	QuantitySold   int             `json:"quantitySold"`
	Revenue        decimal.Decimal `json:"revenue"`
	RevenueDisplay string          `json:"revenueDisplay"`
}

// MonthlyBucket is one YYYY-MM bucket of trading activity
type MonthlyBucket struct {
	Month         string          `json:"month"`
	SalesCount    int             `json:"salesCount"`
	SalesRevenue  decimal.Decimal `json:"salesRevenue"`
	PurchaseCount int             `json:"purchaseCount"`
	PurchaseCost  decimal.Decimal `json:"purchaseCost"`
	Net           decimal.Decimal `json:"net"`
	NetDisplay    string          `json:"netDisplay"`
}

// WeeklyBucket is one ISO week of sales activity
type WeeklyBucket struct {
	Week         string          `json:"week"`
	WeekStart    time.Time       `json:"weekStart"`
	SalesCount   int             `json:"salesCount"`
	SalesRevenue decimal.Decimal `json:"salesRevenue"`
}

// MonthOverMonthReport compares the running month's sales against the
// finished one.
type MonthOverMonthReport struct {
	CurrentMonth         string          `json:"currentMonth"`
	CurrentSalesCount    int             `json:"currentSalesCount"`
	CurrentRevenue       decimal.Decimal `json:"currentRevenue"`
	PreviousMonth        string          `json:"previousMonth"`
	PreviousSalesCount   int             `json:"previousSalesCount"`
	PreviousRevenue      decimal.Decimal `json:"previousRevenue"`
	RevenueChangePercent decimal.Decimal `json:"revenueChangePercent"`
}

// BreakEvenReport compares cumulative sales revenue against the total
// spent on purchases, and estimates months to recover the remainder at
// the observed average monthly revenue.
type BreakEvenReport struct {
	TotalInvestment       decimal.Decimal `json:"totalInvestment"`
	CumulativeRevenue     decimal.Decimal `json:"cumulativeRevenue"`
	Remaining             decimal.Decimal `json:"remaining"`
	BrokeEven             bool            `json:"brokeEven"`
	AverageMonthlyRevenue decimal.Decimal `json:"averageMonthlyRevenue"`
	EstimatedMonths       decimal.Decimal `json:"estimatedMonths"`
}

// SoldItems aggregates units sold and revenue per item over [from, to].
// Zero bounds leave that side of the window open.
func (s *ReportService) SoldItems(ctx context.Context, from, to time.Time) ([]SoldItemRow, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	byItem := make(map[uuid.UUID]*SoldItemRow)
	for i := range snap.Sales {
		sale := &snap.Sales[i]
		if !shared.InRange(sale.SoldAt, from, to) {
			continue
		}
		for j := range sale.Lines {
			line := &sale.Lines[j]
			row, ok := byItem[line.ItemID]
			if !ok {
				row = &SoldItemRow{ItemID: line.ItemID, ItemName: line.ItemName, Revenue: decimal.Zero}
				byItem[line.ItemID] = row
			}
			row.QuantitySold += line.Quantity
			row.Revenue = row.Revenue.Add(line.LineTotal())
		}
	}

	rows := make([]SoldItemRow, 0, len(byItem))
	for _, row := range byItem {
		row.RevenueDisplay = valueobject.NewMoneyUSD(row.Revenue).Display()
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].QuantitySold != rows[j].QuantitySold {
			return rows[i].QuantitySold > rows[j].QuantitySold
		}
		return rows[i].ItemName < rows[j].ItemName
	})
	return rows, nil
}

// SoldItemsCSV renders the sold-items aggregate as CSV
func (s *ReportService) SoldItemsCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	rows, err := s.SoldItems(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"item", "quantity_sold", "revenue"})
	for i := range rows {
		_ = w.Write([]string{
			rows[i].ItemName,
			decimal.NewFromInt(int64(rows[i].QuantitySold)).String(),
			rows[i].Revenue.StringFixed(2),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Monthly buckets sales and purchases by calendar month, oldest first
func (s *ReportService) Monthly(ctx context.Context) ([]MonthlyBucket, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyBucket)
	bucket := func(key string) *MonthlyBucket {
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyBucket{
				Month:        key,
				SalesRevenue: decimal.Zero,
				PurchaseCost: decimal.Zero,
			}
			buckets[key] = b
		}
		return b
	}

	for i := range snap.Sales {
		b := bucket(shared.MonthKey(snap.Sales[i].SoldAt))
		b.SalesCount++
		b.SalesRevenue = b.SalesRevenue.Add(snap.Sales[i].TotalAmount())
	}
	for i := range snap.Purchases {
		p := &snap.Purchases[i]
		at := p.CreatedAt
		if p.OrderedAt != nil {
			at = *p.OrderedAt
		}
		b := bucket(shared.MonthKey(at))
		b.PurchaseCount++
		b.PurchaseCost = b.PurchaseCost.Add(p.TotalCost())
	}

	out := make([]MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Net = b.SalesRevenue.Sub(b.PurchaseCost)
		b.NetDisplay = valueobject.NewMoneyUSD(b.Net).Display()
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Weekly buckets sales by ISO week, oldest first
func (s *ReportService) Weekly(ctx context.Context) ([]WeeklyBucket, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*WeeklyBucket)
	for i := range snap.Sales {
		sale := &snap.Sales[i]
		key := shared.WeekKey(sale.SoldAt)
		b, ok := buckets[key]
		if !ok {
			b = &WeeklyBucket{
				Week:         key,
				WeekStart:    shared.WeekStart(sale.SoldAt),
				SalesRevenue: decimal.Zero,
			}
			buckets[key] = b
		}
		b.SalesCount++
		b.SalesRevenue = b.SalesRevenue.Add(sale.TotalAmount())
	}

	out := make([]WeeklyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

// MonthOverMonth compares this month's sales against last month's,
// relative to now.
func (s *ReportService) MonthOverMonth(ctx context.Context, now time.Time) (*MonthOverMonthReport, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	report := &MonthOverMonthReport{
		CurrentMonth:         shared.MonthKey(now),
		CurrentRevenue:       decimal.Zero,
		PreviousMonth:        shared.MonthKey(firstOfMonth.AddDate(0, -1, 0)),
		PreviousRevenue:      decimal.Zero,
		RevenueChangePercent: decimal.Zero,
	}
	for i := range snap.Sales {
		sale := &snap.Sales[i]
		switch {
		case shared.IsCurrentMonth(sale.SoldAt, now):
			report.CurrentSalesCount++
			report.CurrentRevenue = report.CurrentRevenue.Add(sale.TotalAmount())
		case shared.IsPreviousMonth(sale.SoldAt, now):
			report.PreviousSalesCount++
			report.PreviousRevenue = report.PreviousRevenue.Add(sale.TotalAmount())
		}
	}
	if report.PreviousRevenue.IsPositive() {
		report.RevenueChangePercent = report.CurrentRevenue.
			Sub(report.PreviousRevenue).
			Div(report.PreviousRevenue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return report, nil
}

// BreakEven reports how far cumulative sales revenue has come toward
// covering everything spent on purchases.
func (s *ReportService) BreakEven(ctx context.Context) (*BreakEvenReport, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	investment := decimal.Zero
	for i := range snap.Purchases {
		investment = investment.Add(snap.Purchases[i].TotalCost())
	}
	revenue := decimal.Zero
	months := make(map[string]struct{})
	for i := range snap.Sales {
		revenue = revenue.Add(snap.Sales[i].TotalAmount())
		months[shared.MonthKey(snap.Sales[i].SoldAt)] = struct{}{}
	}

	report := &BreakEvenReport{
		TotalInvestment:       investment,
		CumulativeRevenue:     revenue,
		Remaining:             decimal.Zero,
		AverageMonthlyRevenue: decimal.Zero,
		EstimatedMonths:       decimal.Zero,
	}
	if revenue.GreaterThanOrEqual(investment) {
		report.BrokeEven = true
		return report, nil
	}
	report.Remaining = investment.Sub(revenue)
	if len(months) > 0 {
		report.AverageMonthlyRevenue = revenue.Div(decimal.NewFromInt(int64(len(months)))).Round(2)
	}
	if report.AverageMonthlyRevenue.IsPositive() {
		report.EstimatedMonths = report.Remaining.Div(report.AverageMonthlyRevenue).Round(1)
	}
	return report, nil
}
