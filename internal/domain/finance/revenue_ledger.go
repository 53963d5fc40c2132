package finance

import (
	"fmt"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// The revenue ledger maintains a conservation invariant over a virtual
// revenue pool: fed by sales (and income transactions), drained by
// withdrawals linked to purchases or transactions. The available balance
// never goes negative; every withdrawal is validated against the current
// snapshot immediately before it is written.

// LedgerSummary is the ledger state derived on demand from the snapshot
// collections. It is never stored.
type LedgerSummary struct {
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	TotalIncome           decimal.Decimal `json:"totalIncome"`
	TotalWithdrawn        decimal.Decimal `json:"totalWithdrawn"`
	WithdrawnForPurchases decimal.Decimal `json:"withdrawnForPurchases"`
	AvailableRevenue      decimal.Decimal `json:"availableRevenue"`
	UtilizationRate       decimal.Decimal `json:"utilizationRate"` // percent of revenue withdrawn
}

// Summarize derives the ledger state from the sales, transactions, and
// withdrawals collections.
func Summarize(sales []trade.Sale, transactions []Transaction, withdrawals []RevenueWithdrawal) LedgerSummary {
	s := LedgerSummary{
		TotalRevenue:          decimal.Zero,
		TotalIncome:           decimal.Zero,
		TotalWithdrawn:        decimal.Zero,
		WithdrawnForPurchases: decimal.Zero,
	}
	for i := range sales {
		s.TotalRevenue = s.TotalRevenue.Add(sales[i].TotalAmount())
	}
	for i := range transactions {
		if transactions[i].Type == TransactionTypeIncome {
			s.TotalIncome = s.TotalIncome.Add(transactions[i].Amount)
		}
	}
	for i := range withdrawals {
		s.TotalWithdrawn = s.TotalWithdrawn.Add(withdrawals[i].Amount)
		if !withdrawals[i].IsTransactionSourced() {
			s.WithdrawnForPurchases = s.WithdrawnForPurchases.Add(withdrawals[i].Amount)
		}
	}

	s.AvailableRevenue = s.TotalRevenue.Add(s.TotalIncome).Sub(s.TotalWithdrawn)
	if s.AvailableRevenue.IsNegative() {
		s.AvailableRevenue = decimal.Zero
	}
	if s.TotalRevenue.IsPositive() {
		s.UtilizationRate = s.TotalWithdrawn.Div(s.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		s.UtilizationRate = decimal.Zero
	}
	return s
}

// CanWithdraw reports whether amount can be taken from the pool: it must
// be positive and not exceed the available balance.
func (s LedgerSummary) CanWithdraw(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(s.AvailableRevenue)
}

// ValidateWithdrawal returns an insufficient-revenue error when amount
// cannot be withdrawn. Non-positive amounts are an input error.
func (s LedgerSummary) ValidateWithdrawal(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Withdrawal amount must be positive")
	}
	if amount.GreaterThan(s.AvailableRevenue) {
		return shared.NewDomainError("INSUFFICIENT_REVENUE",
			fmt.Sprintf("Requested %s but only %s revenue is available",
				amount.StringFixed(2), s.AvailableRevenue.StringFixed(2)))
	}
	return nil
}

// PaymentBreakdown is the result of splitting a cost between the revenue
// pool and external funds.
type PaymentBreakdown struct {
	RevenueUsed     decimal.Decimal     `json:"revenueUsed"`
	ExternalPayment decimal.Decimal     `json:"externalPayment"`
	PaymentSource   trade.PaymentSource `json:"paymentSource"`
}

// CalculatePaymentBreakdown splits totalCost between revenue and external
// funding. revenueToUse is clamped to [0, totalCost]; it never exceeds the
// cost being funded even if more revenue is available.
func CalculatePaymentBreakdown(totalCost, revenueToUse decimal.Decimal) PaymentBreakdown {
	revenueUsed := revenueToUse
	if revenueUsed.IsNegative() {
		revenueUsed = decimal.Zero
	}
	if revenueUsed.GreaterThan(totalCost) {
		revenueUsed = totalCost
	}
	external := totalCost.Sub(revenueUsed)

	source := trade.PaymentSourceMixed
	switch {
	case revenueUsed.IsZero():
		source = trade.PaymentSourceExternal
	case external.IsZero():
		source = trade.PaymentSourceRevenue
	}

	return PaymentBreakdown{
		RevenueUsed:     revenueUsed,
		ExternalPayment: external,
		PaymentSource:   source,
	}
}
