package finance

import (
	"time"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a non-inventory business event
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeFee      TransactionType = "fee"
	TransactionTypeDiscount TransactionType = "discount"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeFee, TransactionTypeDiscount:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// CanUseRevenue returns true for types whose cost may be funded from the
// revenue pool.
func (t TransactionType) CanUseRevenue() bool {
	return t == TransactionTypeExpense || t == TransactionTypeFee
}

// Transaction is a non-inventory business event: income, expense, fee, or
// discount. Expense and fee transactions carry a payment source; a mixed
// source splits the amount into RevenueAmount + ExternalAmount.
type Transaction struct {
	shared.BaseEntity
	OccurredAt     time.Time           `json:"occurredAt"`
	Type           TransactionType     `json:"type"`
	Category       string              `json:"category,omitempty"`
	Description    string              `json:"description,omitempty"`
	Amount         decimal.Decimal     `json:"amount"`
	PaymentMethod  trade.PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentSource  trade.PaymentSource `json:"paymentSource,omitempty"`
	RevenueAmount  decimal.Decimal     `json:"revenueAmount"`
	ExternalAmount decimal.Decimal     `json:"externalAmount"`
}

// NewTransaction creates a transaction. For expense/fee types an empty
// payment source defaults to external.
func NewTransaction(occurredAt time.Time, txType TransactionType, category, description string, amount decimal.Decimal, method trade.PaymentMethod, source trade.PaymentSource) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Transaction type is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if method != "" && !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if source != "" && !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_SOURCE", "Payment source is not valid")
	}
	if source != "" && !txType.CanUseRevenue() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_SOURCE", "Only expense and fee transactions carry a payment source")
	}

	tx := &Transaction{
		BaseEntity:    shared.NewBaseEntity(),
		OccurredAt:    occurredAt,
		Type:          txType,
		Category:      category,
		Description:   description,
		Amount:        amount,
		PaymentMethod: method,
		PaymentSource: source,
	}
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = tx.CreatedAt
	}
	if txType.CanUseRevenue() && tx.PaymentSource == "" {
		tx.PaymentSource = trade.PaymentSourceExternal
	}
	return tx, nil
}

// SetMixedSplit records the revenue/external split for a mixed-source
// transaction. The two parts must sum to the transaction amount.
func (t *Transaction) SetMixedSplit(revenueAmount decimal.Decimal) error {
	if t.PaymentSource != trade.PaymentSourceMixed {
		return shared.NewDomainError("INVALID_STATE", "Split applies only to mixed payment source")
	}
	if revenueAmount.LessThanOrEqual(decimal.Zero) || revenueAmount.GreaterThanOrEqual(t.Amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Mixed split must be between zero and the transaction amount")
	}
	t.RevenueAmount = revenueAmount
	t.ExternalAmount = t.Amount.Sub(revenueAmount)
	t.Touch()
	return nil
}

// RevenueFunded returns the part of the amount drawn from the revenue
// pool: the full amount for revenue-sourced transactions, the recorded
// split for mixed, zero otherwise.
func (t *Transaction) RevenueFunded() decimal.Decimal {
	if !t.Type.CanUseRevenue() {
		return decimal.Zero
	}
	switch t.PaymentSource {
	case trade.PaymentSourceRevenue:
		return t.Amount
	case trade.PaymentSourceMixed:
		return t.RevenueAmount
	default:
		return decimal.Zero
	}
}
