package finance

import (
	"strings"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionReasonPrefix marks withdrawals that funded a transaction
// rather than a purchase. Aggregates that report re-investment into stock
// exclude withdrawals carrying this prefix.
const TransactionReasonPrefix = "Transaction: "

// RevenueWithdrawal is an append-only ledger entry recording revenue
// consumed for re-investment. It is never mutated after creation; it is
// removed only when its funding purchase or transaction is deleted.
type RevenueWithdrawal struct {
	shared.BaseEntity
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	PurchaseID    *uuid.UUID      `json:"purchaseId,omitempty"`
	TransactionID *uuid.UUID      `json:"transactionId,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// NewRevenueWithdrawal creates a withdrawal entry
func NewRevenueWithdrawal(amount decimal.Decimal, reason string, notes string) (*RevenueWithdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Withdrawal amount must be positive")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Withdrawal reason is required")
	}
	return &RevenueWithdrawal{
		BaseEntity: shared.NewBaseEntity(),
		Amount:     amount,
		Reason:     reason,
		Notes:      notes,
	}, nil
}

// LinkPurchase ties the withdrawal to the purchase it funded
func (w *RevenueWithdrawal) LinkPurchase(purchaseID uuid.UUID) {
	w.PurchaseID = &purchaseID
}

// LinkTransaction ties the withdrawal to the transaction it funded
func (w *RevenueWithdrawal) LinkTransaction(transactionID uuid.UUID) {
	w.TransactionID = &transactionID
}

// IsTransactionSourced reports whether the withdrawal funded a
// transaction, by link or by the legacy reason prefix.
func (w *RevenueWithdrawal) IsTransactionSourced() bool {
	return w.TransactionID != nil || strings.HasPrefix(w.Reason, TransactionReasonPrefix)
}
