package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/glowstock/backend/internal/domain/finance"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/glowstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RevenueService provides application-level revenue ledger and
// transaction operations. Every mutation is load -> pure transform on a
// clone -> save, so a rejected operation leaves the persisted snapshot
// untouched.
type RevenueService struct {
	store  snapshot.Store
	logger *zap.Logger
}

// NewRevenueService creates a new RevenueService
func NewRevenueService(store snapshot.Store, logger *zap.Logger) *RevenueService {
	return &RevenueService{store: store, logger: logger}
}

// Summary returns the ledger state derived from the current snapshot
func (s *RevenueService) Summary(ctx context.Context) (finance.LedgerSummary, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return finance.LedgerSummary{}, err
	}
	return snap.Ledger(), nil
}

// ListWithdrawals returns all withdrawal entries
func (s *RevenueService) ListWithdrawals(ctx context.Context) ([]finance.RevenueWithdrawal, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.RevenueWithdrawals, nil
}

// CreateTransactionRequest represents a request to record a transaction
type CreateTransactionRequest struct {
	OccurredAt    time.Time `json:"occurredAt"`
	Type          string    `json:"type" binding:"required,oneof=income expense fee discount"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	PaymentMethod string    `json:"paymentMethod" binding:"omitempty,oneof=cash transfer installments"`
	PaymentSource string    `json:"paymentSource" binding:"omitempty,oneof=external revenue mixed"`
	RevenueAmount float64   `json:"revenueAmount" binding:"omitempty,gt=0"`
}

// CreateTransaction records a transaction. Expense and fee transactions
// funded from revenue withdraw from the pool; the withdrawal is validated
// against the current snapshot immediately before the write and the whole
// operation is rejected on insufficient funds.
func (s *RevenueService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*finance.Transaction, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	tx, err := finance.NewTransaction(
		req.OccurredAt,
		finance.TransactionType(req.Type),
		req.Category,
		req.Description,
		decimal.NewFromFloat(req.Amount),
		trade.PaymentMethod(req.PaymentMethod),
		trade.PaymentSource(req.PaymentSource),
	)
	if err != nil {
		return nil, err
	}
	if tx.PaymentSource == trade.PaymentSourceMixed {
		if err := tx.SetMixedSplit(decimal.NewFromFloat(req.RevenueAmount)); err != nil {
			return nil, err
		}
	}

	if err := ProcessTransaction(next, tx); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("transaction recorded",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", tx.Type.String()),
		zap.String("amount", tx.Amount.StringFixed(2)),
	)
	return tx, nil
}

// DeleteTransaction removes a transaction. Withdrawals linked to it are
// removed as well, returning their amount to the pool.
func (s *RevenueService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	next := snap.Clone()

	if _, err := next.RemoveTransaction(id); err != nil {
		return err
	}
	removed := next.RemoveWithdrawalsForTransaction(id)

	if err := s.store.Save(ctx, next); err != nil {
		return err
	}
	s.logger.Info("transaction deleted",
		zap.String("transaction_id", id.String()),
		zap.Int("withdrawals_removed", removed),
	)
	return nil
}

// ListTransactions returns all transactions
func (s *RevenueService) ListTransactions(ctx context.Context) ([]finance.Transaction, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Transactions, nil
}

// ProcessTransaction appends tx to the snapshot, creating the linked
// withdrawal when the transaction draws on the revenue pool. Income and
// discount transactions never touch the ledger; income feeds the pool
// implicitly through the availability formula.
func ProcessTransaction(snap *snapshot.Snapshot, tx *finance.Transaction) error {
	revenueFunded := tx.RevenueFunded()
	if revenueFunded.IsPositive() {
		if err := snap.Ledger().ValidateWithdrawal(revenueFunded); err != nil {
			return err
		}
		reason := finance.TransactionReasonPrefix + transactionLabel(tx)
		w, err := finance.NewRevenueWithdrawal(revenueFunded, reason, "")
		if err != nil {
			return err
		}
		w.LinkTransaction(tx.ID)
		snap.RevenueWithdrawals = append(snap.RevenueWithdrawals, *w)
	}
	snap.Transactions = append(snap.Transactions, *tx)
	return nil
}

// FundPurchase stamps the purchase with its payment breakdown and, when
// revenue is used, appends the linked withdrawal. Validation runs against
// the snapshot as it stands at write time.
func FundPurchase(snap *snapshot.Snapshot, p *trade.Purchase, revenueToUse decimal.Decimal, reason, notes string) error {
	breakdown := finance.CalculatePaymentBreakdown(p.TotalCost(), revenueToUse)
	if breakdown.RevenueUsed.IsPositive() {
		if err := snap.Ledger().ValidateWithdrawal(breakdown.RevenueUsed); err != nil {
			return err
		}
		if reason == "" {
			reason = fmt.Sprintf("Purchase on %s", p.CreatedAt.Format("2006-01-02"))
		}
		w, err := finance.NewRevenueWithdrawal(breakdown.RevenueUsed, reason, notes)
		if err != nil {
			return err
		}
		w.LinkPurchase(p.ID)
		snap.RevenueWithdrawals = append(snap.RevenueWithdrawals, *w)
	}
	p.RevenueUsed = breakdown.RevenueUsed
	p.PaymentSource = breakdown.PaymentSource
	return nil
}

func transactionLabel(tx *finance.Transaction) string {
	if tx.Description != "" {
		return tx.Description
	}
	if tx.Category != "" {
		return tx.Category
	}
	return tx.Type.String()
}
