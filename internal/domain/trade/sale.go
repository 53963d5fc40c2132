package trade

import (
	"time"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnonymousBuyer is the grouping key for sales recorded without a buyer name
const AnonymousBuyer = "Anonymous"

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodTransfer     PaymentMethod = "transfer"
	PaymentMethodInstallments PaymentMethod = "installments"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodInstallments:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// SalesChannel is where a sale happened
type SalesChannel string

const (
	ChannelInPerson  SalesChannel = "in_person"
	ChannelInstagram SalesChannel = "instagram"
	ChannelWhatsApp  SalesChannel = "whatsapp"
	ChannelFacebook  SalesChannel = "facebook"
	ChannelOther     SalesChannel = "other"
)

// IsValid checks if the sales channel is valid
func (c SalesChannel) IsValid() bool {
	switch c {
	case ChannelInPerson, ChannelInstagram, ChannelWhatsApp, ChannelFacebook, ChannelOther:
		return true
	}
	return false
}

// InstallmentPlan splits a sale total into equal payments. Schedule holds
// the exact per-payment amounts; remainder cents land on the earliest
// payments so the schedule always sums to the sale total.
type InstallmentPlan struct {
	Payments         int                 `json:"payments"`
	AmountPerPayment decimal.Decimal     `json:"amountPerPayment"`
	Schedule         []valueobject.Money `json:"schedule"`
}

// SaleLine is one item within a sale
type SaleLine struct {
	ItemID    uuid.UUID       `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity * unit price
func (l *SaleLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Validate checks the line before any state mutation
func (l *SaleLine) Validate() error {
	if l.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_LINE", "Sale line has no item selected")
	}
	if l.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if l.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Line unit price cannot be negative")
	}
	return nil
}

// Sale is a sales transaction aggregate root
type Sale struct {
	shared.BaseEntity
	SoldAt        time.Time        `json:"soldAt"`
	Buyer         string           `json:"buyer,omitempty"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	Installments  *InstallmentPlan `json:"installments,omitempty"`
	Lines         []SaleLine       `json:"lines"`
	Channel       SalesChannel     `json:"channel,omitempty"`
}

// NewSale creates a sale. For installment payments the per-payment amount
// is derived as total / payments.
func NewSale(soldAt time.Time, buyer string, method PaymentMethod, installmentPayments int, lines []SaleLine, channel SalesChannel) (*Sale, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "Sale must have at least one line")
	}
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return nil, err
		}
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if channel != "" && !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Sales channel is not valid")
	}

	s := &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		SoldAt:        soldAt,
		Buyer:         buyer,
		PaymentMethod: method,
		Lines:         lines,
		Channel:       channel,
	}
	if soldAt.IsZero() {
		s.SoldAt = s.CreatedAt
	}

	if method == PaymentMethodInstallments {
		if installmentPayments <= 0 {
			return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count must be positive")
		}
		schedule, err := valueobject.NewMoneyUSD(s.TotalAmount()).Allocate(installmentPayments)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INSTALLMENTS", err.Error())
		}
		s.Installments = &InstallmentPlan{
			Payments:         installmentPayments,
			AmountPerPayment: s.TotalAmount().Div(decimal.NewFromInt(int64(installmentPayments))).Round(2),
			Schedule:         schedule,
		}
	}
	return s, nil
}

// TotalAmount returns the sum of line totals
func (s *Sale) TotalAmount() decimal.Decimal {
	sum := decimal.Zero
	for i := range s.Lines {
		sum = sum.Add(s.Lines[i].LineTotal())
	}
	return sum
}

// BuyerKey returns the buyer grouping key; blank buyers group as Anonymous
func (s *Sale) BuyerKey() string {
	if s.Buyer == "" {
		return AnonymousBuyer
	}
	return s.Buyer
}

// QuantityByItem returns units sold per item, merging lines that reference
// the same item.
func (s *Sale) QuantityByItem() map[uuid.UUID]int {
	qty := make(map[uuid.UUID]int, len(s.Lines))
	for i := range s.Lines {
		qty[s.Lines[i].ItemID] += s.Lines[i].Quantity
	}
	return qty
}
