package checkout

import (
	"slices"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

// Status is the lifecycle state of a checkout.
type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInitiated  Status = "Initiated"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// PaymentMethod is the stored form of a payment method.
type PaymentMethod struct {
	Type    string
	Details string
}

// State is the folded checkout.
type State struct {
	Status      Status
	CheckoutID  string
	CartID      string
	CustomerID  string
	TotalAmount *value.MoneyData
	// PaymentMethod is nil until one is set.
	PaymentMethod       *PaymentMethod
	AppliedCoupons      []string
	AppliedGiftCards    []string
	TotalDiscount       float64
	TotalGiftCardAmount float64
	FinalAmount         *value.MoneyData
	CancellationReason  string
}

// InitialState is the state of a checkout stream with no events.
var InitialState = State{Status: StatusNotStarted}

// HasCoupon reports whether code was already applied. Codes are stored
// upper-cased.
func (s State) HasCoupon(code value.CouponCode) bool {
	return slices.Contains(s.AppliedCoupons, code.String())
}

// HasGiftCard reports whether code was already applied.
func (s State) HasGiftCard(code value.GiftCardCode) bool {
	return slices.Contains(s.AppliedGiftCards, code.String())
}

// Currency returns the currency of the checkout total, or "".
func (s State) Currency() string {
	if s.TotalAmount == nil {
		return ""
	}
	return s.TotalAmount.Currency
}

// ComputeFinalAmount returns max(0, total - discounts - gift cards).
func (s State) ComputeFinalAmount() (value.Money, error) {
	if s.TotalAmount == nil {
		return value.Money{}, errTotalRequired()
	}
	total, err := s.TotalAmount.Money()
	if err != nil {
		return value.Money{}, err
	}
	deductions, err := value.NewMoney(s.TotalDiscount+s.TotalGiftCardAmount, total.Currency())
	if err != nil {
		return value.Money{}, err
	}
	return total.SubtractClamped(deductions)
}
