package checkout

import (
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

const (
	TypeCheckoutInitiated event.Type = "CheckoutInitiated"
	TypePaymentMethodSet  event.Type = "PaymentMethodSet"
	TypeCouponApplied     event.Type = "CouponApplied"
	TypeGiftCardApplied   event.Type = "GiftCardApplied"
	TypeCheckoutCompleted event.Type = "CheckoutCompleted"
	TypeCheckoutCancelled event.Type = "CheckoutCancelled"
)

// Event is the closed set of checkout events.
type Event interface {
	EventType() event.Type
	isCheckoutEvent()
}

type CheckoutInitiated struct {
	CheckoutID  string          `json:"checkout_id"`
	CartID      string          `json:"cart_id"`
	CustomerID  string          `json:"customer_id"`
	TotalAmount value.MoneyData `json:"total_amount"`
	Status      Status          `json:"status"`
	InitiatedAt string          `json:"initiated_at"`
}

type PaymentMethodSet struct {
	CheckoutID           string `json:"checkout_id"`
	PaymentMethodType    string `json:"payment_method_type"`
	PaymentMethodDetails string `json:"payment_method_details"`
	SetAt                string `json:"set_at"`
}

type CouponApplied struct {
	CheckoutID     string          `json:"checkout_id"`
	CouponCode     string          `json:"coupon_code"`
	DiscountAmount value.MoneyData `json:"discount_amount"`
	AppliedAt      string          `json:"applied_at"`
}

type GiftCardApplied struct {
	CheckoutID    string          `json:"checkout_id"`
	GiftCardCode  string          `json:"gift_card_code"`
	AppliedAmount value.MoneyData `json:"applied_amount"`
	AppliedAt     string          `json:"applied_at"`
}

// CheckoutCompleted records the amount charged after discounts and gift cards.
type CheckoutCompleted struct {
	CheckoutID  string          `json:"checkout_id"`
	FinalAmount value.MoneyData `json:"final_amount"`
	Status      Status          `json:"status"`
	CompletedAt string          `json:"completed_at"`
}

type CheckoutCancelled struct {
	CheckoutID  string `json:"checkout_id"`
	Reason      string `json:"reason"`
	Status      Status `json:"status"`
	CancelledAt string `json:"cancelled_at"`
}

func (CheckoutInitiated) EventType() event.Type { return TypeCheckoutInitiated }
func (PaymentMethodSet) EventType() event.Type  { return TypePaymentMethodSet }
func (CouponApplied) EventType() event.Type     { return TypeCouponApplied }
func (GiftCardApplied) EventType() event.Type   { return TypeGiftCardApplied }
func (CheckoutCompleted) EventType() event.Type { return TypeCheckoutCompleted }
func (CheckoutCancelled) EventType() event.Type { return TypeCheckoutCancelled }

func (CheckoutInitiated) isCheckoutEvent() {}
func (PaymentMethodSet) isCheckoutEvent()  {}
func (CouponApplied) isCheckoutEvent()     {}
func (GiftCardApplied) isCheckoutEvent()   {}
func (CheckoutCompleted) isCheckoutEvent() {}
func (CheckoutCancelled) isCheckoutEvent() {}
