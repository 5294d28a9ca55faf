package checkout

import (
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

// Command is the closed set of checkout commands.
type Command interface {
	CommandName() string
	Checkout() value.CheckoutID
	isCheckoutCommand()
}

type InitiateCheckout struct {
	CheckoutID  value.CheckoutID
	CartID      value.CartID
	CustomerID  value.CustomerID
	TotalAmount value.Money
}

type SetPaymentMethod struct {
	CheckoutID    value.CheckoutID
	PaymentMethod value.PaymentMethod
}

type ApplyCoupon struct {
	CheckoutID     value.CheckoutID
	CouponCode     value.CouponCode
	DiscountAmount value.Money
}

type ApplyGiftCard struct {
	CheckoutID    value.CheckoutID
	GiftCardCode  value.GiftCardCode
	AppliedAmount value.Money
}

type CompleteCheckout struct {
	CheckoutID value.CheckoutID
}

type CancelCheckout struct {
	CheckoutID value.CheckoutID
	Reason     string
}

func (InitiateCheckout) CommandName() string { return "InitiateCheckout" }
func (SetPaymentMethod) CommandName() string { return "SetPaymentMethod" }
func (ApplyCoupon) CommandName() string      { return "ApplyCoupon" }
func (ApplyGiftCard) CommandName() string    { return "ApplyGiftCard" }
func (CompleteCheckout) CommandName() string { return "CompleteCheckout" }
func (CancelCheckout) CommandName() string   { return "CancelCheckout" }

func (c InitiateCheckout) Checkout() value.CheckoutID { return c.CheckoutID }
func (c SetPaymentMethod) Checkout() value.CheckoutID { return c.CheckoutID }
func (c ApplyCoupon) Checkout() value.CheckoutID      { return c.CheckoutID }
func (c ApplyGiftCard) Checkout() value.CheckoutID    { return c.CheckoutID }
func (c CompleteCheckout) Checkout() value.CheckoutID { return c.CheckoutID }
func (c CancelCheckout) Checkout() value.CheckoutID   { return c.CheckoutID }

func (InitiateCheckout) isCheckoutCommand() {}
func (SetPaymentMethod) isCheckoutCommand() {}
func (ApplyCoupon) isCheckoutCommand()      {}
func (ApplyGiftCard) isCheckoutCommand()    {}
func (CompleteCheckout) isCheckoutCommand() {}
func (CancelCheckout) isCheckoutCommand()   {}

// StreamID names the stream of a checkout.
func StreamID(id value.CheckoutID) string {
	return event.StreamID(event.CategoryCheckout, id.String())
}

// StreamFor derives the stream name from a command.
func StreamFor(cmd Command) string {
	return StreamID(cmd.Checkout())
}
