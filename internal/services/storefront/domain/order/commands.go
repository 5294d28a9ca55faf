package order

import (
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

// Command is the closed set of order commands.
type Command interface {
	CommandName() string
	Order() value.OrderID
	isOrderCommand()
}

// LineItem is one ordered product.
type LineItem struct {
	ProductID value.ProductID
	Quantity  value.Quantity
	UnitPrice value.Money
}

type CreateOrder struct {
	OrderID         value.OrderID
	CartID          value.CartID
	CheckoutID      value.CheckoutID
	CustomerID      value.CustomerID
	Items           []LineItem
	TotalAmount     value.Money
	ShippingAddress value.ShippingAddress
}

type ConfirmOrder struct {
	OrderID value.OrderID
}

type ShipOrder struct {
	OrderID        value.OrderID
	TrackingNumber string
}

type DeliverOrder struct {
	OrderID value.OrderID
}

type CancelOrder struct {
	OrderID value.OrderID
	Reason  string
}

func (CreateOrder) CommandName() string  { return "CreateOrder" }
func (ConfirmOrder) CommandName() string { return "ConfirmOrder" }
func (ShipOrder) CommandName() string    { return "ShipOrder" }
func (DeliverOrder) CommandName() string { return "DeliverOrder" }
func (CancelOrder) CommandName() string  { return "CancelOrder" }

func (c CreateOrder) Order() value.OrderID  { return c.OrderID }
func (c ConfirmOrder) Order() value.OrderID { return c.OrderID }
func (c ShipOrder) Order() value.OrderID    { return c.OrderID }
func (c DeliverOrder) Order() value.OrderID { return c.OrderID }
func (c CancelOrder) Order() value.OrderID  { return c.OrderID }

func (CreateOrder) isOrderCommand()  {}
func (ConfirmOrder) isOrderCommand() {}
func (ShipOrder) isOrderCommand()    {}
func (DeliverOrder) isOrderCommand() {}
func (CancelOrder) isOrderCommand()  {}

// StreamID names the stream of an order.
func StreamID(id value.OrderID) string {
	return event.StreamID(event.CategoryOrder, id.String())
}

// StreamFor derives the stream name from a command.
func StreamFor(cmd Command) string {
	return StreamID(cmd.Order())
}
