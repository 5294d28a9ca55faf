package cart

import (
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

// Command is the closed set of cart commands.
type Command interface {
	// CommandName identifies the command in logs and metadata.
	CommandName() string
	// Cart returns the aggregate the command targets.
	Cart() value.CartID
	isCartCommand()
}

type StartShopping struct {
	CartID     value.CartID
	CustomerID value.CustomerID
}

type AddItemToCart struct {
	CartID    value.CartID
	ProductID value.ProductID
	Quantity  value.Quantity
	UnitPrice value.Money
}

type RemoveItemFromCart struct {
	CartID    value.CartID
	ProductID value.ProductID
}

type ChangeItemQuantity struct {
	CartID      value.CartID
	ProductID   value.ProductID
	NewQuantity value.Quantity
}

type ClearShoppingCart struct {
	CartID value.CartID
}

func (StartShopping) CommandName() string      { return "StartShopping" }
func (AddItemToCart) CommandName() string      { return "AddItemToCart" }
func (RemoveItemFromCart) CommandName() string { return "RemoveItemFromCart" }
func (ChangeItemQuantity) CommandName() string { return "ChangeItemQuantity" }
func (ClearShoppingCart) CommandName() string  { return "ClearShoppingCart" }

func (c StartShopping) Cart() value.CartID      { return c.CartID }
func (c AddItemToCart) Cart() value.CartID      { return c.CartID }
func (c RemoveItemFromCart) Cart() value.CartID { return c.CartID }
func (c ChangeItemQuantity) Cart() value.CartID { return c.CartID }
func (c ClearShoppingCart) Cart() value.CartID  { return c.CartID }

func (StartShopping) isCartCommand()      {}
func (AddItemToCart) isCartCommand()      {}
func (RemoveItemFromCart) isCartCommand() {}
func (ChangeItemQuantity) isCartCommand() {}
func (ClearShoppingCart) isCartCommand()  {}

// StreamID names the stream of a cart.
func StreamID(id value.CartID) string {
	return event.StreamID(event.CategoryShoppingCart, id.String())
}

// StreamFor derives the stream name from a command.
func StreamFor(cmd Command) string {
	return StreamID(cmd.Cart())
}
