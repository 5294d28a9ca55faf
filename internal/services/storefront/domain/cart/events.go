package cart

import (
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

const (
	TypeShoppingStarted     event.Type = "ShoppingStarted"
	TypeItemAddedToCart     event.Type = "ItemAddedToCart"
	TypeItemRemovedFromCart event.Type = "ItemRemovedFromCart"
	TypeItemQuantityChanged event.Type = "ItemQuantityChanged"
	TypeShoppingCartCleared event.Type = "ShoppingCartCleared"
)

// Event is the closed set of cart events.
type Event interface {
	EventType() event.Type
	isCartEvent()
}

// ShoppingStarted opens a cart for a customer.
type ShoppingStarted struct {
	CartID     string `json:"cart_id"`
	CustomerID string `json:"customer_id"`
	Status     Status `json:"status"`
	StartedAt  string `json:"started_at"`
}

// ItemAddedToCart adds quantity to a product line, creating it if needed.
type ItemAddedToCart struct {
	CartID    string          `json:"cart_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice value.MoneyData `json:"unit_price"`
	AddedAt   string          `json:"added_at"`
}

type ItemRemovedFromCart struct {
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	RemovedAt string `json:"removed_at"`
}

// ItemQuantityChanged replaces a line's quantity; zero removes the line.
type ItemQuantityChanged struct {
	CartID      string `json:"cart_id"`
	ProductID   string `json:"product_id"`
	NewQuantity int    `json:"new_quantity"`
	ChangedAt   string `json:"changed_at"`
}

// ShoppingCartCleared empties the cart and closes it.
type ShoppingCartCleared struct {
	CartID    string `json:"cart_id"`
	Status    Status `json:"status"`
	ClearedAt string `json:"cleared_at"`
}

func (ShoppingStarted) EventType() event.Type     { return TypeShoppingStarted }
func (ItemAddedToCart) EventType() event.Type     { return TypeItemAddedToCart }
func (ItemRemovedFromCart) EventType() event.Type { return TypeItemRemovedFromCart }
func (ItemQuantityChanged) EventType() event.Type { return TypeItemQuantityChanged }
func (ShoppingCartCleared) EventType() event.Type { return TypeShoppingCartCleared }

func (ShoppingStarted) isCartEvent()     {}
func (ItemAddedToCart) isCartEvent()     {}
func (ItemRemovedFromCart) isCartEvent() {}
func (ItemQuantityChanged) isCartEvent() {}
func (ShoppingCartCleared) isCartEvent() {}
