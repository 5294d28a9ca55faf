package order

import (
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

const (
	TypeOrderCreated   event.Type = "OrderCreated"
	TypeOrderConfirmed event.Type = "OrderConfirmed"
	TypeOrderShipped   event.Type = "OrderShipped"
	TypeOrderDelivered event.Type = "OrderDelivered"
	TypeOrderCancelled event.Type = "OrderCancelled"
)

// Event is the closed set of order events.
type Event interface {
	EventType() event.Type
	isOrderEvent()
}

// ItemData is the stored form of a line item.
type ItemData struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice value.MoneyData `json:"unit_price"`
}

// AddressData is the stored form of a shipping address.
type AddressData struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type OrderCreated struct {
	OrderID         string          `json:"order_id"`
	CartID          string          `json:"cart_id"`
	CheckoutID      string          `json:"checkout_id"`
	CustomerID      string          `json:"customer_id"`
	Items           []ItemData      `json:"items"`
	TotalAmount     value.MoneyData `json:"total_amount"`
	ShippingAddress AddressData     `json:"shipping_address"`
	Status          Status          `json:"status"`
	CreatedAt       string          `json:"created_at"`
}

type OrderConfirmed struct {
	OrderID     string `json:"order_id"`
	Status      Status `json:"status"`
	ConfirmedAt string `json:"confirmed_at"`
}

type OrderShipped struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Status         Status `json:"status"`
	ShippedAt      string `json:"shipped_at"`
}

type OrderDelivered struct {
	OrderID     string `json:"order_id"`
	Status      Status `json:"status"`
	DeliveredAt string `json:"delivered_at"`
}

type OrderCancelled struct {
	OrderID     string `json:"order_id"`
	Reason      string `json:"reason"`
	Status      Status `json:"status"`
	CancelledAt string `json:"cancelled_at"`
}

func (OrderCreated) EventType() event.Type   { return TypeOrderCreated }
func (OrderConfirmed) EventType() event.Type { return TypeOrderConfirmed }
func (OrderShipped) EventType() event.Type   { return TypeOrderShipped }
func (OrderDelivered) EventType() event.Type { return TypeOrderDelivered }
func (OrderCancelled) EventType() event.Type { return TypeOrderCancelled }

func (OrderCreated) isOrderEvent()   {}
func (OrderConfirmed) isOrderEvent() {}
func (OrderShipped) isOrderEvent()   {}
func (OrderDelivered) isOrderEvent() {}
func (OrderCancelled) isOrderEvent() {}
