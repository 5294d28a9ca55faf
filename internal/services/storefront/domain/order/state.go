package order

import "github.com/louisbranch/storefront/internal/services/storefront/domain/value"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusNotCreated Status = "NotCreated"
	StatusCreated    Status = "Created"
	StatusConfirmed  Status = "Confirmed"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// State is the folded order.
type State struct {
	Status             Status
	OrderID            string
	CartID             string
	CheckoutID         string
	CustomerID         string
	Items              []ItemData
	TotalAmount        value.MoneyData
	ShippingAddress    AddressData
	TrackingNumber     string
	CancellationReason string
	CreatedAt          string
}

// InitialState is the state of an order stream with no events.
var InitialState = State{Status: StatusNotCreated}
