// Package projection folds the event log into queryable read models.
//
// Each read model document remembers the last stream version applied to it.
// Events at or below that version are skipped, so a batch may be delivered
// any number of times without double counting.
package projection

import (
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

// Collections of read model documents.
const (
	CollectionCarts     = "shopping_carts"
	CollectionCheckouts = "checkouts"
	CollectionOrders    = "orders"
)

// CartItemView is one cart line.
type CartItemView struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice value.MoneyData `json:"unitPrice"`
}

// CartView is the shopping cart read model.
type CartView struct {
	CartID      string          `json:"cartId"`
	CustomerID  string          `json:"customerId"`
	Status      string          `json:"status"`
	Items       []CartItemView  `json:"items"`
	TotalAmount value.MoneyData `json:"totalAmount"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Version     uint64          `json:"version"`
}

// PaymentMethodView is the stored payment method of a checkout.
type PaymentMethodView struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

// CheckoutView is the checkout read model.
type CheckoutView struct {
	CheckoutID          string             `json:"checkoutId"`
	CartID              string             `json:"cartId"`
	CustomerID          string             `json:"customerId"`
	Status              string             `json:"status"`
	PaymentMethod       *PaymentMethodView `json:"paymentMethod,omitempty"`
	AppliedCoupons      []string           `json:"appliedCoupons"`
	AppliedGiftCards    []string           `json:"appliedGiftCards"`
	TotalAmount         value.MoneyData    `json:"totalAmount"`
	TotalDiscount       value.MoneyData    `json:"totalDiscount"`
	TotalGiftCardAmount value.MoneyData    `json:"totalGiftCardAmount"`
	FinalAmount         *value.MoneyData   `json:"finalAmount,omitempty"`
	CancellationReason  string             `json:"cancellationReason,omitempty"`
	LastUpdated         time.Time          `json:"lastUpdated"`
	Version             uint64             `json:"version"`
}

// OrderItemView is one ordered product.
type OrderItemView struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice value.MoneyData `json:"unitPrice"`
}

// AddressView is an order's shipping address.
type AddressView struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderView is the order read model.
type OrderView struct {
	OrderID            string          `json:"orderId"`
	CartID             string          `json:"cartId"`
	CheckoutID         string          `json:"checkoutId"`
	CustomerID         string          `json:"customerId"`
	Status             string          `json:"status"`
	Items              []OrderItemView `json:"items"`
	TotalAmount        value.MoneyData `json:"totalAmount"`
	ShippingAddress    AddressView     `json:"shippingAddress"`
	TrackingNumber     string          `json:"trackingNumber,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	LastUpdated        time.Time       `json:"lastUpdated"`
	Version            uint64          `json:"version"`
}
