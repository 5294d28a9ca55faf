package value

import (
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// CustomerID identifies a shopper.
type CustomerID string

// CartID identifies a shopping cart.
type CartID string

// CheckoutID identifies a checkout.
type CheckoutID string

// OrderID identifies an order.
type OrderID string

// ProductID identifies a catalog product.
type ProductID string

func NewCustomerID(raw string) (CustomerID, error) {
	v, err := requireID("customer id", raw)
	return CustomerID(v), err
}

func NewCartID(raw string) (CartID, error) {
	v, err := requireID("cart id", raw)
	return CartID(v), err
}

func NewCheckoutID(raw string) (CheckoutID, error) {
	v, err := requireID("checkout id", raw)
	return CheckoutID(v), err
}

func NewOrderID(raw string) (OrderID, error) {
	v, err := requireID("order id", raw)
	return OrderID(v), err
}

func NewProductID(raw string) (ProductID, error) {
	v, err := requireID("product id", raw)
	return ProductID(v), err
}

func (id CustomerID) String() string { return string(id) }
func (id CartID) String() string     { return string(id) }
func (id CheckoutID) String() string { return string(id) }
func (id OrderID) String() string    { return string(id) }
func (id ProductID) String() string  { return string(id) }

func requireID(label, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidID, label+" cannot be empty", map[string]string{"field": label})
	}
	return trimmed, nil
}
