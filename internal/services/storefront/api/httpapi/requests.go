package httpapi

import (
	"github.com/louisbranch/storefront/internal/services/storefront/domain/order"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

type moneyRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (m moneyRequest) money(policy value.CurrencyPolicy) (value.Money, error) {
	return policy.Money(m.Amount, m.Currency)
}

type startShoppingRequest struct {
	CartID     string `json:"cartId"`
	CustomerID string `json:"customerId"`
}

type addItemRequest struct {
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	UnitPrice moneyRequest `json:"unitPrice"`
}

type changeQuantityRequest struct {
	NewQuantity int `json:"newQuantity"`
}

type initiateCheckoutRequest struct {
	CheckoutID  string       `json:"checkoutId"`
	CartID      string       `json:"cartId"`
	CustomerID  string       `json:"customerId"`
	TotalAmount moneyRequest `json:"totalAmount"`
}

type paymentMethodRequest struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

type couponRequest struct {
	CouponCode     string       `json:"couponCode"`
	DiscountAmount moneyRequest `json:"discountAmount"`
}

type giftCardRequest struct {
	GiftCardCode  string       `json:"giftCardCode"`
	AppliedAmount moneyRequest `json:"appliedAmount"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type orderItemRequest struct {
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	UnitPrice moneyRequest `json:"unitPrice"`
}

type addressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type createOrderRequest struct {
	OrderID         string             `json:"orderId"`
	CartID          string             `json:"cartId"`
	CheckoutID      string             `json:"checkoutId"`
	CustomerID      string             `json:"customerId"`
	Items           []orderItemRequest `json:"items"`
	TotalAmount     moneyRequest       `json:"totalAmount"`
	ShippingAddress addressRequest     `json:"shippingAddress"`
}

type shipRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

func (req createOrderRequest) command(policy value.CurrencyPolicy) (order.CreateOrder, error) {
	orderID, err := value.NewOrderID(req.OrderID)
	if err != nil {
		return order.CreateOrder{}, err
	}
	cartID, err := value.NewCartID(req.CartID)
	if err != nil {
		return order.CreateOrder{}, err
	}
	checkoutID, err := value.NewCheckoutID(req.CheckoutID)
	if err != nil {
		return order.CreateOrder{}, err
	}
	customerID, err := value.NewCustomerID(req.CustomerID)
	if err != nil {
		return order.CreateOrder{}, err
	}
	total, err := req.TotalAmount.money(policy)
	if err != nil {
		return order.CreateOrder{}, err
	}
	address, err := value.NewShippingAddress(req.ShippingAddress.Street, req.ShippingAddress.City,
		req.ShippingAddress.State, req.ShippingAddress.ZipCode, req.ShippingAddress.Country)
	if err != nil {
		return order.CreateOrder{}, err
	}
	items := make([]order.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := value.NewProductID(item.ProductID)
		if err != nil {
			return order.CreateOrder{}, err
		}
		qty, err := value.NewQuantity(item.Quantity)
		if err != nil {
			return order.CreateOrder{}, err
		}
		price, err := item.UnitPrice.money(policy)
		if err != nil {
			return order.CreateOrder{}, err
		}
		items = append(items, order.LineItem{ProductID: productID, Quantity: qty, UnitPrice: price})
	}
	return order.CreateOrder{
		OrderID:         orderID,
		CartID:          cartID,
		CheckoutID:      checkoutID,
		CustomerID:      customerID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: address,
	}, nil
}
