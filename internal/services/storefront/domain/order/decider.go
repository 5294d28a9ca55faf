package order

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/decider"
)

// Decider is the order aggregate's initial state, evolve and decide.
var Decider = decider.Decider[Command, Event, State]{
	InitialState: InitialState,
	Evolve:       Evolve,
	Decide:       Decide,
}

// Decide validates cmd against s and returns the events to append.
func Decide(s State, cmd Command, now func() time.Time) ([]Event, error) {
	switch c := cmd.(type) {
	case CreateOrder:
		if s.Status != StatusNotCreated {
			return nil, apperrors.New(apperrors.CodeOrderAlreadyCreated, "order already created")
		}
		if len(c.Items) == 0 {
			return nil, apperrors.New(apperrors.CodeOrderEmpty, "order must contain at least one item")
		}
		items := make([]ItemData, 0, len(c.Items))
		for _, item := range c.Items {
			if item.UnitPrice.Currency() != c.TotalAmount.Currency() {
				return nil, apperrors.WithMetadata(apperrors.CodeOrderCurrencyMismatch,
					fmt.Sprintf("item %s is priced in %s, order total is in %s", item.ProductID, item.UnitPrice.Currency(), c.TotalAmount.Currency()),
					map[string]string{"product_id": item.ProductID.String()})
			}
			if item.Quantity.Int() < 1 {
				return nil, apperrors.WithMetadata(apperrors.CodeOrderEmpty,
					fmt.Sprintf("item %s must have a positive quantity", item.ProductID),
					map[string]string{"product_id": item.ProductID.String()})
			}
			items = append(items, ItemData{
				ProductID: item.ProductID.String(),
				Quantity:  item.Quantity.Int(),
				UnitPrice: item.UnitPrice.Data(),
			})
		}
		addr := c.ShippingAddress
		return []Event{OrderCreated{
			OrderID:     c.OrderID.String(),
			CartID:      c.CartID.String(),
			CheckoutID:  c.CheckoutID.String(),
			CustomerID:  c.CustomerID.String(),
			Items:       items,
			TotalAmount: c.TotalAmount.Data(),
			ShippingAddress: AddressData{
				Street:  addr.Street,
				City:    addr.City,
				State:   addr.State,
				ZipCode: addr.ZipCode,
				Country: addr.Country,
			},
			Status:    StatusCreated,
			CreatedAt: decider.Timestamp(now),
		}}, nil

	case ConfirmOrder:
		if err := requireStatus(s, StatusCreated, "confirm"); err != nil {
			return nil, err
		}
		return []Event{OrderConfirmed{
			OrderID:     c.OrderID.String(),
			Status:      StatusConfirmed,
			ConfirmedAt: decider.Timestamp(now),
		}}, nil

	case ShipOrder:
		if err := requireStatus(s, StatusConfirmed, "ship"); err != nil {
			return nil, err
		}
		tracking := strings.TrimSpace(c.TrackingNumber)
		if tracking == "" {
			return nil, apperrors.New(apperrors.CodeOrderTrackingRequired, "tracking number is required to ship an order")
		}
		return []Event{OrderShipped{
			OrderID:        c.OrderID.String(),
			TrackingNumber: tracking,
			Status:         StatusShipped,
			ShippedAt:      decider.Timestamp(now),
		}}, nil

	case DeliverOrder:
		if err := requireStatus(s, StatusShipped, "deliver"); err != nil {
			return nil, err
		}
		return []Event{OrderDelivered{
			OrderID:     c.OrderID.String(),
			Status:      StatusDelivered,
			DeliveredAt: decider.Timestamp(now),
		}}, nil

	case CancelOrder:
		if s.Status == StatusNotCreated {
			return nil, apperrors.New(apperrors.CodeOrderNotCreated, "order has not been created")
		}
		if s.Status.Terminal() {
			return nil, apperrors.WithMetadata(apperrors.CodeOrderInvalidTransition,
				fmt.Sprintf("cannot cancel an order that is %s", strings.ToLower(string(s.Status))),
				map[string]string{"status": string(s.Status)})
		}
		return []Event{OrderCancelled{
			OrderID:     c.OrderID.String(),
			Reason:      strings.TrimSpace(c.Reason),
			Status:      StatusCancelled,
			CancelledAt: decider.Timestamp(now),
		}}, nil

	default:
		return nil, fmt.Errorf("order: unhandled command %T", cmd)
	}
}

func requireStatus(s State, want Status, action string) error {
	if s.Status == StatusNotCreated {
		return apperrors.New(apperrors.CodeOrderNotCreated, "order has not been created")
	}
	if s.Status != want {
		return apperrors.WithMetadata(apperrors.CodeOrderInvalidTransition,
			fmt.Sprintf("cannot %s an order that is %s", action, strings.ToLower(string(s.Status))),
			map[string]string{"status": string(s.Status), "required": string(want)})
	}
	return nil
}
