package projection

import (
	"context"
	"fmt"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/order"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// OrderProjector maintains OrderView documents.
type OrderProjector struct {
	Docs storage.DocumentStore
}

// Apply folds one order event into its view.
func (p OrderProjector) Apply(ctx context.Context, rec event.Recorded) error {
	evt, ok, err := order.Codec{}.Decode(rec)
	if err != nil || !ok {
		return err
	}
	_, orderID := event.SplitStreamID(rec.StreamID)
	view, version, found, err := loadView[OrderView](ctx, p.Docs, CollectionOrders, orderID)
	if err != nil {
		return err
	}
	if found && rec.StreamVersion <= version {
		return nil
	}
	if _, created := evt.(order.OrderCreated); !found && !created {
		return nil
	}

	switch e := evt.(type) {
	case order.OrderCreated:
		items := make([]OrderItemView, 0, len(e.Items))
		for _, item := range e.Items {
			items = append(items, OrderItemView{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
		}
		createdAt := eventTime(e.CreatedAt, rec)
		view = OrderView{
			OrderID:     e.OrderID,
			CartID:      e.CartID,
			CheckoutID:  e.CheckoutID,
			CustomerID:  e.CustomerID,
			Status:      string(e.Status),
			Items:       items,
			TotalAmount: e.TotalAmount,
			ShippingAddress: AddressView{
				Street:  e.ShippingAddress.Street,
				City:    e.ShippingAddress.City,
				State:   e.ShippingAddress.State,
				ZipCode: e.ShippingAddress.ZipCode,
				Country: e.ShippingAddress.Country,
			},
			CreatedAt:   createdAt,
			LastUpdated: createdAt,
		}
	case order.OrderConfirmed:
		view.Status = string(e.Status)
		view.LastUpdated = eventTime(e.ConfirmedAt, rec)
	case order.OrderShipped:
		view.Status = string(e.Status)
		view.TrackingNumber = e.TrackingNumber
		view.LastUpdated = eventTime(e.ShippedAt, rec)
	case order.OrderDelivered:
		view.Status = string(e.Status)
		view.LastUpdated = eventTime(e.DeliveredAt, rec)
	case order.OrderCancelled:
		view.Status = string(e.Status)
		view.CancellationReason = e.Reason
		view.LastUpdated = eventTime(e.CancelledAt, rec)
	default:
		return fmt.Errorf("order projection: unhandled event %T", evt)
	}
	view.Version = rec.StreamVersion
	return saveView(ctx, p.Docs, CollectionOrders, orderID, view.CustomerID, view.Version, view.LastUpdated, view)
}
