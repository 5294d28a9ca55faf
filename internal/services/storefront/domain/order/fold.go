package order

// Evolve applies one event to the order. Items are fixed by OrderCreated and
// never touched afterwards.
func Evolve(s State, evt Event) State {
	switch e := evt.(type) {
	case OrderCreated:
		items := make([]ItemData, len(e.Items))
		copy(items, e.Items)
		return State{
			Status:          e.Status,
			OrderID:         e.OrderID,
			CartID:          e.CartID,
			CheckoutID:      e.CheckoutID,
			CustomerID:      e.CustomerID,
			Items:           items,
			TotalAmount:     e.TotalAmount,
			ShippingAddress: e.ShippingAddress,
			CreatedAt:       e.CreatedAt,
		}
	case OrderConfirmed:
		s.Status = e.Status
		return s
	case OrderShipped:
		s.Status = e.Status
		s.TrackingNumber = e.TrackingNumber
		return s
	case OrderDelivered:
		s.Status = e.Status
		return s
	case OrderCancelled:
		s.Status = e.Status
		s.CancellationReason = e.Reason
		return s
	default:
		return s
	}
}
