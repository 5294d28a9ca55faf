package order

import (
	"fmt"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

// Codec encodes and decodes order events.
type Codec struct{}

func (Codec) Encode(evt Event) (event.Pending, error) {
	if evt == nil {
		return event.Pending{}, fmt.Errorf("encode order event: nil event")
	}
	return event.Encode(evt.EventType(), evt)
}

// Decode returns ok=false for types outside the order aggregate.
func (Codec) Decode(r event.Recorded) (Event, bool, error) {
	switch r.Type {
	case TypeOrderCreated:
		return decode[OrderCreated](r)
	case TypeOrderConfirmed:
		return decode[OrderConfirmed](r)
	case TypeOrderShipped:
		return decode[OrderShipped](r)
	case TypeOrderDelivered:
		return decode[OrderDelivered](r)
	case TypeOrderCancelled:
		return decode[OrderCancelled](r)
	default:
		return nil, false, nil
	}
}

func decode[T Event](r event.Recorded) (Event, bool, error) {
	payload, err := event.Decode[T](r)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s at %s@%d: %w", r.Type, r.StreamID, r.StreamVersion, err)
	}
	return payload, true, nil
}
