package cart

import (
	"fmt"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

// Codec encodes and decodes cart events.
type Codec struct{}

// Encode wraps a cart event in a pending envelope.
func (Codec) Encode(evt Event) (event.Pending, error) {
	if evt == nil {
		return event.Pending{}, fmt.Errorf("encode cart event: nil event")
	}
	return event.Encode(evt.EventType(), evt)
}

// Decode returns ok=false for types outside the cart aggregate.
func (Codec) Decode(r event.Recorded) (Event, bool, error) {
	switch r.Type {
	case TypeShoppingStarted:
		return decode[ShoppingStarted](r)
	case TypeItemAddedToCart:
		return decode[ItemAddedToCart](r)
	case TypeItemRemovedFromCart:
		return decode[ItemRemovedFromCart](r)
	case TypeItemQuantityChanged:
		return decode[ItemQuantityChanged](r)
	case TypeShoppingCartCleared:
		return decode[ShoppingCartCleared](r)
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
