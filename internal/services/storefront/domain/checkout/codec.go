package checkout

import (
	"fmt"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

// Codec encodes and decodes checkout events.
type Codec struct{}

func (Codec) Encode(evt Event) (event.Pending, error) {
	if evt == nil {
		return event.Pending{}, fmt.Errorf("encode checkout event: nil event")
	}
	return event.Encode(evt.EventType(), evt)
}

// Decode returns ok=false for types outside the checkout aggregate.
func (Codec) Decode(r event.Recorded) (Event, bool, error) {
	switch r.Type {
	case TypeCheckoutInitiated:
		return decode[CheckoutInitiated](r)
	case TypePaymentMethodSet:
		return decode[PaymentMethodSet](r)
	case TypeCouponApplied:
		return decode[CouponApplied](r)
	case TypeGiftCardApplied:
		return decode[GiftCardApplied](r)
	case TypeCheckoutCompleted:
		return decode[CheckoutCompleted](r)
	case TypeCheckoutCancelled:
		return decode[CheckoutCancelled](r)
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
