package engine

import (
	"context"
	"errors"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
)

// Publisher forwards recorded events to an external channel.
type Publisher interface {
	Publish(ctx context.Context, events []event.Recorded) error
}

// PublisherFunc adapts a function into a Publisher.
type PublisherFunc func(ctx context.Context, events []event.Recorded) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, events []event.Recorded) error {
	return f(ctx, events)
}

// Publishers fans out to every publisher in order. All publishers run even
// when one fails; the failures are joined.
type Publishers []Publisher

// Publish sends events to every publisher.
func (p Publishers) Publish(ctx context.Context, events []event.Recorded) error {
	if len(events) == 0 {
		return nil
	}
	var errs []error
	for _, publisher := range p {
		if publisher == nil {
			continue
		}
		if err := publisher.Publish(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
