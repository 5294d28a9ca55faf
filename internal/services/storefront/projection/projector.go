package projection

import (
	"context"
	"fmt"

	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// SubscriptionName is the checkpoint name of the projection consumer.
const SubscriptionName = "storefront-projections"

// Projector routes events to the per-aggregate projectors by stream category.
type Projector struct {
	docs      storage.DocumentStore
	carts     CartProjector
	checkouts CheckoutProjector
	orders    OrderProjector
	log       *logging.Logger
}

// NewProjector creates a projector writing to docs.
func NewProjector(docs storage.DocumentStore, log *logging.Logger) *Projector {
	return &Projector{
		docs:      docs,
		carts:     CartProjector{Docs: docs},
		checkouts: CheckoutProjector{Docs: docs},
		orders:    OrderProjector{Docs: docs},
		log:       logging.OrNop(log).Named("projection"),
	}
}

// HandleBatch applies events in order and stops at the first failure.
func (p *Projector) HandleBatch(ctx context.Context, events []event.Recorded) error {
	for _, rec := range events {
		if err := p.Apply(ctx, rec); err != nil {
			return fmt.Errorf("project %s@%d (%s): %w", rec.StreamID, rec.StreamVersion, rec.Type, err)
		}
	}
	return nil
}

// Apply projects one event. Unknown categories are ignored.
func (p *Projector) Apply(ctx context.Context, rec event.Recorded) error {
	switch rec.Category() {
	case event.CategoryShoppingCart:
		return p.carts.Apply(ctx, rec)
	case event.CategoryCheckout:
		return p.checkouts.Apply(ctx, rec)
	case event.CategoryOrder:
		return p.orders.Apply(ctx, rec)
	default:
		p.log.Debug("skip event from unknown category", "stream_id", rec.StreamID, "type", rec.Type)
		return nil
	}
}

// Reset drops every read model so the log can be replayed from the start.
func (p *Projector) Reset(ctx context.Context) error {
	for _, collection := range []string{CollectionCarts, CollectionCheckouts, CollectionOrders} {
		if err := p.docs.ClearCollection(ctx, collection); err != nil {
			return fmt.Errorf("reset %s: %w", collection, err)
		}
	}
	return nil
}
