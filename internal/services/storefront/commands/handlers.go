// Package commands wires each aggregate's decider and codec into an engine
// handler.
package commands

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/engine"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/order"
)

type (
	CartHandler     = engine.Handler[cart.Command, cart.Event, cart.State]
	CheckoutHandler = engine.Handler[checkout.Command, checkout.Event, checkout.State]
	OrderHandler    = engine.Handler[order.Command, order.Event, order.State]
)

// Options carries the collaborators shared by every handler.
type Options struct {
	Store     engine.EventStore
	Publisher engine.Publisher
	Logger    *logging.Logger
	Tracer    trace.Tracer
	Now       func() time.Time
}

// Handlers groups one handler per aggregate.
type Handlers struct {
	Cart     CartHandler
	Checkout CheckoutHandler
	Order    OrderHandler
}

// New builds the three aggregate handlers.
func New(opts Options) Handlers {
	logger := logging.OrNop(opts.Logger).Named("engine")
	return Handlers{
		Cart: CartHandler{
			Store:     opts.Store,
			Decider:   cart.Decider,
			Codec:     cart.Codec{},
			StreamID:  cart.StreamFor,
			Publisher: opts.Publisher,
			Now:       opts.Now,
			Logger:    logger.With("aggregate", "ShoppingCart"),
			Tracer:    opts.Tracer,
		},
		Checkout: CheckoutHandler{
			Store:     opts.Store,
			Decider:   checkout.Decider,
			Codec:     checkout.Codec{},
			StreamID:  checkout.StreamFor,
			Publisher: opts.Publisher,
			Now:       opts.Now,
			Logger:    logger.With("aggregate", "Checkout"),
			Tracer:    opts.Tracer,
		},
		Order: OrderHandler{
			Store:     opts.Store,
			Decider:   order.Decider,
			Codec:     order.Codec{},
			StreamID:  order.StreamFor,
			Publisher: opts.Publisher,
			Now:       opts.Now,
			Logger:    logger.With("aggregate", "Order"),
			Tracer:    opts.Tracer,
		},
	}
}
