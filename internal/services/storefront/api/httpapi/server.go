// Package httpapi exposes storefront commands and read models over JSON HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/httpx"
	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/services/storefront/commands"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
	"github.com/louisbranch/storefront/internal/services/storefront/projection"
)

// Deps are the collaborators behind the routes.
type Deps struct {
	Commands   commands.Handlers
	Queries    projection.Queries
	Logger     *logging.Logger
	// Currencies validates currency codes on incoming amounts.
	Currencies value.CurrencyPolicy
	// Ready reports backend health for GET /health. Nil means always ready.
	Ready func(ctx context.Context) error
}

type server struct {
	commands   commands.Handlers
	queries    projection.Queries
	log        *logging.Logger
	currencies value.CurrencyPolicy
	ready      func(ctx context.Context) error
}

// NewHandler builds the router with request id, panic recovery and access
// logging applied.
func NewHandler(deps Deps) http.Handler {
	s := &server{
		commands:   deps.Commands,
		queries:    deps.Queries,
		log:        logging.OrNop(deps.Logger).Named("http"),
		currencies: deps.Currencies,
		ready:      deps.Ready,
	}

	r := chi.NewRouter()
	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", s.startShopping)
			r.Get("/", s.listCarts)
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", s.getCart)
				r.Post("/items", s.addItem)
				r.Delete("/items/{productId}", s.removeItem)
				r.Put("/items/{productId}", s.changeQuantity)
				r.Post("/clear", s.clearCart)
			})
		})
		r.Route("/checkouts", func(r chi.Router) {
			r.Post("/", s.initiateCheckout)
			r.Get("/", s.listCheckouts)
			r.Route("/{checkoutId}", func(r chi.Router) {
				r.Get("/", s.getCheckout)
				r.Post("/payment-method", s.setPaymentMethod)
				r.Post("/coupons", s.applyCoupon)
				r.Post("/gift-cards", s.applyGiftCard)
				r.Post("/complete", s.completeCheckout)
				r.Post("/cancel", s.cancelCheckout)
			})
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", s.createOrder)
			r.Get("/", s.listOrders)
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", s.getOrder)
				r.Post("/confirm", s.confirmOrder)
				r.Post("/ship", s.shipOrder)
				r.Post("/deliver", s.deliverOrder)
				r.Post("/cancel", s.cancelOrder)
			})
		})
		r.Route("/customers/{customerId}", func(r chi.Router) {
			r.Get("/carts", s.customerCarts)
			r.Get("/checkouts", s.customerCheckouts)
			r.Get("/orders", s.customerOrders)
		})
	})

	return httpx.Chain(r,
		httpx.RequestID(),
		httpx.RecoverPanic(s.log),
		httpx.AccessLog(s.log),
	)
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.log.Warn("health check failed", "error", err)
			_ = httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ack is the body of every successful command response.
type ack struct {
	Message    string `json:"message"`
	CartID     string `json:"cartId,omitempty"`
	CheckoutID string `json:"checkoutId,omitempty"`
	OrderID    string `json:"orderId,omitempty"`
	Version    uint64 `json:"version"`
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	httpx.WriteError(w, err)
}
