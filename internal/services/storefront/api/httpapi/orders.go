package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/louisbranch/storefront/internal/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/order"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

func (s *server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	cmd, err := req.command(s.currencies)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleOrder(w, r, http.StatusCreated, "Order created", cmd)
}

func (s *server) confirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleOrder(w, r, http.StatusOK, "Order confirmed", order.ConfirmOrder{OrderID: orderID})
}

func (s *server) shipOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req shipRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleOrder(w, r, http.StatusOK, "Order shipped", order.ShipOrder{OrderID: orderID, TrackingNumber: req.TrackingNumber})
}

func (s *server) deliverOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleOrder(w, r, http.StatusOK, "Order delivered", order.DeliverOrder{OrderID: orderID})
}

func (s *server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req reasonRequest
	if err := httpx.DecodeOptionalJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleOrder(w, r, http.StatusOK, "Order cancelled", order.CancelOrder{OrderID: orderID, Reason: req.Reason})
}

func (s *server) handleOrder(w http.ResponseWriter, r *http.Request, status int, message string, cmd order.Command) {
	result, err := s.commands.Order.Handle(r.Context(), cmd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, status, ack{Message: message, OrderID: cmd.Order().String(), Version: result.Version})
}

func (s *server) getOrder(w http.ResponseWriter, r *http.Request) {
	view, err := s.queries.OrderByID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

func (s *server) listOrders(w http.ResponseWriter, r *http.Request) {
	views, err := s.queries.Orders(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, views)
}

func (s *server) customerOrders(w http.ResponseWriter, r *http.Request) {
	views, err := s.queries.OrdersByCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, views)
}

func orderParam(r *http.Request) (value.OrderID, error) {
	return value.NewOrderID(chi.URLParam(r, "orderId"))
}
