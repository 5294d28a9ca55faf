package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/louisbranch/storefront/internal/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

func (s *server) initiateCheckout(w http.ResponseWriter, r *http.Request) {
	var req initiateCheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	checkoutID, err := value.NewCheckoutID(req.CheckoutID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cartID, err := value.NewCartID(req.CartID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	customerID, err := value.NewCustomerID(req.CustomerID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	total, err := req.TotalAmount.money(s.currencies)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCheckout(w, r, http.StatusCreated, "Checkout initiated", checkout.InitiateCheckout{
		CheckoutID: checkoutID, CartID: cartID, CustomerID: customerID, TotalAmount: total,
	})
}

func (s *server) setPaymentMethod(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := checkoutParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req paymentMethodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	method, err := value.NewPaymentMethod(req.Type, req.Details)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCheckout(w, r, http.StatusOK, "Payment method set", checkout.SetPaymentMethod{CheckoutID: checkoutID, PaymentMethod: method})
}

func (s *server) applyCoupon(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := checkoutParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req couponRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	code, err := value.NewCouponCode(req.CouponCode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	discount, err := req.DiscountAmount.money(s.currencies)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCheckout(w, r, http.StatusOK, "Coupon applied", checkout.ApplyCoupon{
		CheckoutID: checkoutID, CouponCode: code, DiscountAmount: discount,
	})
}

func (s *server) applyGiftCard(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := checkoutParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req giftCardRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	code, err := value.NewGiftCardCode(req.GiftCardCode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	amount, err := req.AppliedAmount.money(s.currencies)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCheckout(w, r, http.StatusOK, "Gift card applied", checkout.ApplyGiftCard{
		CheckoutID: checkoutID, GiftCardCode: code, AppliedAmount: amount,
	})
}

func (s *server) completeCheckout(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := checkoutParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCheckout(w, r, http.StatusOK, "Checkout completed", checkout.CompleteCheckout{CheckoutID: checkoutID})
}

func (s *server) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := checkoutParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req reasonRequest
	if err := httpx.DecodeOptionalJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCheckout(w, r, http.StatusOK, "Checkout cancelled", checkout.CancelCheckout{CheckoutID: checkoutID, Reason: req.Reason})
}

func (s *server) handleCheckout(w http.ResponseWriter, r *http.Request, status int, message string, cmd checkout.Command) {
	result, err := s.commands.Checkout.Handle(r.Context(), cmd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, status, ack{Message: message, CheckoutID: cmd.Checkout().String(), Version: result.Version})
}

func (s *server) getCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := s.queries.CheckoutByID(r.Context(), chi.URLParam(r, "checkoutId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

func (s *server) listCheckouts(w http.ResponseWriter, r *http.Request) {
	views, err := s.queries.Checkouts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, views)
}

func (s *server) customerCheckouts(w http.ResponseWriter, r *http.Request) {
	views, err := s.queries.CheckoutsByCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, views)
}

func checkoutParam(r *http.Request) (value.CheckoutID, error) {
	return value.NewCheckoutID(chi.URLParam(r, "checkoutId"))
}
