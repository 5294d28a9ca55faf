package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/louisbranch/storefront/internal/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

func (s *server) startShopping(w http.ResponseWriter, r *http.Request) {
	var req startShoppingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
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
	s.handleCart(w, r, http.StatusCreated, "Shopping started", cart.StartShopping{CartID: cartID, CustomerID: customerID})
}

func (s *server) addItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := value.NewCartID(chi.URLParam(r, "cartId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	productID, err := value.NewProductID(req.ProductID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	qty, err := value.NewQuantity(req.Quantity)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	price, err := req.UnitPrice.money(s.currencies)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCart(w, r, http.StatusOK, "Item added to cart", cart.AddItemToCart{
		CartID: cartID, ProductID: productID, Quantity: qty, UnitPrice: price,
	})
}

func (s *server) removeItem(w http.ResponseWriter, r *http.Request) {
	cartID, productID, err := cartItemParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCart(w, r, http.StatusOK, "Item removed from cart", cart.RemoveItemFromCart{CartID: cartID, ProductID: productID})
}

func (s *server) changeQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, productID, err := cartItemParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req changeQuantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	qty, err := value.NewQuantity(req.NewQuantity)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCart(w, r, http.StatusOK, "Item quantity changed", cart.ChangeItemQuantity{
		CartID: cartID, ProductID: productID, NewQuantity: qty,
	})
}

func (s *server) clearCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := value.NewCartID(chi.URLParam(r, "cartId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleCart(w, r, http.StatusOK, "Shopping cart cleared", cart.ClearShoppingCart{CartID: cartID})
}

func (s *server) handleCart(w http.ResponseWriter, r *http.Request, status int, message string, cmd cart.Command) {
	result, err := s.commands.Cart.Handle(r.Context(), cmd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, status, ack{Message: message, CartID: cmd.Cart().String(), Version: result.Version})
}

func (s *server) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := s.queries.CartByID(r.Context(), chi.URLParam(r, "cartId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

func (s *server) listCarts(w http.ResponseWriter, r *http.Request) {
	views, err := s.queries.Carts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, views)
}

func (s *server) customerCarts(w http.ResponseWriter, r *http.Request) {
	views, err := s.queries.CartsByCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, views)
}

func cartItemParams(r *http.Request) (value.CartID, value.ProductID, error) {
	cartID, err := value.NewCartID(chi.URLParam(r, "cartId"))
	if err != nil {
		return "", "", err
	}
	productID, err := value.NewProductID(chi.URLParam(r, "productId"))
	if err != nil {
		return "", "", err
	}
	return cartID, productID, nil
}
