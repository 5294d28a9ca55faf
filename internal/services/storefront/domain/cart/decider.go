package cart

import (
	"fmt"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/decider"
)

// Decider is the cart aggregate's initial state, evolve and decide.
var Decider = decider.Decider[Command, Event, State]{
	InitialState: InitialState,
	Evolve:       Evolve,
	Decide:       Decide,
}

// Decide validates cmd against s and returns the events to append.
func Decide(s State, cmd Command, now func() time.Time) ([]Event, error) {
	switch c := cmd.(type) {
	case StartShopping:
		if s.Started() {
			return nil, apperrors.New(apperrors.CodeCartAlreadyStarted, "shopping cart already started")
		}
		return []Event{ShoppingStarted{
			CartID:     c.CartID.String(),
			CustomerID: c.CustomerID.String(),
			Status:     StatusOpen,
			StartedAt:  decider.Timestamp(now),
		}}, nil

	case AddItemToCart:
		if err := requireOpen(s); err != nil {
			return nil, err
		}
		if c.Quantity.Int() < 1 {
			return nil, apperrors.New(apperrors.CodeCartQuantityInvalid, "quantity to add must be at least 1")
		}
		if currency := s.Currency(); currency != "" && currency != c.UnitPrice.Currency() {
			return nil, apperrors.WithMetadata(apperrors.CodeCartCurrencyMismatch,
				fmt.Sprintf("cart is priced in %s, item is priced in %s", currency, c.UnitPrice.Currency()),
				map[string]string{"product_id": c.ProductID.String()})
		}
		return []Event{ItemAddedToCart{
			CartID:    c.CartID.String(),
			ProductID: c.ProductID.String(),
			Quantity:  c.Quantity.Int(),
			UnitPrice: c.UnitPrice.Data(),
			AddedAt:   decider.Timestamp(now),
		}}, nil

	case RemoveItemFromCart:
		if err := requireOpen(s); err != nil {
			return nil, err
		}
		if err := requireItem(s, c.ProductID.String()); err != nil {
			return nil, err
		}
		return []Event{ItemRemovedFromCart{
			CartID:    c.CartID.String(),
			ProductID: c.ProductID.String(),
			RemovedAt: decider.Timestamp(now),
		}}, nil

	case ChangeItemQuantity:
		if err := requireOpen(s); err != nil {
			return nil, err
		}
		if err := requireItem(s, c.ProductID.String()); err != nil {
			return nil, err
		}
		if c.NewQuantity.Int() < 0 {
			return nil, apperrors.New(apperrors.CodeCartQuantityInvalid, "quantity cannot be negative")
		}
		return []Event{ItemQuantityChanged{
			CartID:      c.CartID.String(),
			ProductID:   c.ProductID.String(),
			NewQuantity: c.NewQuantity.Int(),
			ChangedAt:   decider.Timestamp(now),
		}}, nil

	case ClearShoppingCart:
		if err := requireOpen(s); err != nil {
			return nil, err
		}
		return []Event{ShoppingCartCleared{
			CartID:    c.CartID.String(),
			Status:    StatusEmpty,
			ClearedAt: decider.Timestamp(now),
		}}, nil

	default:
		return nil, fmt.Errorf("cart: unhandled command %T", cmd)
	}
}

func requireOpen(s State) error {
	if !s.Started() {
		return apperrors.New(apperrors.CodeCartNotStarted, "shopping cart has not been started")
	}
	if s.Status != StatusOpen {
		return apperrors.WithMetadata(apperrors.CodeCartNotOpen, "shopping cart is not open",
			map[string]string{"status": string(s.Status)})
	}
	return nil
}

func requireItem(s State, productID string) error {
	if _, ok := s.Items[productID]; !ok {
		return apperrors.WithMetadata(apperrors.CodeCartItemNotFound, "item not found in cart",
			map[string]string{"product_id": productID})
	}
	return nil
}
