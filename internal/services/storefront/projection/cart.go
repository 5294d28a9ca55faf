package projection

import (
	"context"
	"fmt"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// CartProjector maintains CartView documents.
type CartProjector struct {
	Docs storage.DocumentStore
}

// Apply folds one cart event into its view.
func (p CartProjector) Apply(ctx context.Context, rec event.Recorded) error {
	evt, ok, err := cart.Codec{}.Decode(rec)
	if err != nil || !ok {
		return err
	}
	_, cartID := event.SplitStreamID(rec.StreamID)
	view, version, found, err := loadView[CartView](ctx, p.Docs, CollectionCarts, cartID)
	if err != nil {
		return err
	}
	if found && rec.StreamVersion <= version {
		return nil
	}
	if _, started := evt.(cart.ShoppingStarted); !found && !started {
		return nil
	}

	switch e := evt.(type) {
	case cart.ShoppingStarted:
		view = CartView{
			CartID:      e.CartID,
			CustomerID:  e.CustomerID,
			Status:      string(e.Status),
			Items:       []CartItemView{},
			LastUpdated: eventTime(e.StartedAt, rec),
		}
	case cart.ItemAddedToCart:
		view.Items = addCartItem(view.Items, e)
		view.LastUpdated = eventTime(e.AddedAt, rec)
	case cart.ItemRemovedFromCart:
		view.Items = removeCartItem(view.Items, e.ProductID)
		view.LastUpdated = eventTime(e.RemovedAt, rec)
	case cart.ItemQuantityChanged:
		view.Items = changeCartItem(view.Items, e.ProductID, e.NewQuantity)
		view.LastUpdated = eventTime(e.ChangedAt, rec)
	case cart.ShoppingCartCleared:
		view.Status = string(e.Status)
		view.Items = []CartItemView{}
		view.LastUpdated = eventTime(e.ClearedAt, rec)
	default:
		return fmt.Errorf("cart projection: unhandled event %T", evt)
	}
	view.TotalAmount = cartTotal(view.Items, view.TotalAmount.Currency)
	view.Version = rec.StreamVersion
	return saveView(ctx, p.Docs, CollectionCarts, cartID, view.CustomerID, view.Version, view.LastUpdated, view)
}

func addCartItem(items []CartItemView, e cart.ItemAddedToCart) []CartItemView {
	out := make([]CartItemView, 0, len(items)+1)
	merged := false
	for _, item := range items {
		if item.ProductID == e.ProductID {
			item.Quantity += e.Quantity
			merged = true
		}
		out = append(out, item)
	}
	if !merged {
		out = append(out, CartItemView{ProductID: e.ProductID, Quantity: e.Quantity, UnitPrice: e.UnitPrice})
	}
	return out
}

func removeCartItem(items []CartItemView, productID string) []CartItemView {
	out := make([]CartItemView, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

func changeCartItem(items []CartItemView, productID string, quantity int) []CartItemView {
	if quantity <= 0 {
		return removeCartItem(items, productID)
	}
	out := make([]CartItemView, 0, len(items))
	for _, item := range items {
		if item.ProductID == productID {
			item.Quantity = quantity
		}
		out = append(out, item)
	}
	return out
}

// cartTotal sums the lines. An empty cart keeps its previous currency.
func cartTotal(items []CartItemView, currency string) value.MoneyData {
	total := value.MoneyData{Currency: currency}
	for i, item := range items {
		if i == 0 {
			total.Currency = item.UnitPrice.Currency
		}
		total.Amount = value.RoundAmount(total.Amount + item.UnitPrice.Amount*float64(item.Quantity))
	}
	return total
}
