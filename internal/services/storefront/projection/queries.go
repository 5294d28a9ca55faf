package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// Queries reads projected views.
type Queries struct {
	Docs storage.DocumentStore
}

// NewQueries creates a query reader over docs.
func NewQueries(docs storage.DocumentStore) Queries {
	return Queries{Docs: docs}
}

func (q Queries) CartByID(ctx context.Context, cartID string) (CartView, error) {
	return getView[CartView](ctx, q.Docs, CollectionCarts, "shopping cart", cartID)
}

func (q Queries) Carts(ctx context.Context) ([]CartView, error) {
	return listViews[CartView](ctx, q.Docs, CollectionCarts, storage.ListFilter{})
}

func (q Queries) CartsByCustomer(ctx context.Context, customerID string) ([]CartView, error) {
	return listViews[CartView](ctx, q.Docs, CollectionCarts, storage.ListFilter{CustomerID: strings.TrimSpace(customerID)})
}

func (q Queries) CheckoutByID(ctx context.Context, checkoutID string) (CheckoutView, error) {
	return getView[CheckoutView](ctx, q.Docs, CollectionCheckouts, "checkout", checkoutID)
}

func (q Queries) Checkouts(ctx context.Context) ([]CheckoutView, error) {
	return listViews[CheckoutView](ctx, q.Docs, CollectionCheckouts, storage.ListFilter{})
}

func (q Queries) CheckoutsByCustomer(ctx context.Context, customerID string) ([]CheckoutView, error) {
	return listViews[CheckoutView](ctx, q.Docs, CollectionCheckouts, storage.ListFilter{CustomerID: strings.TrimSpace(customerID)})
}

func (q Queries) OrderByID(ctx context.Context, orderID string) (OrderView, error) {
	return getView[OrderView](ctx, q.Docs, CollectionOrders, "order", orderID)
}

func (q Queries) Orders(ctx context.Context) ([]OrderView, error) {
	return listViews[OrderView](ctx, q.Docs, CollectionOrders, storage.ListFilter{})
}

func (q Queries) OrdersByCustomer(ctx context.Context, customerID string) ([]OrderView, error) {
	return listViews[OrderView](ctx, q.Docs, CollectionOrders, storage.ListFilter{CustomerID: strings.TrimSpace(customerID)})
}

func getView[V any](ctx context.Context, docs storage.DocumentStore, collection, label, id string) (V, error) {
	var view V
	id = strings.TrimSpace(id)
	doc, err := docs.GetDocument(ctx, collection, id)
	if errors.Is(err, storage.ErrNotFound) {
		return view, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("%s %s not found", label, id),
			map[string]string{"id": id})
	}
	if err != nil {
		return view, fmt.Errorf("get %s %s: %w", label, id, err)
	}
	if err := json.Unmarshal(doc.Data, &view); err != nil {
		return view, fmt.Errorf("decode %s %s: %w", label, id, err)
	}
	return view, nil
}

func listViews[V any](ctx context.Context, docs storage.DocumentStore, collection string, filter storage.ListFilter) ([]V, error) {
	stored, err := docs.ListDocuments(ctx, collection, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	views := make([]V, 0, len(stored))
	for _, doc := range stored {
		var view V
		if err := json.Unmarshal(doc.Data, &view); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, doc.ID, err)
		}
		views = append(views, view)
	}
	return views, nil
}
