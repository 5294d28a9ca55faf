package cart

import (
	"sort"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

// Status is the lifecycle state of a cart.
type Status string

const (
	// StatusOpen accepts item changes.
	StatusOpen Status = "Open"
	// StatusEmpty is reached by clearing; the cart accepts nothing further.
	StatusEmpty Status = "Empty"
)

// Item is one product line.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice value.MoneyData
}

// State is the folded cart.
type State struct {
	Status     Status
	CartID     string
	CustomerID string
	Items      map[string]Item
}

// InitialState is the state of a cart stream with no events.
var InitialState = State{Status: StatusOpen}

// Started reports whether ShoppingStarted has been applied.
func (s State) Started() bool {
	return s.CartID != ""
}

// Item returns the line for productID.
func (s State) Item(productID string) (Item, bool) {
	item, ok := s.Items[productID]
	return item, ok
}

// SortedItems returns lines ordered by product id.
func (s State) SortedItems() []Item {
	items := make([]Item, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

// Currency returns the currency shared by the cart lines, or "".
func (s State) Currency() string {
	for _, item := range s.SortedItems() {
		return item.UnitPrice.Currency
	}
	return ""
}

// Total sums quantity times unit price over all lines. An empty cart totals
// zero in fallbackCurrency.
func (s State) Total(fallbackCurrency string) (value.Money, error) {
	currency := s.Currency()
	if currency == "" {
		currency = fallbackCurrency
	}
	total, err := value.Zero(currency)
	if err != nil {
		return value.Money{}, err
	}
	for _, item := range s.SortedItems() {
		price, err := item.UnitPrice.Money()
		if err != nil {
			return value.Money{}, err
		}
		line, err := price.Multiply(float64(item.Quantity))
		if err != nil {
			return value.Money{}, err
		}
		if total, err = total.Add(line); err != nil {
			return value.Money{}, err
		}
	}
	return total, nil
}

func (s State) cloneItems() map[string]Item {
	items := make(map[string]Item, len(s.Items))
	for k, v := range s.Items {
		items[k] = v
	}
	return items
}
