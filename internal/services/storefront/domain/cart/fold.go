package cart

// Evolve applies one event to the cart. It never mutates s; item maps are
// copied before they change.
func Evolve(s State, evt Event) State {
	switch e := evt.(type) {
	case ShoppingStarted:
		return State{
			Status:     e.Status,
			CartID:     e.CartID,
			CustomerID: e.CustomerID,
			Items:      map[string]Item{},
		}
	case ItemAddedToCart:
		items := s.cloneItems()
		if existing, ok := items[e.ProductID]; ok {
			existing.Quantity += e.Quantity
			items[e.ProductID] = existing
		} else {
			items[e.ProductID] = Item{ProductID: e.ProductID, Quantity: e.Quantity, UnitPrice: e.UnitPrice}
		}
		s.Items = items
		return s
	case ItemRemovedFromCart:
		items := s.cloneItems()
		delete(items, e.ProductID)
		s.Items = items
		return s
	case ItemQuantityChanged:
		existing, ok := s.Items[e.ProductID]
		if !ok {
			return s
		}
		items := s.cloneItems()
		if e.NewQuantity <= 0 {
			delete(items, e.ProductID)
		} else {
			existing.Quantity = e.NewQuantity
			items[e.ProductID] = existing
		}
		s.Items = items
		return s
	case ShoppingCartCleared:
		s.Status = e.Status
		s.Items = map[string]Item{}
		return s
	default:
		return s
	}
}
