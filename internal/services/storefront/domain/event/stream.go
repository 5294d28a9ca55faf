package event

import "strings"

// Stream categories. A stream id is the category, a dash, and the aggregate id.
const (
	CategoryShoppingCart = "ShoppingCart"
	CategoryCheckout     = "Checkout"
	CategoryOrder        = "Order"
)

// StreamID joins a category and aggregate id into a stream name.
func StreamID(category, aggregateID string) string {
	return category + "-" + aggregateID
}

// SplitStreamID splits a stream name at its first dash. Aggregate ids may
// contain dashes; categories may not.
func SplitStreamID(streamID string) (category, aggregateID string) {
	category, aggregateID, ok := strings.Cut(streamID, "-")
	if !ok {
		return streamID, ""
	}
	return category, aggregateID
}
