// Package order defines the order aggregate and its fulfillment lifecycle:
// created, confirmed, shipped, delivered, with cancellation allowed until
// delivery.
package order
