// Package cart defines the shopping cart aggregate.
//
// A cart is started once per id, collects item lines keyed by product while it
// is open, and ends when it is cleared. Commands carry validated value objects;
// events carry primitives only.
package cart
