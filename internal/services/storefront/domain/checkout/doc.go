// Package checkout defines the checkout aggregate: a priced cart snapshot that
// collects a payment method, coupons and gift cards, and then completes or is
// cancelled.
package checkout
