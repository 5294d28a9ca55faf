package checkout

import "github.com/louisbranch/storefront/internal/services/storefront/domain/value"

// Evolve applies one event to the checkout. Slices are copied before append so
// earlier states never observe later events.
func Evolve(s State, evt Event) State {
	switch e := evt.(type) {
	case CheckoutInitiated:
		total := e.TotalAmount
		return State{
			Status:      e.Status,
			CheckoutID:  e.CheckoutID,
			CartID:      e.CartID,
			CustomerID:  e.CustomerID,
			TotalAmount: &total,
		}
	case PaymentMethodSet:
		s.PaymentMethod = &PaymentMethod{Type: e.PaymentMethodType, Details: e.PaymentMethodDetails}
		return s
	case CouponApplied:
		s.AppliedCoupons = appendCopy(s.AppliedCoupons, e.CouponCode)
		s.TotalDiscount = addAmount(s.TotalDiscount, e.DiscountAmount)
		return s
	case GiftCardApplied:
		s.AppliedGiftCards = appendCopy(s.AppliedGiftCards, e.GiftCardCode)
		s.TotalGiftCardAmount = addAmount(s.TotalGiftCardAmount, e.AppliedAmount)
		return s
	case CheckoutCompleted:
		final := e.FinalAmount
		s.Status = e.Status
		s.FinalAmount = &final
		return s
	case CheckoutCancelled:
		s.Status = e.Status
		s.CancellationReason = e.Reason
		return s
	default:
		return s
	}
}

func appendCopy(list []string, v string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}

func addAmount(running float64, amount value.MoneyData) float64 {
	return value.RoundAmount(running + amount.Amount)
}
