package projection

import (
	"context"
	"fmt"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// CheckoutProjector maintains CheckoutView documents.
type CheckoutProjector struct {
	Docs storage.DocumentStore
}

// Apply folds one checkout event into its view.
func (p CheckoutProjector) Apply(ctx context.Context, rec event.Recorded) error {
	evt, ok, err := checkout.Codec{}.Decode(rec)
	if err != nil || !ok {
		return err
	}
	_, checkoutID := event.SplitStreamID(rec.StreamID)
	view, version, found, err := loadView[CheckoutView](ctx, p.Docs, CollectionCheckouts, checkoutID)
	if err != nil {
		return err
	}
	if found && rec.StreamVersion <= version {
		return nil
	}
	if _, initiated := evt.(checkout.CheckoutInitiated); !found && !initiated {
		return nil
	}

	switch e := evt.(type) {
	case checkout.CheckoutInitiated:
		view = CheckoutView{
			CheckoutID:          e.CheckoutID,
			CartID:              e.CartID,
			CustomerID:          e.CustomerID,
			Status:              string(e.Status),
			AppliedCoupons:      []string{},
			AppliedGiftCards:    []string{},
			TotalAmount:         e.TotalAmount,
			TotalDiscount:       value.MoneyData{Currency: e.TotalAmount.Currency},
			TotalGiftCardAmount: value.MoneyData{Currency: e.TotalAmount.Currency},
			LastUpdated:         eventTime(e.InitiatedAt, rec),
		}
	case checkout.PaymentMethodSet:
		view.PaymentMethod = &PaymentMethodView{Type: e.PaymentMethodType, Details: e.PaymentMethodDetails}
		view.LastUpdated = eventTime(e.SetAt, rec)
	case checkout.CouponApplied:
		view.AppliedCoupons = append(view.AppliedCoupons, e.CouponCode)
		view.TotalDiscount.Amount = value.RoundAmount(view.TotalDiscount.Amount + e.DiscountAmount.Amount)
		view.LastUpdated = eventTime(e.AppliedAt, rec)
	case checkout.GiftCardApplied:
		view.AppliedGiftCards = append(view.AppliedGiftCards, e.GiftCardCode)
		view.TotalGiftCardAmount.Amount = value.RoundAmount(view.TotalGiftCardAmount.Amount + e.AppliedAmount.Amount)
		view.LastUpdated = eventTime(e.AppliedAt, rec)
	case checkout.CheckoutCompleted:
		final := e.FinalAmount
		view.Status = string(e.Status)
		view.FinalAmount = &final
		view.LastUpdated = eventTime(e.CompletedAt, rec)
	case checkout.CheckoutCancelled:
		view.Status = string(e.Status)
		view.CancellationReason = e.Reason
		view.LastUpdated = eventTime(e.CancelledAt, rec)
	default:
		return fmt.Errorf("checkout projection: unhandled event %T", evt)
	}
	view.Version = rec.StreamVersion
	return saveView(ctx, p.Docs, CollectionCheckouts, checkoutID, view.CustomerID, view.Version, view.LastUpdated, view)
}
