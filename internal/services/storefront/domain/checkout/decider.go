package checkout

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/decider"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
)

// Decider is the checkout aggregate's initial state, evolve and decide.
var Decider = decider.Decider[Command, Event, State]{
	InitialState: InitialState,
	Evolve:       Evolve,
	Decide:       Decide,
}

// Decide validates cmd against s and returns the events to append.
func Decide(s State, cmd Command, now func() time.Time) ([]Event, error) {
	switch c := cmd.(type) {
	case InitiateCheckout:
		if s.Status != StatusNotStarted {
			return nil, apperrors.WithMetadata(apperrors.CodeCheckoutAlreadyInitiated, "checkout already initiated",
				map[string]string{"status": string(s.Status)})
		}
		return []Event{CheckoutInitiated{
			CheckoutID:  c.CheckoutID.String(),
			CartID:      c.CartID.String(),
			CustomerID:  c.CustomerID.String(),
			TotalAmount: c.TotalAmount.Data(),
			Status:      StatusInitiated,
			InitiatedAt: decider.Timestamp(now),
		}}, nil

	case SetPaymentMethod:
		if err := requireInitiated(s); err != nil {
			return nil, err
		}
		return []Event{PaymentMethodSet{
			CheckoutID:           c.CheckoutID.String(),
			PaymentMethodType:    string(c.PaymentMethod.Type),
			PaymentMethodDetails: c.PaymentMethod.Details,
			SetAt:                decider.Timestamp(now),
		}}, nil

	case ApplyCoupon:
		if err := requireInitiated(s); err != nil {
			return nil, err
		}
		if s.HasCoupon(c.CouponCode) {
			return nil, apperrors.WithMetadata(apperrors.CodeCouponAlreadyApplied, "coupon already applied",
				map[string]string{"coupon_code": c.CouponCode.String()})
		}
		if err := requireCurrency(s, c.DiscountAmount); err != nil {
			return nil, err
		}
		return []Event{CouponApplied{
			CheckoutID:     c.CheckoutID.String(),
			CouponCode:     c.CouponCode.String(),
			DiscountAmount: c.DiscountAmount.Data(),
			AppliedAt:      decider.Timestamp(now),
		}}, nil

	case ApplyGiftCard:
		if err := requireInitiated(s); err != nil {
			return nil, err
		}
		if s.HasGiftCard(c.GiftCardCode) {
			return nil, apperrors.WithMetadata(apperrors.CodeGiftCardAlreadyApplied, "gift card already applied",
				map[string]string{"gift_card_code": c.GiftCardCode.String()})
		}
		if err := requireCurrency(s, c.AppliedAmount); err != nil {
			return nil, err
		}
		return []Event{GiftCardApplied{
			CheckoutID:    c.CheckoutID.String(),
			GiftCardCode:  c.GiftCardCode.String(),
			AppliedAmount: c.AppliedAmount.Data(),
			AppliedAt:     decider.Timestamp(now),
		}}, nil

	case CompleteCheckout:
		if err := requireInitiated(s); err != nil {
			return nil, err
		}
		if s.PaymentMethod == nil {
			return nil, apperrors.New(apperrors.CodePaymentMethodRequired, "payment method is required to complete checkout")
		}
		final, err := s.ComputeFinalAmount()
		if err != nil {
			return nil, err
		}
		return []Event{CheckoutCompleted{
			CheckoutID:  c.CheckoutID.String(),
			FinalAmount: final.Data(),
			Status:      StatusCompleted,
			CompletedAt: decider.Timestamp(now),
		}}, nil

	case CancelCheckout:
		if err := requireInitiated(s); err != nil {
			return nil, err
		}
		return []Event{CheckoutCancelled{
			CheckoutID:  c.CheckoutID.String(),
			Reason:      strings.TrimSpace(c.Reason),
			Status:      StatusCancelled,
			CancelledAt: decider.Timestamp(now),
		}}, nil

	default:
		return nil, fmt.Errorf("checkout: unhandled command %T", cmd)
	}
}

func requireInitiated(s State) error {
	if s.Status != StatusInitiated {
		return apperrors.WithMetadata(apperrors.CodeCheckoutNotInitiated,
			fmt.Sprintf("checkout is not in progress (status %s)", s.Status),
			map[string]string{"status": string(s.Status)})
	}
	return nil
}

func requireCurrency(s State, amount value.Money) error {
	if amount.Currency() != s.Currency() {
		return apperrors.WithMetadata(apperrors.CodeCheckoutCurrencyMismatch,
			fmt.Sprintf("checkout is priced in %s, amount is in %s", s.Currency(), amount.Currency()),
			map[string]string{"expected": s.Currency(), "actual": amount.Currency()})
	}
	return nil
}

func errTotalRequired() error {
	return apperrors.New(apperrors.CodeTotalAmountRequired, "total amount is required to complete checkout")
}
