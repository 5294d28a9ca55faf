package value

import (
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// PaymentMethodType enumerates accepted payment methods.
type PaymentMethodType string

const (
	PaymentCreditCard   PaymentMethodType = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethodType = "DEBIT_CARD"
	PaymentPayPal       PaymentMethodType = "PAYPAL"
	PaymentBankTransfer PaymentMethodType = "BANK_TRANSFER"
)

// PaymentMethod pairs a method type with its opaque details (masked card
// number, account handle).
type PaymentMethod struct {
	Type    PaymentMethodType
	Details string
}

// NewPaymentMethod validates the type against the known set.
func NewPaymentMethod(kind, details string) (PaymentMethod, error) {
	t := PaymentMethodType(strings.ToUpper(strings.TrimSpace(kind)))
	switch t {
	case PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentBankTransfer:
	default:
		return PaymentMethod{}, apperrors.WithMetadata(apperrors.CodeInvalidPaymentMethod,
			"invalid payment method type", map[string]string{"type": kind})
	}
	details = strings.TrimSpace(details)
	if details == "" {
		return PaymentMethod{}, apperrors.New(apperrors.CodeInvalidPaymentMethod, "payment method details cannot be empty")
	}
	return PaymentMethod{Type: t, Details: details}, nil
}
