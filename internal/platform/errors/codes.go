// Package errors provides structured domain errors grouped into kinds.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

// Kind groups codes by how callers are expected to react to them.
type Kind int

const (
	// KindUnknown is the zero kind, reported only for nil errors.
	KindUnknown Kind = iota
	// KindValidation is raised when input cannot form a value object.
	KindValidation
	// KindIllegalTransition is raised when the aggregate status forbids a command.
	KindIllegalTransition
	// KindInvariantViolation is raised when a well-formed command breaks a business rule.
	KindInvariantViolation
	// KindConcurrencyConflict is raised when an append's expected version is stale.
	KindConcurrencyConflict
	// KindNotFound is raised when a read model has no snapshot for an id.
	KindNotFound
	// KindInternal covers infrastructure failures and unclassified errors.
	KindInternal
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindIllegalTransition:
		return "illegal_transition"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to an HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnknown:
		return http.StatusOK
	case KindValidation, KindIllegalTransition, KindInvariantViolation:
		return http.StatusBadRequest
	case KindConcurrencyConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Value object errors
	CodeInvalidID            Code = "INVALID_ID"
	CodeNegativeMoney        Code = "NEGATIVE_MONEY"
	CodeEmptyCurrency        Code = "EMPTY_CURRENCY"
	CodeUnknownCurrency      Code = "UNKNOWN_CURRENCY"
	CodeCurrencyMismatch     Code = "CURRENCY_MISMATCH"
	CodeInvalidQuantity      Code = "INVALID_QUANTITY"
	CodeInvalidPaymentMethod Code = "INVALID_PAYMENT_METHOD"
	CodeInvalidCouponCode    Code = "INVALID_COUPON_CODE"
	CodeInvalidGiftCardCode  Code = "INVALID_GIFT_CARD_CODE"
	CodeInvalidAddress       Code = "INVALID_SHIPPING_ADDRESS"
	CodeInvalidPayload       Code = "INVALID_PAYLOAD"

	// Shopping cart errors
	CodeCartAlreadyStarted   Code = "CART_ALREADY_STARTED"
	CodeCartNotStarted       Code = "CART_NOT_STARTED"
	CodeCartNotOpen          Code = "CART_NOT_OPEN"
	CodeCartItemNotFound     Code = "CART_ITEM_NOT_FOUND"
	CodeCartQuantityInvalid  Code = "CART_QUANTITY_INVALID"
	CodeCartCurrencyMismatch Code = "CART_CURRENCY_MISMATCH"

	// Checkout errors
	CodeCheckoutAlreadyInitiated  Code = "CHECKOUT_ALREADY_INITIATED"
	CodeCheckoutNotInitiated      Code = "CHECKOUT_NOT_INITIATED"
	CodeCouponAlreadyApplied      Code = "CHECKOUT_COUPON_ALREADY_APPLIED"
	CodeGiftCardAlreadyApplied    Code = "CHECKOUT_GIFT_CARD_ALREADY_APPLIED"
	CodePaymentMethodRequired     Code = "CHECKOUT_PAYMENT_METHOD_REQUIRED"
	CodeTotalAmountRequired       Code = "CHECKOUT_TOTAL_AMOUNT_REQUIRED"
	CodeCheckoutCurrencyMismatch  Code = "CHECKOUT_CURRENCY_MISMATCH"

	// Order errors
	CodeOrderAlreadyCreated       Code = "ORDER_ALREADY_CREATED"
	CodeOrderNotCreated           Code = "ORDER_NOT_CREATED"
	CodeOrderInvalidTransition    Code = "ORDER_INVALID_STATUS_TRANSITION"
	CodeOrderEmpty                Code = "ORDER_EMPTY"
	CodeOrderTrackingRequired     Code = "ORDER_TRACKING_NUMBER_REQUIRED"
	CodeOrderCurrencyMismatch     Code = "ORDER_CURRENCY_MISMATCH"

	// Event store errors
	CodeConcurrencyConflict Code = "CONCURRENCY_CONFLICT"
	CodeStreamGap           Code = "STREAM_GAP"

	// Query errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind maps a code to its taxonomy bucket.
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidID,
		CodeNegativeMoney,
		CodeEmptyCurrency,
		CodeUnknownCurrency,
		CodeCurrencyMismatch,
		CodeInvalidQuantity,
		CodeInvalidPaymentMethod,
		CodeInvalidCouponCode,
		CodeInvalidGiftCardCode,
		CodeInvalidAddress,
		CodeInvalidPayload:
		return KindValidation

	case CodeCartAlreadyStarted,
		CodeCartNotStarted,
		CodeCartNotOpen,
		CodeCheckoutAlreadyInitiated,
		CodeCheckoutNotInitiated,
		CodeOrderAlreadyCreated,
		CodeOrderNotCreated,
		CodeOrderInvalidTransition:
		return KindIllegalTransition

	case CodeCartItemNotFound,
		CodeCartQuantityInvalid,
		CodeCartCurrencyMismatch,
		CodeCouponAlreadyApplied,
		CodeGiftCardAlreadyApplied,
		CodePaymentMethodRequired,
		CodeTotalAmountRequired,
		CodeCheckoutCurrencyMismatch,
		CodeOrderEmpty,
		CodeOrderTrackingRequired,
		CodeOrderCurrencyMismatch:
		return KindInvariantViolation

	case CodeConcurrencyConflict:
		return KindConcurrencyConflict

	case CodeNotFound:
		return KindNotFound

	default:
		return KindInternal
	}
}

// HTTPStatus maps a code to an HTTP status code.
func (c Code) HTTPStatus() int {
	return c.Kind().HTTPStatus()
}
