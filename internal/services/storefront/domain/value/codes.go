package value

import (
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// CouponCode is an upper-cased discount code.
type CouponCode string

// GiftCardCode is a gift card identifier, kept as entered apart from trimming.
type GiftCardCode string

func NewCouponCode(raw string) (CouponCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", apperrors.New(apperrors.CodeInvalidCouponCode, "coupon code cannot be empty")
	}
	return CouponCode(code), nil
}

func NewGiftCardCode(raw string) (GiftCardCode, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", apperrors.New(apperrors.CodeInvalidGiftCardCode, "gift card code cannot be empty")
	}
	return GiftCardCode(code), nil
}

func (c CouponCode) String() string   { return string(c) }
func (c GiftCardCode) String() string { return string(c) }
