package value

import (
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// Quantity is a non-negative item count.
type Quantity int

// NewQuantity rejects negative counts.
func NewQuantity(n int) (Quantity, error) {
	if n < 0 {
		return 0, apperrors.New(apperrors.CodeInvalidQuantity, "quantity cannot be negative")
	}
	return Quantity(n), nil
}

func (q Quantity) Int() int { return int(q) }
