package value

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"golang.org/x/text/currency"
)

// centsEpsilon absorbs float noise when comparing amounts.
const centsEpsilon = 1e-9

// CurrencyPolicy decides which currency codes new amounts may use. Amounts
// re-hydrated from recorded events skip it so history always folds.
type CurrencyPolicy struct {
	// Strict requires ISO 4217 codes. Otherwise any non-empty code is accepted.
	Strict bool
}

// Money validates amount and code under the policy.
func (p CurrencyPolicy) Money(amount float64, code string) (Money, error) {
	m, err := NewMoney(amount, code)
	if err != nil || !p.Strict {
		return m, err
	}
	unit, err := currency.ParseISO(m.currency)
	if err != nil {
		return Money{}, apperrors.Wrap(apperrors.CodeUnknownCurrency, fmt.Sprintf("unknown currency %q", m.currency), err)
	}
	m.currency = unit.String()
	return m, nil
}

// Money is a non-negative amount in a single currency.
type Money struct {
	amount   float64
	currency string
}

// NewMoney validates amount and currency shape. Currency codes are
// upper-cased; use CurrencyPolicy.Money to also check them against ISO 4217.
func NewMoney(amount float64, code string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperrors.New(apperrors.CodeNegativeMoney, "money amount must be a finite number")
	}
	if amount < 0 {
		return Money{}, apperrors.New(apperrors.CodeNegativeMoney, "money amount cannot be negative")
	}
	normalized, err := normalizeCurrency(code)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: round(amount), currency: normalized}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(code string) (Money, error) {
	return NewMoney(0, code)
}

func (m Money) Amount() float64  { return m.amount }
func (m Money) Currency() string { return m.currency }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return math.Abs(m.amount) < centsEpsilon }

// Equal compares amount and currency.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && math.Abs(m.amount-other.amount) < centsEpsilon
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return Money{amount: round(m.amount + other.amount), currency: m.currency}, nil
}

// Subtract returns m - other. Currencies must match and the result must not
// be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	result := round(m.amount - other.amount)
	if result < -centsEpsilon {
		return Money{}, apperrors.New(apperrors.CodeNegativeMoney, "money amount cannot be negative")
	}
	return Money{amount: math.Max(result, 0), currency: m.currency}, nil
}

// SubtractClamped returns max(0, m - other). Currencies must match.
func (m Money) SubtractClamped(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return Money{amount: math.Max(round(m.amount-other.amount), 0), currency: m.currency}, nil
}

// Multiply scales m by a non-negative factor.
func (m Money) Multiply(factor float64) (Money, error) {
	if factor < 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Money{}, apperrors.New(apperrors.CodeNegativeMoney, "money factor cannot be negative")
	}
	return Money{amount: round(m.amount * factor), currency: m.currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.amount, m.currency)
}

func (m Money) sameCurrency(other Money, op string) error {
	if m.currency != other.currency {
		return apperrors.WithMetadata(apperrors.CodeCurrencyMismatch,
			fmt.Sprintf("cannot %s money with different currencies", op),
			map[string]string{"left": m.currency, "right": other.currency})
	}
	return nil
}

func normalizeCurrency(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", apperrors.New(apperrors.CodeEmptyCurrency, "currency cannot be empty")
	}
	return normalized, nil
}

// RoundAmount fixes amounts at six decimal places so repeated folds over the
// same events produce identical floats.
func RoundAmount(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round(v float64) float64 { return RoundAmount(v) }
