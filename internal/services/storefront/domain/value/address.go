package value

import (
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// NewShippingAddress requires every field.
func NewShippingAddress(street, city, state, zipCode, country string) (ShippingAddress, error) {
	addr := ShippingAddress{
		Street:  strings.TrimSpace(street),
		City:    strings.TrimSpace(city),
		State:   strings.TrimSpace(state),
		ZipCode: strings.TrimSpace(zipCode),
		Country: strings.TrimSpace(country),
	}
	fields := []struct{ name, value string }{
		{"street", addr.Street},
		{"city", addr.City},
		{"state", addr.State},
		{"zip code", addr.ZipCode},
		{"country", addr.Country},
	}
	for _, f := range fields {
		if f.value == "" {
			return ShippingAddress{}, apperrors.WithMetadata(apperrors.CodeInvalidAddress,
				"shipping address "+f.name+" cannot be empty",
				map[string]string{"field": f.name})
		}
	}
	return addr, nil
}
