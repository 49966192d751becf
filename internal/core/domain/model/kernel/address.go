package kernel

import (
	"errors"
	"strings"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when a zero Address is used.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a structured delivery address. Every component is required.
type Address struct { //nolint:recvcheck //using for validation
	addressLine1 string
	street       string
	ward         string
	district     string
	city         string
	country      string
	guard        guard.ConstructorGuard
}

// NewAddress trims and validates all address components.
func NewAddress(addressLine1, street, ward, district, city, country string) (Address, error) {
	a := Address{guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		required("addressLine1", addressLine1, &a.addressLine1),
		required("street", street, &a.street),
		required("ward", ward, &a.ward),
		required("district", district, &a.district),
		required("city", city, &a.city),
		required("country", country, &a.country),
	); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Validate reports whether a was built through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) AddressLine1() string { return a.addressLine1 }
func (a Address) Street() string       { return a.street }
func (a Address) Ward() string         { return a.ward }
func (a Address) District() string     { return a.district }
func (a Address) City() string         { return a.city }
func (a Address) Country() string      { return a.country }

// IsEqual compares all components.
func (a Address) IsEqual(other Address) bool {
	return a.addressLine1 == other.addressLine1 &&
		a.street == other.street &&
		a.ward == other.ward &&
		a.district == other.district &&
		a.city == other.city &&
		a.country == other.country
}

func required(name, value string, dst *string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	*dst = value
	return nil
}
