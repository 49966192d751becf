package order

import (
	"errors"
	"net/mail"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrDeliveryDetailsIsNotConstructed = errs.NewValueIsRequiredError("delivery details must be created via NewDeliveryDetails")

// DeliveryDetails is the recipient and address an order is delivered to.
// It is fixed at checkout.
type DeliveryDetails struct { //nolint:recvcheck //using for validation
	name    string
	email   string
	phone   string
	address kernel.Address
	guard   guard.ConstructorGuard
}

func NewDeliveryDetails(name, email, phone string, address kernel.Address) (DeliveryDetails, error) {
	d := DeliveryDetails{
		name:  strings.TrimSpace(name),
		email: strings.TrimSpace(email),
		phone: strings.TrimSpace(phone),
		guard: guard.NewConstructorGuard(),
	}

	var errList []error
	if d.name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if d.phone == "" {
		errList = append(errList, errs.NewValueIsRequiredError("phone"))
	}
	if d.email == "" {
		errList = append(errList, errs.NewValueIsRequiredError("email"))
	} else if _, err := mail.ParseAddress(d.email); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("email", err))
	}
	if err := address.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return DeliveryDetails{}, err
	}

	d.address = address
	return d, nil
}

func (d DeliveryDetails) Validate() error {
	return d.guard.Validate(ErrDeliveryDetailsIsNotConstructed)
}

func (d DeliveryDetails) Name() string            { return d.name }
func (d DeliveryDetails) Email() string           { return d.email }
func (d DeliveryDetails) Phone() string           { return d.phone }
func (d DeliveryDetails) Address() kernel.Address { return d.address }
