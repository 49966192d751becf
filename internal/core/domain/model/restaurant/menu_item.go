package restaurant

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrMenuItemIsNotConstructed = errs.NewValueIsRequiredError("menu item must be created via NewMenuItem")

// ToppingOption is a selectable topping and its surcharge.
type ToppingOption struct {
	Name  string
	Price kernel.Money
}

// ToppingCategory groups options, e.g. "Sauce" or "Extras".
type ToppingCategory struct {
	Name    string
	Options []ToppingOption
}

// MenuItem is an item a restaurant sells. Its price is authoritative for checkout.
type MenuItem struct { //nolint:recvcheck //using for validation
	id          kernel.UUID
	name        string
	price       kernel.Money
	isAvailable bool
	toppings    []ToppingCategory
	guard       guard.ConstructorGuard
}

func NewMenuItem(
	id kernel.UUID,
	name string,
	price kernel.Money,
	isAvailable bool,
	toppings []ToppingCategory,
) (MenuItem, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("menu item name")
	}
	if err := errors.Join(id.Validate(), nameErr, price.Validate()); err != nil {
		return MenuItem{}, err
	}
	for _, category := range toppings {
		for _, option := range category.Options {
			if err := option.Price.Validate(); err != nil {
				return MenuItem{}, err
			}
			if option.Price.Currency() != price.Currency() {
				return MenuItem{}, errs.NewValueIsInvalidErrorWithCause("topping price", kernel.ErrCurrencyMismatch)
			}
		}
	}

	return MenuItem{
		id:          id,
		name:        name,
		price:       price,
		isAvailable: isAvailable,
		toppings:    toppings,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (m MenuItem) Validate() error {
	return m.guard.Validate(ErrMenuItemIsNotConstructed)
}

func (m MenuItem) ID() kernel.UUID                      { return m.id }
func (m MenuItem) Name() string                         { return m.name }
func (m MenuItem) Price() kernel.Money                  { return m.price }
func (m MenuItem) IsAvailable() bool                    { return m.isAvailable }
func (m MenuItem) ToppingCategories() []ToppingCategory { return m.toppings }

// Topping finds an option by category and option name. Matching is case-insensitive.
func (m MenuItem) Topping(category, option string) (ToppingOption, bool) {
	for _, c := range m.toppings {
		if !strings.EqualFold(c.Name, strings.TrimSpace(category)) {
			continue
		}
		for _, o := range c.Options {
			if strings.EqualFold(o.Name, strings.TrimSpace(option)) {
				return o, true
			}
		}
	}
	return ToppingOption{}, false
}
