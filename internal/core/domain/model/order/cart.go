package order

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
)

var (
	// ErrEmptyCart is returned when an order is requested without any line.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidCartItem is the sentinel behind InvalidCartItemError.
	ErrInvalidCartItem = errors.New("invalid cart item")
)

// InvalidCartItemError reports the offending menu item and why it was rejected.
type InvalidCartItemError struct {
	MenuItemID string
	Reason     string
}

func NewInvalidCartItemError(menuItemID, reason string) *InvalidCartItemError {
	return &InvalidCartItemError{MenuItemID: menuItemID, Reason: reason}
}

func (e *InvalidCartItemError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidCartItem, e.MenuItemID, e.Reason)
}

func (e *InvalidCartItemError) Unwrap() error {
	return ErrInvalidCartItem
}

// ToppingSelection is one topping the customer picked, by category and option name.
type ToppingSelection struct {
	Category string
	Option   string
}

// CartLine is the untrusted cart line submitted by a customer. Only the menu item,
// quantity and topping choices are honoured; ClaimedUnitPrice, when present, must
// agree with the menu or the line is rejected.
type CartLine struct {
	MenuItemID       kernel.UUID
	Quantity         int
	ClaimedUnitPrice *int64
	Toppings         []ToppingSelection
}

// Topping is a priced topping on a cart item.
type Topping struct {
	category string
	name     string
	price    kernel.Money
}

func NewTopping(category, name string, price kernel.Money) (Topping, error) {
	category, name = strings.TrimSpace(category), strings.TrimSpace(name)
	if name == "" {
		return Topping{}, NewInvalidCartItemError(category, "topping name is empty")
	}
	if err := price.Validate(); err != nil {
		return Topping{}, err
	}
	return Topping{category: category, name: name, price: price}, nil
}

func (t Topping) Category() string    { return t.category }
func (t Topping) Name() string        { return t.name }
func (t Topping) Price() kernel.Money { return t.price }

// CartItem is a priced order line. Prices always come from the restaurant menu.
type CartItem struct {
	menuItemID kernel.UUID
	name       string
	quantity   int
	unitPrice  kernel.Money
	toppings   []Topping
	lineTotal  kernel.Money
}

// NewCartItem validates the line and derives its total.
func NewCartItem(
	menuItemID kernel.UUID,
	name string,
	quantity int,
	unitPrice kernel.Money,
	toppings []Topping,
) (CartItem, error) {
	if err := menuItemID.Validate(); err != nil {
		return CartItem{}, err
	}
	id := menuItemID.String()
	if quantity <= 0 {
		return CartItem{}, NewInvalidCartItemError(id, fmt.Sprintf("quantity %d is not greater than 0", quantity))
	}
	if err := unitPrice.Validate(); err != nil {
		return CartItem{}, NewInvalidCartItemError(id, "unit price is missing")
	}
	item := CartItem{
		menuItemID: menuItemID,
		name:       strings.TrimSpace(name),
		quantity:   quantity,
		unitPrice:  unitPrice,
		toppings:   append([]Topping(nil), toppings...),
	}
	total, err := item.computeLineTotal()
	if err != nil {
		return CartItem{}, err
	}
	item.lineTotal = total
	return item, nil
}

func (i CartItem) MenuItemID() kernel.UUID { return i.menuItemID }
func (i CartItem) Name() string            { return i.name }
func (i CartItem) Quantity() int           { return i.quantity }
func (i CartItem) UnitPrice() kernel.Money { return i.unitPrice }
func (i CartItem) LineTotal() kernel.Money { return i.lineTotal }
func (i CartItem) Toppings() []Topping     { return append([]Topping(nil), i.toppings...) }

// computeLineTotal is unitPrice*quantity plus the sum of topping prices.
// Toppings are charged once per line.
func (i CartItem) computeLineTotal() (kernel.Money, error) {
	total, err := i.unitPrice.Multiply(i.quantity)
	if err != nil {
		return kernel.Money{}, NewInvalidCartItemError(i.menuItemID.String(), err.Error())
	}
	for _, t := range i.toppings {
		if total, err = total.Add(t.price); err != nil {
			return kernel.Money{}, NewInvalidCartItemError(i.menuItemID.String(), err.Error())
		}
	}
	return total, nil
}

// ComputeTotal recomputes every line total from its unit price, quantity and
// toppings and returns their sum. Stored line totals are never trusted.
//
// Example:
//
//	total, err := order.ComputeTotal(items)
//	if errors.Is(err, order.ErrEmptyCart) {
//	    // reject the checkout
//	}
func ComputeTotal(items []CartItem) (kernel.Money, error) {
	if len(items) == 0 {
		return kernel.Money{}, ErrEmptyCart
	}
	total, err := kernel.ZeroMoney(items[0].unitPrice.Currency())
	if err != nil {
		return kernel.Money{}, err
	}
	for _, item := range items {
		line, err := item.computeLineTotal()
		if err != nil {
			return kernel.Money{}, err
		}
		if total, err = total.Add(line); err != nil {
			return kernel.Money{}, NewInvalidCartItemError(item.menuItemID.String(), err.Error())
		}
	}
	return total, nil
}
