package services

import (
	"fmt"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"
)

// CartPricer turns customer-submitted cart lines into priced order items.
//
// Prices always come from the restaurant menu. A line is rejected with
// *order.InvalidCartItemError when:
//   - its menu item is not on the menu or is currently unavailable
//   - its quantity is not positive
//   - a selected topping does not exist for that menu item
//   - it claims a unit price that differs from the menu price
//
// Example usage:
//
//	pricer := services.NewCartPricer()
//	items, err := pricer.Price(restaurant, lines)
//	if errors.Is(err, order.ErrEmptyCart) || errors.Is(err, order.ErrInvalidCartItem) {
//	    // reject the checkout, nothing was persisted
//	}
type CartPricer struct{}

// NewCartPricer creates a new CartPricer instance.
func NewCartPricer() CartPricer {
	return CartPricer{}
}

// Price resolves every line against menu and returns the priced items in the
// same order as lines.
func (CartPricer) Price(menu *restaurant.Restaurant, lines []order.CartLine) ([]order.CartItem, error) {
	if err := menu.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}

	items := make([]order.CartItem, 0, len(lines))
	for _, line := range lines {
		item, err := priceLine(menu, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func priceLine(menu *restaurant.Restaurant, line order.CartLine) (order.CartItem, error) {
	id := line.MenuItemID.String()
	menuItem, ok := menu.MenuItem(line.MenuItemID)
	if !ok {
		return order.CartItem{}, order.NewInvalidCartItemError(id, "not on the menu")
	}
	if !menuItem.IsAvailable() {
		return order.CartItem{}, order.NewInvalidCartItemError(id, "not available")
	}
	if line.ClaimedUnitPrice != nil && *line.ClaimedUnitPrice != menuItem.Price().Amount() {
		return order.CartItem{}, order.NewInvalidCartItemError(id, fmt.Sprintf(
			"claimed unit price %d does not match menu price %d", *line.ClaimedUnitPrice, menuItem.Price().Amount()))
	}

	toppings := make([]order.Topping, 0, len(line.Toppings))
	for _, selection := range line.Toppings {
		option, found := menuItem.Topping(selection.Category, selection.Option)
		if !found {
			return order.CartItem{}, order.NewInvalidCartItemError(id, fmt.Sprintf(
				"topping %q in %q does not exist", selection.Option, selection.Category))
		}
		topping, err := order.NewTopping(selection.Category, option.Name, option.Price)
		if err != nil {
			return order.CartItem{}, err
		}
		toppings = append(toppings, topping)
	}

	return order.NewCartItem(menuItem.ID(), menuItem.Name(), line.Quantity, menuItem.Price(), toppings)
}
