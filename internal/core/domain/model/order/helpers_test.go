package order_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func gbp(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount, "gbp")
	require.NoError(t, err)
	return m
}

func newDetails(t *testing.T) order.DeliveryDetails {
	t.Helper()
	addr, err := kernel.NewAddress("Flat 2", "1 Baker St", "Marylebone", "Westminster", "London", "UK")
	require.NoError(t, err)
	d, err := order.NewDeliveryDetails("Jane Doe", "jane@example.com", "+44 20 7946 0000", addr)
	require.NoError(t, err)
	return d
}

func newItem(t *testing.T, quantity int, unitPrice int64, toppingPrices ...int64) order.CartItem {
	t.Helper()
	toppings := make([]order.Topping, 0, len(toppingPrices))
	for _, p := range toppingPrices {
		tp, err := order.NewTopping("extras", "cheese", gbp(t, p))
		require.NoError(t, err)
		toppings = append(toppings, tp)
	}
	item, err := order.NewCartItem(kernel.NewUUID(), "Margherita", quantity, gbp(t, unitPrice), toppings)
	require.NoError(t, err)
	return item
}

func newOrder(t *testing.T, method order.PaymentMethod, items ...order.CartItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.CartItem{newItem(t, 2, 500)}
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, newDetails(t), method)
	require.NoError(t, err)
	return o
}

func newStaff(t *testing.T, role kernel.Role, restaurantID kernel.UUID) kernel.Caller {
	t.Helper()
	c, err := kernel.NewCaller(kernel.NewUUID(), role, &restaurantID)
	require.NoError(t, err)
	return c
}

// advance walks o along the given statuses, failing the test on the first rejected edge.
func advance(t *testing.T, o *order.Order, actor kernel.Caller, statuses ...order.Status) {
	t.Helper()
	for _, s := range statuses {
		require.NoError(t, o.AdvanceTo(s, actor))
	}
}
