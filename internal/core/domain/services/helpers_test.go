package services_test

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

func newCaller(t *testing.T, role kernel.Role, restaurantID kernel.UUID) kernel.Caller {
	t.Helper()
	c, err := kernel.NewCaller(kernel.NewUUID(), role, &restaurantID)
	require.NoError(t, err)
	return c
}

func newOrder(t *testing.T, restaurantID kernel.UUID, method order.PaymentMethod) *order.Order {
	t.Helper()
	addr, err := kernel.NewAddress("1", "Street", "Ward", "District", "City", "UK")
	require.NoError(t, err)
	details, err := order.NewDeliveryDetails("Jane", "jane@example.com", "0123", addr)
	require.NoError(t, err)
	item, err := order.NewCartItem(kernel.NewUUID(), "Pizza", 2, gbp(t, 500), nil)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), restaurantID, []order.CartItem{item}, details, method)
	require.NoError(t, err)
	return o
}
