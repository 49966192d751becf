package payment_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRequest_Validate(t *testing.T) {
	amount, err := kernel.NewMoney(1000, "gbp")
	require.NoError(t, err)

	t.Run("should accept complete request", func(t *testing.T) {
		req := payment.SessionRequest{
			OrderID:      kernel.NewUUID(),
			RestaurantID: kernel.NewUUID(),
			Amount:       amount,
			SuccessURL:   "https://shop.example/order-status?success=true",
			CancelURL:    "https://shop.example/detail/1?cancelled=true",
		}

		require.NoError(t, req.Validate())
		assert.Equal(t, req.OrderID.String(), req.Metadata()["orderId"])
		assert.Equal(t, req.RestaurantID.String(), req.Metadata()["restaurantId"])
	})

	t.Run("should report all missing fields", func(t *testing.T) {
		err := payment.SessionRequest{}.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, kernel.ErrMoneyIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestEvent_SettlesCheckout(t *testing.T) {
	assert.True(t, payment.Event{Type: "checkout.session.completed"}.SettlesCheckout())
	assert.True(t, payment.Event{Type: "checkout.session.async_payment_succeeded"}.SettlesCheckout())
	assert.False(t, payment.Event{Type: "checkout.session.async_payment_failed"}.SettlesCheckout())
	assert.False(t, payment.Event{Type: "checkout.session.expired"}.SettlesCheckout())
}
