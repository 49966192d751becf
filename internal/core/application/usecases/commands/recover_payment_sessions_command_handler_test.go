package commands_test

import (
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRecoverPaymentSessionsCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewRecoverPaymentSessionsCommand(-time.Second, 10)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewRecoverPaymentSessionsCommand(time.Minute, 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRecoverPaymentSessionsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	restaurantID := kernel.NewUUID()

	failing := newStoredOrder(t, store, restaurantID, order.Online)
	dangling := newStoredOrder(t, store, restaurantID, order.Online)
	cod := newStoredOrder(t, store, restaurantID, order.CashOnDelivery)
	attached := newStoredOrder(t, store, restaurantID, order.Online)
	mutate(t, store, attached.ID(), func(o *order.Order) {
		require.NoError(t, o.AttachPaymentSession("cs_existing", "https://pay.example/cs_existing"))
	})

	provider := new(MockPaymentProvider)
	provider.On("CreateSession", mock.Anything, mock.MatchedBy(func(req payment.SessionRequest) bool {
		return req.OrderID.IsEqual(failing.ID())
	})).Return(payment.Session{}, assert.AnError).Once()
	provider.On("CreateSession", mock.Anything, mock.MatchedBy(func(req payment.SessionRequest) bool {
		return req.OrderID.IsEqual(dangling.ID())
	})).Return(payment.Session{Reference: "cs_recovered", RedirectURL: "https://pay.example/cs_recovered"}, nil).Once()

	factory := newMemoryFactory(store)
	h := commands.NewRecoverPaymentSessionsCommandHandler(factory,
		commands.NewPaymentSessionOpener(factory, provider, redirectURLs(t)), discardLogger())

	cmd, err := commands.NewRecoverPaymentSessionsCommand(0, 10)
	require.NoError(t, err)

	recovered, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, recovered)
	assert.Equal(t, "cs_recovered", loadOrder(t, store, dangling.ID()).PaymentReference())
	assert.Empty(t, loadOrder(t, store, failing.ID()).PaymentReference())
	assert.Empty(t, loadOrder(t, store, cod.ID()).PaymentReference())
	assert.Equal(t, "cs_existing", loadOrder(t, store, attached.ID()).PaymentReference())
	provider.AssertExpectations(t)
}

func TestRecoverPaymentSessionsCommandHandler_Handle_GraceSkipsRecentOrders(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	newStoredOrder(t, store, kernel.NewUUID(), order.Online)

	provider := new(MockPaymentProvider)
	factory := newMemoryFactory(store)
	h := commands.NewRecoverPaymentSessionsCommandHandler(factory,
		commands.NewPaymentSessionOpener(factory, provider, redirectURLs(t)), discardLogger())

	cmd, err := commands.NewRecoverPaymentSessionsCommand(time.Hour, 10)
	require.NoError(t, err)

	recovered, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, recovered)
	provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}
