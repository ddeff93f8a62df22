package service

import (
	"context"
	"testing"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/payu"
	"github.com/Adi-Narayan/Hashira/realtime"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedCallback(order *models.Order, status string) payu.Callback {
	cb := payu.Callback{
		Key:         "KEY",
		TxnID:       order.TxnID,
		Amount:      payu.FormatAmount(order.Amount),
		ProductInfo: order.ItemSummary(),
		FirstName:   "Ada",
		Email:       "ship@x.com",
		Status:      status,
		MihPayID:    "mih-42",
	}
	cb.Hash = payu.ResponseHash(cb, "SALT")
	return cb
}

func TestOrder_PlaceCODClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")
	require.NoError(t, f.carts.Add(ctx, userID, "P1", "M"))

	order, err := f.orders.PlaceCOD(ctx, userID, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.False(t, order.Payment)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)

	cart, err := f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	orders, err := f.orders.UserOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.False(t, orders[0].Payment)

	assert.Equal(t, []string{"welcome", "order"}, f.notifier.Kinds())
	assert.Equal(t, "a@x.com", f.notifier.Last().to)
	assert.Equal(t, []string{realtime.EventOrderCreated}, f.events.events)
}

func TestOrder_PlaceRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")

	_, err := f.orders.PlaceCOD(ctx, userID, PlaceOrderInput{Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	in := sampleInput()
	in.Amount = 0
	_, err = f.orders.PlaceCOD(ctx, userID, in)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	in = sampleInput()
	in.Items[0].Quantity = 0
	_, _, err = f.orders.PlacePayU(ctx, userID, in)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = f.orders.PlaceCOD(ctx, "missing", sampleInput())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestOrder_PayUFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")
	require.NoError(t, f.carts.Add(ctx, userID, "P1", "M"))

	order, req, err := f.orders.PlacePayU(ctx, userID, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodPayU, order.PaymentMethod)
	assert.NotEmpty(t, order.TxnID)
	assert.Equal(t, order.TxnID, req.Params.TxnID)
	assert.Equal(t, "1098.00", req.Params.Amount)
	assert.Equal(t, payu.RequestHash(req.Params, "SALT"), req.Params.Hash)

	// Placing does not touch the cart.
	cart, err := f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.CartData{"P1": {"M": 1}}, cart)

	redirect, err := f.orders.ConfirmPayU(ctx, signedCallback(order, "success"))
	require.NoError(t, err)
	assert.Equal(t, f.gateway.SuccessURL(order.TxnID), redirect)

	stored, err := f.store.Orders().GetByTxnID(ctx, order.TxnID)
	require.NoError(t, err)
	assert.True(t, stored.Payment)
	assert.Equal(t, "mih-42", stored.PaymentID)

	cart, err = f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart)
	assert.Equal(t, []string{"welcome", "order"}, f.notifier.Kinds())
	assert.Equal(t, []string{realtime.EventOrderCreated, realtime.EventOrderPaid}, f.events.events)

	// A replayed callback neither re-sends mail nor re-clears the cart.
	require.NoError(t, f.carts.Add(ctx, userID, "P2", "S"))
	redirect, err = f.orders.ConfirmPayU(ctx, signedCallback(order, "success"))
	require.NoError(t, err)
	assert.Equal(t, f.gateway.SuccessURL(order.TxnID), redirect)
	cart, err = f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.CartData{"P2": {"S": 1}}, cart)
	assert.Len(t, f.notifier.Kinds(), 2)
}

func TestOrder_PayUFailuresLeaveStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")
	require.NoError(t, f.carts.Add(ctx, userID, "P1", "M"))
	order, _, err := f.orders.PlacePayU(ctx, userID, sampleInput())
	require.NoError(t, err)

	failed := signedCallback(order, "failure")

	forged := signedCallback(order, "failure")
	forged.Status = "success"

	unknown := signedCallback(&models.Order{TxnID: "TXN_unknown", Amount: order.Amount, Items: order.Items}, "success")

	underpaid := signedCallback(order, "success")
	underpaid.Amount = "1.00"
	underpaid.Hash = payu.ResponseHash(underpaid, "SALT")

	cases := []struct {
		name    string
		cb      payu.Callback
		wantErr error
	}{
		{"gateway failure", failed, nil},
		{"forged status", forged, payu.ErrInvalidHash},
		{"unknown transaction", unknown, store.ErrOrderNotFound},
		{"amount mismatch", underpaid, payu.ErrAmountMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			redirect, err := f.orders.ConfirmPayU(ctx, tc.cb)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, f.gateway.FailureURL(tc.cb.TxnID), redirect)

			stored, err := f.store.Orders().GetByID(ctx, order.ID)
			require.NoError(t, err)
			assert.False(t, stored.Payment)

			cart, err := f.carts.Get(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, models.CartData{"P1": {"M": 1}}, cart)
		})
	}
}

func TestOrder_PayUUnavailable(t *testing.T) {
	f := newFixture(t)
	f.orders = NewOrderService(f.store.Users(), f.store.Orders(), nil, f.notifier, nil)
	userID := f.register(t, "a@x.com")

	_, _, err := f.orders.PlacePayU(context.Background(), userID, sampleInput())
	assert.ErrorIs(t, err, ErrPaymentUnavailable)
}

func TestOrder_AdminListAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.com")
	bob := f.register(t, "bob@x.com")

	first, err := f.orders.PlaceCOD(ctx, alice, sampleInput())
	require.NoError(t, err)
	_, err = f.orders.PlaceCOD(ctx, bob, sampleInput())
	require.NoError(t, err)

	all, err := f.orders.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.orders.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	updated, err := f.orders.UpdateStatus(ctx, first.ID, "Awaiting pickup")
	require.NoError(t, err)
	assert.Equal(t, "Awaiting pickup", updated.Status)

	last := f.notifier.Last()
	assert.Equal(t, "status", last.kind)
	assert.Equal(t, "alice@x.com", last.to)
	assert.Equal(t, realtime.EventOrderStatus, f.events.events[len(f.events.events)-1])

	_, err = f.orders.UpdateStatus(ctx, first.ID, "  ")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.orders.UpdateStatus(ctx, "missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
	assert.True(t, IsNotFound(err))
}
