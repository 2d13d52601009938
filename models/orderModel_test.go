package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() Order {
	return Order{
		OrderNumber: "BF000123",
		Items: []OrderItem{
			{MenuItemID: "m1", Name: "Paneer Tikka", Price: 110, Quantity: 1},
			{MenuItemID: "m2", Name: "Veg Biryani", Price: 210, Quantity: 1},
		},
		Status:        StatusPlaced,
		PaymentStatus: PaymentPending,
	}
}

func TestComputeTotals(t *testing.T) {
	order := sampleOrder()
	order.ComputeTotals(0.05, 40)

	assert.Equal(t, 320.0, order.Subtotal)
	assert.Equal(t, 16.0, order.Tax)
	assert.Equal(t, 40.0, order.DeliveryFee)
	assert.Equal(t, 376.0, order.Total)
	assert.Equal(t, order.Subtotal+order.Tax+order.DeliveryFee, order.Total)
}

func TestComputeTotalsQuantityAndRounding(t *testing.T) {
	order := Order{Items: []OrderItem{
		{MenuItemID: "m1", Name: "Masala Chai", Price: 33.33, Quantity: 3},
	}}
	order.ComputeTotals(0.05, 40)

	assert.Equal(t, 99.99, order.Subtotal)
	assert.Equal(t, 5.0, order.Tax)
	assert.Equal(t, order.Subtotal+order.Tax+order.DeliveryFee, order.Total)
}

func TestComputeTotalsSumIsExactForAwkwardFloats(t *testing.T) {
	// 384.54 + 19.23 + 40 is not exactly representable at 2dp; the total
	// must still equal the float sum of the stored parts.
	order := Order{Items: []OrderItem{
		{MenuItemID: "m1", Name: "Family Thali", Price: 384.54, Quantity: 1},
	}}
	order.ComputeTotals(0.05, 40)

	assert.Equal(t, 384.54, order.Subtotal)
	assert.Equal(t, 19.23, order.Tax)
	assert.Equal(t, order.Subtotal+order.Tax+order.DeliveryFee, order.Total)
}

func TestItemAmount(t *testing.T) {
	item := OrderItem{Price: 110.5, Quantity: 3}
	assert.Equal(t, 331.5, item.Amount())
}

func TestTerminalStatusRejectsEveryTarget(t *testing.T) {
	targets := []string{
		StatusPlaced, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
	}
	for _, terminal := range []string{StatusDelivered, StatusCancelled} {
		for _, target := range targets {
			order := sampleOrder()
			order.Status = terminal
			err := order.CanTransitionTo(target)
			require.Error(t, err, "terminal %s should reject transition to %s", terminal, target)
			assert.ErrorIs(t, err, ErrStateConflict)
		}
	}
}

func TestNonTerminalTransitionsAreUnrestricted(t *testing.T) {
	order := sampleOrder()
	order.Status = StatusPlaced
	assert.NoError(t, order.CanTransitionTo(StatusReady))

	order.Status = StatusOutForDelivery
	assert.NoError(t, order.CanTransitionTo(StatusPreparing))
}

func TestTransitionToUnknownStatus(t *testing.T) {
	order := sampleOrder()
	err := order.CanTransitionTo("shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyPaymentConfirmsPlacedOrder(t *testing.T) {
	order := sampleOrder()
	txn := "txn-42"
	require.NoError(t, order.ApplyPayment(PaymentPaid, &txn))

	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, StatusConfirmed, order.Status)
	require.NotNil(t, order.TransactionID)
	assert.Equal(t, "txn-42", *order.TransactionID)
}

func TestApplyPaymentIsNotRepeatable(t *testing.T) {
	order := sampleOrder()
	require.NoError(t, order.ApplyPayment(PaymentPaid, nil))

	err := order.ApplyPayment(PaymentPaid, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, StatusConfirmed, order.Status)
}

func TestApplyPaymentOnCancelledOrder(t *testing.T) {
	order := sampleOrder()
	order.Status = StatusCancelled

	err := order.ApplyPayment(PaymentPaid, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, PaymentPending, order.PaymentStatus)
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod("cod"))
	assert.True(t, ValidPaymentMethod("online"))
	assert.False(t, ValidPaymentMethod("upi"))
	assert.False(t, ValidPaymentMethod(""))
	assert.False(t, ValidPaymentMethod("COD"))
}

func TestApplyPaymentRejectsUnknownStatus(t *testing.T) {
	order := sampleOrder()
	err := order.ApplyPayment("refunded", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyFailedPaymentDoesNotConfirm(t *testing.T) {
	order := sampleOrder()
	require.NoError(t, order.ApplyPayment(PaymentFailed, nil))
	assert.Equal(t, PaymentFailed, order.PaymentStatus)
	assert.Equal(t, StatusPlaced, order.Status)
}

func TestCancelTwice(t *testing.T) {
	order := sampleOrder()
	require.NoError(t, order.Cancel())
	assert.Equal(t, StatusCancelled, order.Status)

	err := order.Cancel()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, StatusCancelled, order.Status)
}

func TestCancelDeliveredOrder(t *testing.T) {
	order := sampleOrder()
	order.Status = StatusDelivered

	err := order.Cancel()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, StatusDelivered, order.Status)
}
