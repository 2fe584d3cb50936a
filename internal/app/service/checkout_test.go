package service

import (
	"context"
	"testing"
	"time"

	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDelivery = domain.DeliveryDetails{Name: "Ada", Address: "1 Main St", Contact: "555-0100"}
	testPayment  = domain.PaymentDetails{CardNumber: "4242424242424242", Expiry: "12/29", CVV: "123"}
)

func TestCheckoutEmptyCart(t *testing.T) {
	s := newTestStore(newFakeCatalog())

	err := s.Checkout.SubmitDelivery(context.Background(), testDelivery)
	require.ErrorIs(t, err, domain.ErrCartEmpty)
	assert.Equal(t, "cart is empty", err.Error())

	_, started := s.Checkout.Delivery()
	assert.False(t, started)
}

func TestCheckoutRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete delivery", func(t *testing.T) {
		s := newTestStore(newFakeCatalog())
		s.Cart.AddToCart(ctx, domain.Product{ID: "1", Price: 5})

		err := s.Checkout.SubmitDelivery(ctx, domain.DeliveryDetails{Name: "Ada", Address: " "})
		assert.ErrorIs(t, err, domain.ErrDeliveryIncomplete)
		_, started := s.Checkout.Delivery()
		assert.False(t, started)
	})

	t.Run("payment before delivery", func(t *testing.T) {
		s := newTestStore(newFakeCatalog())
		s.Cart.AddToCart(ctx, domain.Product{ID: "1", Price: 5})

		_, err := s.Checkout.SubmitPayment(ctx, testPayment)
		assert.ErrorIs(t, err, domain.ErrCheckoutNotStarted)
		assert.Len(t, s.Cart.Lines(), 1)
	})

	t.Run("incomplete payment keeps the cart", func(t *testing.T) {
		s := newTestStore(newFakeCatalog())
		s.Cart.AddToCart(ctx, domain.Product{ID: "1", Price: 5})
		require.NoError(t, s.Checkout.SubmitDelivery(ctx, testDelivery))

		_, err := s.Checkout.SubmitPayment(ctx, domain.PaymentDetails{CardNumber: "4242"})
		assert.ErrorIs(t, err, domain.ErrPaymentIncomplete)
		assert.Len(t, s.Cart.Lines(), 1)
		_, started := s.Checkout.Delivery()
		assert.True(t, started)
	})

	t.Run("cart emptied between steps", func(t *testing.T) {
		s := newTestStore(newFakeCatalog())
		s.Cart.AddToCart(ctx, domain.Product{ID: "1", Price: 5})
		require.NoError(t, s.Checkout.SubmitDelivery(ctx, testDelivery))
		s.Cart.ClearCart(ctx)

		_, err := s.Checkout.SubmitPayment(ctx, testPayment)
		assert.ErrorIs(t, err, domain.ErrCartEmpty)
	})

	t.Run("cancel discards delivery", func(t *testing.T) {
		s := newTestStore(newFakeCatalog())
		s.Cart.AddToCart(ctx, domain.Product{ID: "1", Price: 5})
		require.NoError(t, s.Checkout.SubmitDelivery(ctx, testDelivery))

		s.Checkout.Cancel(ctx)
		_, err := s.Checkout.SubmitPayment(ctx, testPayment)
		assert.ErrorIs(t, err, domain.ErrCheckoutNotStarted)
	})
}

func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeCatalog())
	paidAt := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.Checkout.now = func() time.Time { return paidAt }

	s.Cart.AddToCart(ctx, domain.Product{ID: "1", Price: 12.5})
	s.Cart.AddToCart(ctx, domain.Product{ID: "1", Price: 12.5})
	s.Cart.AddToCart(ctx, domain.Product{ID: "2", Price: 3})

	require.NoError(t, s.Checkout.SubmitDelivery(ctx, testDelivery))
	receipt, err := s.Checkout.SubmitPayment(ctx, testPayment)
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.OrderRef)
	assert.Equal(t, 3, receipt.Items)
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(28)), receipt.Total.String())
	assert.Equal(t, testDelivery, receipt.Delivery)
	assert.Equal(t, paidAt, receipt.PaidAt)

	assert.Empty(t, s.Cart.Lines())
	_, started := s.Checkout.Delivery()
	assert.False(t, started)

	_, err = s.Checkout.SubmitPayment(ctx, testPayment)
	assert.ErrorIs(t, err, domain.ErrCheckoutNotStarted)
}
