package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRestaurant() *Restaurant {
	return NewRestaurant(1, "Trattoria Roma", "", true)
}

func availableProduct(id int, price float64) *Product {
	return NewProduct(id, 1, "Dish", price, "", true)
}

func TestCart_AddItem(t *testing.T) {
	t.Run("rejects non-positive quantity", func(t *testing.T) {
		cart := NewCart(7)
		err := cart.AddItem(availableProduct(1, 10), 0, "")
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		err = cart.AddItem(availableProduct(1, 10), -3, "")
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Len(t, cart.Lines(), 0)
	})

	t.Run("rejects unavailable product", func(t *testing.T) {
		cart := NewCart(7)
		p := availableProduct(1, 10)
		p.SetAvailable(false)
		err := cart.AddItem(p, 1, "")
		assert.ErrorIs(t, err, ErrProductUnavailable)
		assert.Len(t, cart.Lines(), 0)
	})

	t.Run("rejects duplicate product instead of merging", func(t *testing.T) {
		cart := NewCart(7)
		p := availableProduct(1, 10)
		require.NoError(t, cart.AddItem(p, 2, ""))
		err := cart.AddItem(p, 3, "")
		assert.ErrorIs(t, err, ErrDuplicateItem)
		lines := cart.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity, "original quantity unchanged")
	})

	t.Run("snapshots unit price at add time", func(t *testing.T) {
		cart := NewCart(7)
		p := availableProduct(1, 10)
		require.NoError(t, cart.AddItem(p, 2, ""))
		p.Price = 99
		assert.Equal(t, 20.0, cart.Subtotal(), "reprice must not affect existing lines")
	})
}

func TestCart_RemoveProduct(t *testing.T) {
	cart := NewCart(7)
	require.NoError(t, cart.AddItem(availableProduct(1, 10), 1, ""))

	assert.True(t, cart.RemoveProduct(1))
	assert.False(t, cart.RemoveProduct(1), "removing an absent product is a no-op")
	assert.True(t, cart.Empty())
}

func TestCart_CouponAndTotals(t *testing.T) {
	cart := NewCart(7)
	require.NoError(t, cart.AddItem(availableProduct(1, 45), 2, ""))
	assert.Equal(t, 90.0, cart.Subtotal())

	require.NoError(t, cart.ApplyCoupon(NewPercentageCoupon("TEN", 10, nil)))
	assert.InDelta(t, 81.0, cart.TotalWithDiscount(), 0.001)

	expired := time.Now().Add(-time.Hour)
	err := cart.ApplyCoupon(NewPercentageCoupon("OLD", 50, &expired))
	assert.ErrorIs(t, err, ErrCouponInvalid)
	assert.InDelta(t, 81.0, cart.TotalWithDiscount(), 0.001, "invalid coupon application is a no-op")

	cart.Clear()
	assert.True(t, cart.Empty())
	assert.Nil(t, cart.Coupon(), "clear drops the coupon")
}

func TestCart_Checkout_Validation(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		cart := NewCart(7)
		cart.SelectRestaurant(openRestaurant())
		_, err := cart.Checkout()
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("no restaurant selected", func(t *testing.T) {
		cart := NewCart(7)
		require.NoError(t, cart.AddItem(availableProduct(1, 20), 1, ""))
		_, err := cart.Checkout()
		assert.ErrorIs(t, err, ErrNoRestaurantSelected)
	})

	t.Run("closed restaurant", func(t *testing.T) {
		cart := NewCart(7)
		r := openRestaurant()
		r.SetOpen(false)
		cart.SelectRestaurant(r)
		require.NoError(t, cart.AddItem(availableProduct(1, 20), 1, ""))
		_, err := cart.Checkout()
		assert.ErrorIs(t, err, ErrRestaurantClosed)
	})

	t.Run("below minimum order", func(t *testing.T) {
		cart := NewCart(7)
		cart.SelectRestaurant(openRestaurant())
		require.NoError(t, cart.AddItem(availableProduct(1, 10), 1, ""))
		_, err := cart.Checkout()
		assert.ErrorIs(t, err, ErrBelowMinimumOrder)
		assert.False(t, cart.Empty(), "cart survives a failed checkout")
	})

	t.Run("product withdrawn after add", func(t *testing.T) {
		cart := NewCart(7)
		cart.SelectRestaurant(openRestaurant())
		p := availableProduct(1, 20)
		require.NoError(t, cart.AddItem(p, 1, ""))
		p.SetAvailable(false)
		_, err := cart.Checkout()
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})
}

func TestCart_Checkout_MaterializesOrder(t *testing.T) {
	cart := NewCart(7)
	cart.SelectRestaurant(openRestaurant())
	pa := availableProduct(1, 20)
	pa.Name = "Product A"
	pb := availableProduct(2, 15)
	pb.Name = "Product B"
	require.NoError(t, cart.AddItem(pa, 2, "no onions"))
	require.NoError(t, cart.AddItem(pb, 1, ""))

	order, err := cart.Checkout()
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 7, order.CustomerID)
	assert.Equal(t, 1, order.RestaurantID)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Product A", order.Lines[0].ProductName)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, "no onions", order.Lines[0].Notes)
	assert.Equal(t, 1, order.Lines[1].Quantity)
	assert.Equal(t, 55.0, order.Total)

	assert.False(t, cart.Empty(), "checkout itself does not clear the cart")

	// Mutating the cart afterwards must not leak into the order.
	cart.Clear()
	assert.Len(t, order.Lines, 2)
}

func TestCart_SelectRestaurant_SwitchDropsLines(t *testing.T) {
	cart := NewCart(7)
	cart.SelectRestaurant(openRestaurant())
	require.NoError(t, cart.AddItem(availableProduct(1, 20), 1, ""))

	cart.SelectRestaurant(NewRestaurant(2, "Sakura Sushi", "", true))
	assert.True(t, cart.Empty(), "lines from another menu are dropped")
}
