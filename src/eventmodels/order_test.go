package eventmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		order, err := NewLimitOrder(NewInstrument("600000"), OrderSideBuy, 100, 10.5)
		require.NoError(t, err)

		assert.Equal(t, NewInstrument("600000"), order.Instrument)
		assert.Equal(t, OrderSideBuy, order.Side)
		assert.Equal(t, int64(100), order.Volume)
		assert.Equal(t, 10.5, order.Price)
		assert.Equal(t, OrderPriceTypeLimit, order.PriceType)
	})

	t.Run("rejects empty instrument", func(t *testing.T) {
		_, err := NewLimitOrder("", OrderSideBuy, 100, 10.5)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive volume", func(t *testing.T) {
		_, err := NewLimitOrder("600000", OrderSideBuy, 0, 10.5)
		assert.Error(t, err)

		_, err = NewLimitOrder("600000", OrderSideSell, -100, 10.5)
		assert.Error(t, err)
	})
}

func TestOrderSide(t *testing.T) {
	t.Run("direction signs", func(t *testing.T) {
		assert.Equal(t, 1, OrderSideBuy.Direction())
		assert.Equal(t, -1, OrderSideSell.Direction())
	})

	t.Run("sell sorts before buy", func(t *testing.T) {
		assert.Less(t, int(OrderSideSell), int(OrderSideBuy))
	})

	t.Run("negate", func(t *testing.T) {
		side, err := NegateSide(OrderSideBuy)
		require.NoError(t, err)
		assert.Equal(t, OrderSideSell, side)

		side, err = NegateSide(OrderSideSell)
		require.NoError(t, err)
		assert.Equal(t, OrderSideBuy, side)

		_, err = NegateSide(OrderSide(7))
		assert.Error(t, err)
	})
}

func TestPriceLimitDetection(t *testing.T) {
	t.Run("locked up limit", func(t *testing.T) {
		r := &DataRecord{Open: 11, High: 11, Low: 11, Close: 11, PctChange: 0.1}
		assert.True(t, r.AtUpLimit())
		assert.False(t, r.AtDownLimit())
	})

	t.Run("locked down limit", func(t *testing.T) {
		r := &DataRecord{Open: 9, High: 9, Low: 9, Close: 9, PctChange: -0.1}
		assert.True(t, r.AtDownLimit())
		assert.False(t, r.AtUpLimit())
	})

	t.Run("traded bar is neither", func(t *testing.T) {
		r := &DataRecord{Open: 10, High: 11, Low: 10, Close: 11, PctChange: 0.1}
		assert.False(t, r.AtUpLimit())
		assert.False(t, r.AtDownLimit())
	})

	t.Run("flat bar with zero change is neither", func(t *testing.T) {
		r := &DataRecord{Open: 10, High: 10, Low: 10, Close: 10, PctChange: 0}
		assert.False(t, r.AtUpLimit())
		assert.False(t, r.AtDownLimit())
	})
}
