package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqtech/bullet/src/eventmodels"
	"github.com/wqtech/bullet/src/refdata"
)

func futuresRefData() *refdata.StaticRefData {
	rd := refdata.NewStaticRefData()
	rd.Set(refdata.Entry{Instrument: "IF2309", TickSize: 0.2, LotSize: 300, MarginRate: 0.12})
	return rd
}

func TestBacktestEngine(t *testing.T) {
	t.Run("buy pays the impact premium", func(t *testing.T) {
		e := NewBacktestEngine(0.0005, 2, futuresRefData())

		order, err := eventmodels.NewLimitOrder("IF2309", eventmodels.OrderSideBuy, 1, 4000)
		require.NoError(t, err)

		var got eventmodels.OrderStatus
		orderID, err := e.PlaceOrder(order, func(status eventmodels.OrderStatus) { got = status })
		require.NoError(t, err)
		assert.Equal(t, int64(1), orderID)

		// 4000 + 1*0.2*2
		assert.InDelta(t, 4000.4, got.ExecutedPrice, 1e-9)
		assert.InDelta(t, 4000.4*1*300*0.0005, got.Commission, 1e-9)
		assert.Equal(t, 1, got.Direction)
		assert.Equal(t, int64(1), got.Volume)
		assert.Equal(t, eventmodels.OrderStateExecuted, got.State)
	})

	t.Run("sell receives the impact discount", func(t *testing.T) {
		e := NewBacktestEngine(0.0005, 2, futuresRefData())

		order, err := eventmodels.NewLimitOrder("IF2309", eventmodels.OrderSideSell, 1, 4000)
		require.NoError(t, err)

		var got eventmodels.OrderStatus
		_, err = e.PlaceOrder(order, func(status eventmodels.OrderStatus) { got = status })
		require.NoError(t, err)

		assert.InDelta(t, 3999.6, got.ExecutedPrice, 1e-9)
		assert.Equal(t, -1, got.Direction)
	})

	t.Run("fill callback runs before placement returns", func(t *testing.T) {
		e := NewBacktestEngine(0, 0, futuresRefData())

		order, err := eventmodels.NewLimitOrder("IF2309", eventmodels.OrderSideBuy, 1, 4000)
		require.NoError(t, err)

		filled := false
		_, err = e.PlaceOrder(order, func(eventmodels.OrderStatus) { filled = true })
		require.NoError(t, err)
		assert.True(t, filled)
	})

	t.Run("trade return fires after the fill callback", func(t *testing.T) {
		e := NewBacktestEngine(0, 0, futuresRefData())

		var events []string
		e.SetCallbacks(Callbacks{OnTradeReturn: func(orderID int64) {
			events = append(events, "trade-return")
		}})

		order, err := eventmodels.NewLimitOrder("IF2309", eventmodels.OrderSideBuy, 1, 4000)
		require.NoError(t, err)

		_, err = e.PlaceOrder(order, func(eventmodels.OrderStatus) {
			events = append(events, "fill")
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"fill", "trade-return"}, events)
	})

	t.Run("unknown instrument rolls the placement back", func(t *testing.T) {
		e := NewBacktestEngine(0.0005, 2, futuresRefData())

		bad, err := eventmodels.NewLimitOrder("UNKNOWN", eventmodels.OrderSideBuy, 1, 100)
		require.NoError(t, err)

		_, err = e.PlaceOrder(bad, nil)
		assert.ErrorIs(t, err, refdata.ErrInstrumentNotFound)

		// the failed order must not consume an id
		good, err := eventmodels.NewLimitOrder("IF2309", eventmodels.OrderSideBuy, 1, 4000)
		require.NoError(t, err)
		orderID, err := e.PlaceOrder(good, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), orderID)
	})

	t.Run("query unknown order", func(t *testing.T) {
		e := NewBacktestEngine(0.0005, 2, futuresRefData())

		_, err := e.QueryOrder(42)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("cancel reports executed", func(t *testing.T) {
		e := NewBacktestEngine(0.0005, 2, futuresRefData())

		status, err := e.CancelOrder(1)
		require.NoError(t, err)
		assert.Equal(t, eventmodels.OrderStateExecuted, status.State)
	})

	t.Run("update is unsupported", func(t *testing.T) {
		e := NewBacktestEngine(0.0005, 2, futuresRefData())

		newID, err := e.UpdateOrder(1, nil)
		assert.Equal(t, int64(-1), newID)
		assert.ErrorIs(t, err, ErrUpdateUnsupported)
	})

	t.Run("nil order rejected", func(t *testing.T) {
		e := NewBacktestEngine(0.0005, 2, futuresRefData())

		_, err := e.PlaceOrder(nil, nil)
		assert.Error(t, err)
	})
}

func TestStockBacktestEngine(t *testing.T) {
	t.Run("one cent tick and unit lot factor", func(t *testing.T) {
		e := NewStockBacktestEngine(0.001, 2)

		order, err := eventmodels.NewLimitOrder("600000", eventmodels.OrderSideBuy, 200, 10.00)
		require.NoError(t, err)

		var got eventmodels.OrderStatus
		orderID, err := e.PlaceOrder(order, func(status eventmodels.OrderStatus) { got = status })
		require.NoError(t, err)
		assert.Equal(t, int64(1), orderID)

		// 10.00 + 1*0.01*2
		assert.InDelta(t, 10.02, got.ExecutedPrice, 1e-9)
		assert.InDelta(t, 10.02*200*0.001, got.Commission, 1e-9)
	})

	t.Run("sell side", func(t *testing.T) {
		e := NewStockBacktestEngine(0.001, 2)

		order, err := eventmodels.NewLimitOrder("600000", eventmodels.OrderSideSell, 200, 10.00)
		require.NoError(t, err)

		var got eventmodels.OrderStatus
		_, err = e.PlaceOrder(order, func(status eventmodels.OrderStatus) { got = status })
		require.NoError(t, err)
		assert.InDelta(t, 9.98, got.ExecutedPrice, 1e-9)
	})

	t.Run("order ids strictly increase", func(t *testing.T) {
		e := NewStockBacktestEngine(0, 0)

		for want := int64(1); want <= 3; want++ {
			order, err := eventmodels.NewLimitOrder("600000", eventmodels.OrderSideBuy, 100, 10)
			require.NoError(t, err)
			orderID, err := e.PlaceOrder(order, nil)
			require.NoError(t, err)
			assert.Equal(t, want, orderID)
		}
	})

	t.Run("update is unsupported", func(t *testing.T) {
		e := NewStockBacktestEngine(0, 0)

		newID, err := e.UpdateOrder(1, nil)
		assert.Equal(t, int64(-1), newID)
		assert.ErrorIs(t, err, ErrUpdateUnsupported)
	})
}
