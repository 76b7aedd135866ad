package strats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqtech/bullet/src/eventmodels"
)

func ctaBatch(id eventmodels.Instrument, price float64) *eventmodels.DataBatch {
	batch := eventmodels.NewDataBatch("20230103", "202301030931")
	batch.Add(&eventmodels.DataRecord{
		Instrument: id, TradeDate: "20230103", Timestamp: "202301030931", Price: price,
	})
	return batch
}

func TestSimpleCTA(t *testing.T) {
	ifContract := eventmodels.NewInstrument("IF2309")
	s := NewSimpleCTA(ifContract, 3900, 4100)

	t.Run("buys above the upper threshold", func(t *testing.T) {
		orders := s.OnData(ctaBatch(ifContract, 4150))
		require.Len(t, orders, 1)

		assert.Equal(t, eventmodels.OrderSideBuy, orders[0].Side)
		assert.Equal(t, eventmodels.OrderOffsetOpen, orders[0].Offset)
		assert.Equal(t, int64(1), orders[0].Volume)
		assert.Equal(t, 4150.0, orders[0].Price)
	})

	t.Run("sells below the lower threshold", func(t *testing.T) {
		orders := s.OnData(ctaBatch(ifContract, 3850))
		require.Len(t, orders, 1)

		assert.Equal(t, eventmodels.OrderSideSell, orders[0].Side)
		assert.Equal(t, eventmodels.OrderOffsetClose, orders[0].Offset)
	})

	t.Run("quiet inside the band", func(t *testing.T) {
		assert.Empty(t, s.OnData(ctaBatch(ifContract, 4000)))
	})

	t.Run("ignores other instruments", func(t *testing.T) {
		assert.Empty(t, s.OnData(ctaBatch("IC2309", 9000)))
	})

	t.Run("subscriptions", func(t *testing.T) {
		assert.Equal(t, []eventmodels.Instrument{ifContract}, s.GetSubscribedTopics())
		assert.True(t, s.GetSubscribedDataFields().Contains(eventmodels.FieldPrice))
		assert.False(t, s.GetSubscribedDataFields().IsAll())
	})
}
