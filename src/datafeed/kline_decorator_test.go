package datafeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqtech/bullet/src/eventmodels"
)

type capturingSubscriber struct {
	batches []*eventmodels.DataBatch
	opens   []string
}

func (s *capturingSubscriber) OnData(batch *eventmodels.DataBatch) []*eventmodels.Order {
	s.batches = append(s.batches, batch)
	return nil
}

func (s *capturingSubscriber) OnMarketOpen(asOfDate string) {
	s.opens = append(s.opens, asOfDate)
}

func (s *capturingSubscriber) GetSubscribedTopics() []eventmodels.Instrument {
	return []eventmodels.Instrument{"IBM"}
}

func (s *capturingSubscriber) GetSubscribedDataFields() *eventmodels.FieldSet {
	return eventmodels.NewFieldSet(eventmodels.FieldPrice)
}

func tickBatch(timestamp string, price float64) *eventmodels.DataBatch {
	batch := eventmodels.NewDataBatch(timestamp[:8], timestamp)
	batch.Add(&eventmodels.DataRecord{
		Instrument: "IBM",
		TradeDate:  timestamp[:8],
		Timestamp:  timestamp,
		Price:      price,
	})
	return batch
}

func TestKlineDecorator(t *testing.T) {
	t.Run("aggregates ticks into one bar", func(t *testing.T) {
		sink := &capturingSubscriber{}
		d := NewKlineDecorator(sink, 5)

		d.OnData(tickBatch("202301030931", 10))
		d.OnData(tickBatch("202301030933", 12))
		assert.Empty(t, sink.batches)

		d.OnData(tickBatch("202301030936", 11))
		require.Len(t, sink.batches, 1)

		record, ok := sink.batches[0].Get("IBM")
		require.True(t, ok)
		assert.Equal(t, 10.0, record.Open)
		assert.Equal(t, 12.0, record.High)
		assert.Equal(t, 10.0, record.Low)
		assert.Equal(t, 11.0, record.Close)
		assert.Equal(t, "202301030936", record.Timestamp)
	})

	t.Run("bar state resets after emission", func(t *testing.T) {
		sink := &capturingSubscriber{}
		d := NewKlineDecorator(sink, 5)

		d.OnData(tickBatch("202301030931", 10))
		d.OnData(tickBatch("202301030936", 50))
		require.Len(t, sink.batches, 1)

		d.OnData(tickBatch("202301030938", 7))
		d.OnData(tickBatch("202301030941", 8))
		require.Len(t, sink.batches, 2)

		record, ok := sink.batches[1].Get("IBM")
		require.True(t, ok)
		assert.Equal(t, 7.0, record.Open)
		assert.Equal(t, 8.0, record.High)
		assert.Equal(t, 7.0, record.Low)
		assert.Equal(t, 8.0, record.Close)
	})

	t.Run("malformed timestamps are dropped", func(t *testing.T) {
		sink := &capturingSubscriber{}
		d := NewKlineDecorator(sink, 5)

		d.OnData(tickBatch("202301030931", 10))
		assert.Nil(t, d.OnData(eventmodels.NewDataBatch("20230103", "not-a-time")))
		assert.Empty(t, sink.batches)
	})

	t.Run("delegates subscription queries", func(t *testing.T) {
		sink := &capturingSubscriber{}
		d := NewKlineDecorator(sink, 5)

		assert.Equal(t, sink.GetSubscribedTopics(), d.GetSubscribedTopics())
		assert.True(t, d.GetSubscribedDataFields().Contains(eventmodels.FieldPrice))

		d.OnMarketOpen("20230103")
		assert.Equal(t, []string{"20230103"}, sink.opens)
	})
}
