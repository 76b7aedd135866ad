package datafeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqtech/bullet/src/datasource"
	"github.com/wqtech/bullet/src/eventmodels"
)

func replaySource(t *testing.T) *datasource.MemoryDataSource {
	t.Helper()

	src := datasource.NewMemoryDataSource()
	ibm := eventmodels.NewInstrument("IBM")
	aapl := eventmodels.NewInstrument("AAPL")

	// two dates, two timestamps each, deliberately added out of order
	src.AddRecords(
		&eventmodels.DataRecord{Instrument: ibm, TradeDate: "20230104", Timestamp: "202301040932", Price: 12},
		&eventmodels.DataRecord{Instrument: ibm, TradeDate: "20230103", Timestamp: "202301030932", Price: 11},
		&eventmodels.DataRecord{Instrument: aapl, TradeDate: "20230103", Timestamp: "202301030931", Price: 20},
		&eventmodels.DataRecord{Instrument: ibm, TradeDate: "20230103", Timestamp: "202301030931", Price: 10},
		&eventmodels.DataRecord{Instrument: aapl, TradeDate: "20230104", Timestamp: "202301040931", Price: 21},
	)
	return src
}

func TestBacktestPublisherReplay(t *testing.T) {
	t.Run("open precedes data, timestamps ascend, rows share one batch", func(t *testing.T) {
		var trace []string
		p := NewBacktestPublisher(replaySource(t))

		_, err := p.AddSubscriber(newRecordingSubscriber("s", &trace,
			eventmodels.NewInstrument("IBM"), eventmodels.NewInstrument("AAPL")))
		require.NoError(t, err)

		require.NoError(t, p.Connect("20230103", "20230104"))

		assert.Equal(t, []string{
			"s:open:20230103",
			"s:data:202301030931",
			"s:data:202301030932",
			"s:open:20230104",
			"s:data:202301040931",
			"s:data:202301040932",
		}, trace)
	})

	t.Run("replay is deterministic across runs", func(t *testing.T) {
		run := func() []string {
			var trace []string
			p := NewBacktestPublisher(replaySource(t))
			for _, name := range []string{"a", "b", "c"} {
				_, err := p.AddSubscriber(newRecordingSubscriber(name, &trace,
					eventmodels.NewInstrument("IBM")))
				require.NoError(t, err)
			}
			require.NoError(t, p.Connect("20230103", "20230104"))
			return trace
		}

		first := run()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, run())
		}
	})

	t.Run("date range bounds are inclusive", func(t *testing.T) {
		var trace []string
		p := NewBacktestPublisher(replaySource(t))

		_, err := p.AddSubscriber(newRecordingSubscriber("s", &trace,
			eventmodels.NewInstrument("IBM")))
		require.NoError(t, err)

		require.NoError(t, p.Connect("20230104", "20230104"))
		assert.Equal(t, []string{"s:open:20230104", "s:data:202301040932"}, trace)
	})
}

func TestDailyBacktestPublisher(t *testing.T) {
	src := datasource.NewMemoryDataSource()
	src.SetBusinessDates([]string{"20230103", "20230104", "20230105"})

	t.Run("walks dates in order", func(t *testing.T) {
		var dates []string
		p := NewDailyBacktestPublisher(src)

		_, err := p.AddSubscriber(dailyFunc(func(asOfDate string) error {
			dates = append(dates, asOfDate)
			return nil
		}))
		require.NoError(t, err)

		require.NoError(t, p.Connect("20230103", "20230105"))
		assert.Equal(t, []string{"20230103", "20230104", "20230105"}, dates)
	})

	t.Run("subscriber error aborts the run", func(t *testing.T) {
		var dates []string
		p := NewDailyBacktestPublisher(src)

		_, err := p.AddSubscriber(dailyFunc(func(asOfDate string) error {
			dates = append(dates, asOfDate)
			if asOfDate == "20230104" {
				return assert.AnError
			}
			return nil
		}))
		require.NoError(t, err)

		err = p.Connect("20230103", "20230105")
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, []string{"20230103", "20230104"}, dates)
	})

	t.Run("ids never reused", func(t *testing.T) {
		p := NewDailyBacktestPublisher(src)

		id1, err := p.AddSubscriber(dailyFunc(func(string) error { return nil }))
		require.NoError(t, err)
		assert.Equal(t, 1, id1)

		_, err = p.RemoveSubscriber(id1)
		require.NoError(t, err)
		_, err = p.RemoveSubscriber(id1)
		assert.ErrorIs(t, err, ErrSubscriberNotFound)

		id2, err := p.AddSubscriber(dailyFunc(func(string) error { return nil }))
		require.NoError(t, err)
		assert.Equal(t, 2, id2)
	})
}

type dailyFunc func(asOfDate string) error

func (f dailyFunc) Datafeed(asOfDate string) error {
	return f(asOfDate)
}
