package datafeed

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

const timestampLayout = "200601021504"

type kline struct {
	open  float64
	high  float64
	low   float64
	close float64
}

// KlineDecorator sits between a publisher and a subscriber, compressing tick
// batches into OHLC bars of binSize minutes. Completed bars are forwarded to
// the wrapped subscriber as a single batch; subscription queries delegate to
// the wrapped subscriber.
type KlineDecorator struct {
	subscriber Subscriber
	binSize    int

	klines   map[eventmodels.Instrument]*kline
	prevTime time.Time
}

func NewKlineDecorator(subscriber Subscriber, binSize int) *KlineDecorator {
	return &KlineDecorator{
		subscriber: subscriber,
		binSize:    binSize,
		klines:     make(map[eventmodels.Instrument]*kline),
	}
}

func (d *KlineDecorator) OnData(batch *eventmodels.DataBatch) []*eventmodels.Order {
	current, err := time.Parse(timestampLayout, batch.Timestamp)
	if err != nil {
		log.Warnf("dropping batch with malformed timestamp %q: %v", batch.Timestamp, err)
		return nil
	}

	for id, record := range batch.Records {
		bar, ok := d.klines[id]
		if !ok {
			bar = &kline{open: record.Price, high: record.Price, low: record.Price}
			d.klines[id] = bar
		}
		bar.close = record.Price
		bar.high = math.Max(bar.high, record.Price)
		bar.low = math.Min(bar.low, record.Price)
	}

	if d.prevTime.IsZero() {
		d.prevTime = current
		return nil
	}

	if current.Sub(d.prevTime) < time.Duration(d.binSize)*time.Minute {
		return nil
	}
	d.prevTime = current

	out := eventmodels.NewDataBatch(batch.TradeDate, batch.Timestamp)
	for id, bar := range d.klines {
		out.Add(&eventmodels.DataRecord{
			Instrument: id,
			TradeDate:  batch.TradeDate,
			Timestamp:  batch.Timestamp,
			Price:      bar.close,
			Open:       bar.open,
			High:       bar.high,
			Low:        bar.low,
			Close:      bar.close,
		})
	}
	d.klines = make(map[eventmodels.Instrument]*kline)

	return d.subscriber.OnData(out)
}

func (d *KlineDecorator) OnMarketOpen(asOfDate string) {
	d.subscriber.OnMarketOpen(asOfDate)
}

func (d *KlineDecorator) GetSubscribedTopics() []eventmodels.Instrument {
	return d.subscriber.GetSubscribedTopics()
}

func (d *KlineDecorator) GetSubscribedDataFields() *eventmodels.FieldSet {
	return d.subscriber.GetSubscribedDataFields()
}
