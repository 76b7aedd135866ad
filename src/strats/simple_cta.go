package strats

import (
	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

// SimpleCTA is a single-instrument breakout strategy: buy one lot when the
// price crosses above the upper threshold, sell one lot when it drops below
// the lower one. It exists mostly to exercise the bus and engine plumbing
// end to end.
type SimpleCTA struct {
	BaseStrategy

	instrument eventmodels.Instrument
	upper      float64
	lower      float64
	volume     int64
}

func NewSimpleCTA(instrument eventmodels.Instrument, lower, upper float64) *SimpleCTA {
	return &SimpleCTA{
		BaseStrategy: NewBaseStrategy(),
		instrument:   instrument,
		upper:        upper,
		lower:        lower,
		volume:       1,
	}
}

func (s *SimpleCTA) GetSubscribedTopics() []eventmodels.Instrument {
	return []eventmodels.Instrument{s.instrument}
}

func (s *SimpleCTA) GetSubscribedDataFields() *eventmodels.FieldSet {
	return eventmodels.NewFieldSet(eventmodels.FieldPrice)
}

func (s *SimpleCTA) OnData(batch *eventmodels.DataBatch) []*eventmodels.Order {
	record, ok := batch.Get(s.instrument)
	if !ok {
		return nil
	}

	price := record.Get(eventmodels.FieldPrice)

	var side eventmodels.OrderSide
	var offset eventmodels.OrderOffset
	switch {
	case price > s.upper:
		side, offset = eventmodels.OrderSideBuy, eventmodels.OrderOffsetOpen
	case price < s.lower:
		side, offset = eventmodels.OrderSideSell, eventmodels.OrderOffsetClose
	default:
		return nil
	}

	order, err := eventmodels.NewOrder(s.instrument, side, s.volume, price,
		eventmodels.OrderPriceTypeLimit, offset)
	if err != nil {
		log.Errorf("failed to build breakout order: %v", err)
		return nil
	}

	log.Infof("breakout %s at %.4f", order, price)
	return []*eventmodels.Order{order}
}
