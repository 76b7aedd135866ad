package strats

import (
	"github.com/wqtech/bullet/src/datafeed"
	"github.com/wqtech/bullet/src/eventmodels"
	"github.com/wqtech/bullet/src/utils"
)

// Strategy is the closed strategy contract: a bus subscriber that also owns
// a mark-to-market series and reacts to fills. Variants are the signal
// strategies, the weight-rebalancing stock strategy, the portfolio
// aggregator, and the pass-through test strategies.
type Strategy interface {
	datafeed.Subscriber

	// OnMarketClose finalizes one date's mark-to-market and returns it.
	OnMarketClose(asOfDate string, closeInfo *eventmodels.DataBatch) float64

	// Mtm values the strategy against the given close prices.
	Mtm(closeInfo *eventmodels.DataBatch) float64

	// Mtms returns the strategy's mark-to-market series, one entry per
	// trading date in insertion order.
	Mtms() *utils.Series

	// IsActive reports whether the strategy should receive data and trade.
	IsActive() bool

	// OnOrderFilled consumes a fill report. For book-keeping strategies
	// this is the only mutation point of their position book.
	OnOrderFilled(status eventmodels.OrderStatus)

	// OnTradeReturn acknowledges a trade return for a previously placed
	// order.
	OnTradeReturn(orderID int64)
}

// BaseStrategy carries the mark-to-market bookkeeping and neutral defaults
// shared by every strategy variant.
type BaseStrategy struct {
	mtms *utils.Series
}

func NewBaseStrategy() BaseStrategy {
	return BaseStrategy{mtms: utils.NewSeries()}
}

func (s *BaseStrategy) Mtms() *utils.Series {
	return s.mtms
}

// RecordMtm appends one date's mark-to-market to the series.
func (s *BaseStrategy) RecordMtm(asOfDate string, value float64) {
	s.mtms.Set(asOfDate, value)
}

func (s *BaseStrategy) OnData(batch *eventmodels.DataBatch) []*eventmodels.Order {
	return nil
}

func (s *BaseStrategy) OnMarketOpen(asOfDate string) {}

func (s *BaseStrategy) OnMarketClose(asOfDate string, closeInfo *eventmodels.DataBatch) float64 {
	s.RecordMtm(asOfDate, 0)
	return 0
}

func (s *BaseStrategy) Mtm(closeInfo *eventmodels.DataBatch) float64 {
	return 0
}

func (s *BaseStrategy) IsActive() bool {
	return true
}

func (s *BaseStrategy) OnOrderFilled(status eventmodels.OrderStatus) {}

func (s *BaseStrategy) OnTradeReturn(orderID int64) {}

func (s *BaseStrategy) GetSubscribedTopics() []eventmodels.Instrument {
	return nil
}

func (s *BaseStrategy) GetSubscribedDataFields() *eventmodels.FieldSet {
	return eventmodels.AllFields()
}
