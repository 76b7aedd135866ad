package strats

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
	"github.com/wqtech/bullet/src/execution"
)

// Portfolio owns a set of strategies and is itself a strategy, so portfolios
// nest behind the same bus subscription. On each batch it routes the data to
// the strategies subscribed to the batch's topics, forwards their orders to
// the execution engine with the emitting strategy's fill callback, and
// remembers which strategy owns each order so trade returns find their way
// back. The aggregator never touches a strategy's position book directly.
type Portfolio struct {
	BaseStrategy

	strategies []Strategy
	topics     map[eventmodels.Instrument][]int
	engine     execution.ExecutionEngine
	orders     map[int64]Strategy

	// isBacktest enables per-batch mark-to-market bookkeeping; live runs
	// skip it to stay fast.
	isBacktest bool
}

func NewPortfolio(engine execution.ExecutionEngine, isBacktest bool) *Portfolio {
	p := &Portfolio{
		BaseStrategy: NewBaseStrategy(),
		topics:       make(map[eventmodels.Instrument][]int),
		engine:       engine,
		orders:       make(map[int64]Strategy),
		isBacktest:   isBacktest,
	}

	engine.SetCallbacks(execution.Callbacks{OnTradeReturn: p.onTradeReturn})

	return p
}

func (p *Portfolio) AddStrategy(s Strategy) {
	idx := len(p.strategies)
	p.strategies = append(p.strategies, s)

	for _, topic := range s.GetSubscribedTopics() {
		log.Debugf("add strategy %d to topic %s", idx, topic)
		p.topics[topic] = append(p.topics[topic], idx)
	}
}

// OnData routes the batch once to each subscribed active strategy and places
// the returned orders. The portfolio emits no orders of its own upward.
func (p *Portfolio) OnData(batch *eventmodels.DataBatch) []*eventmodels.Order {
	for _, idx := range p.strategiesOnTopics(batch.Instruments()) {
		s := p.strategies[idx]
		if !s.IsActive() {
			continue
		}

		for _, order := range s.OnData(batch) {
			orderID, err := p.engine.PlaceOrder(order, s.OnOrderFilled)
			if err != nil {
				log.Errorf("failed to place order %s: %v", order, err)
				continue
			}
			p.orders[orderID] = s
		}
	}

	if p.isBacktest {
		p.OnMarketClose(batch.Timestamp, batch)
	}

	return nil
}

func (p *Portfolio) OnMarketOpen(asOfDate string) {
	for _, s := range p.strategies {
		s.OnMarketOpen(asOfDate)
	}
}

// OnMarketClose aggregates the mark-to-market across strategies and records
// it under the given date.
func (p *Portfolio) OnMarketClose(asOfDate string, closeInfo *eventmodels.DataBatch) float64 {
	mtm := 0.0
	for _, s := range p.strategies {
		mtm += s.OnMarketClose(asOfDate, closeInfo)
	}

	p.RecordMtm(asOfDate, mtm)
	return mtm
}

func (p *Portfolio) Mtm(closeInfo *eventmodels.DataBatch) float64 {
	mtm := 0.0
	for _, s := range p.strategies {
		mtm += s.Mtm(closeInfo)
	}
	return mtm
}

func (p *Portfolio) GetSubscribedTopics() []eventmodels.Instrument {
	topics := make([]eventmodels.Instrument, 0, len(p.topics))
	for t := range p.topics {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics
}

func (p *Portfolio) GetSubscribedDataFields() *eventmodels.FieldSet {
	fields := eventmodels.NewFieldSet()
	for _, s := range p.strategies {
		fields = fields.Union(s.GetSubscribedDataFields())
		if fields.IsAll() {
			break
		}
	}
	return fields
}

// strategiesOnTopics returns the deduplicated strategy indices subscribed to
// any of the given topics, in registration order.
func (p *Portfolio) strategiesOnTopics(topics []eventmodels.Instrument) []int {
	seen := make(map[int]struct{})
	var indices []int
	for _, topic := range topics {
		for _, idx := range p.topics[topic] {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)
	return indices
}

func (p *Portfolio) onTradeReturn(orderID int64) {
	s, ok := p.orders[orderID]
	if !ok {
		log.Warnf("trade return for unknown order %d", orderID)
		return
	}
	s.OnTradeReturn(orderID)
}
