package datafeed

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/datasource"
)

// DailySubscriber is driven date by date rather than row by row. A daily
// strategy runs its whole open -> rebalance -> close cycle inside Datafeed.
type DailySubscriber interface {
	Datafeed(asOfDate string) error
}

// DailyBacktestPublisher walks the business-date list and hands each date to
// every subscriber. It carries the same id semantics as the batch publishers:
// strictly increasing ids, NotFound on unknown ids.
type DailyBacktestPublisher struct {
	source      datasource.DataSource
	subscribers map[int]DailySubscriber
	nextID      int
}

func NewDailyBacktestPublisher(source datasource.DataSource) *DailyBacktestPublisher {
	return &DailyBacktestPublisher{
		source:      source,
		subscribers: make(map[int]DailySubscriber),
		nextID:      1,
	}
}

func (p *DailyBacktestPublisher) AddSubscriber(sub DailySubscriber) (int, error) {
	if sub == nil {
		return 0, fmt.Errorf("cannot add a nil subscriber")
	}

	id := p.nextID
	p.nextID++
	p.subscribers[id] = sub
	return id, nil
}

func (p *DailyBacktestPublisher) RemoveSubscriber(id int) (DailySubscriber, error) {
	sub, ok := p.subscribers[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrSubscriberNotFound, id)
	}
	delete(p.subscribers, id)
	return sub, nil
}

// Connect replays the trading dates in [startDate, endDate]. A subscriber
// error aborts the run: dates must never be processed out of order or
// skipped.
func (p *DailyBacktestPublisher) Connect(startDate, endDate string) error {
	dates, err := p.source.GetBusinessDates(startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch business dates: %w", err)
	}

	ids := make([]int, 0, len(p.subscribers))
	for id := range p.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, date := range dates {
		log.Debugf("processing trading date %s", date)
		for _, id := range ids {
			if err := p.subscribers[id].Datafeed(date); err != nil {
				return fmt.Errorf("subscriber %d failed on %s: %w", id, date, err)
			}
		}
	}

	return nil
}
