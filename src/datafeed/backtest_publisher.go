package datafeed

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/datasource"
	"github.com/wqtech/bullet/src/eventmodels"
)

// BacktestPublisher replays historical rows to its subscribers in increasing
// (trade date, timestamp) order. Per date, every subscriber receives the
// market-open hook before the first batch of that date; per timestamp, all
// rows sharing the timestamp are delivered in a single NotifyAll.
type BacktestPublisher struct {
	*SimplePublisher

	source datasource.DataSource
}

func NewBacktestPublisher(source datasource.DataSource) *BacktestPublisher {
	return &BacktestPublisher{
		SimplePublisher: NewSimplePublisher(),
		source:          source,
	}
}

// Connect fetches all rows for the union of subscriptions over
// [startDate, endDate] and replays them.
func (p *BacktestPublisher) Connect(startDate, endDate string) error {
	topics := p.SubscribedTopics()
	fields := p.SubscribedFields()

	if fields.IsAll() {
		log.Debugf("subscribing %d topics for all fields", len(topics))
	} else {
		log.Debugf("subscribing %d topics for %d fields", len(topics), fields.Len())
	}

	rows, err := p.source.GetData(topics, fields, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch replay data: %w", err)
	}

	// date -> timestamp -> batch
	byDate := make(map[string]map[string]*eventmodels.DataBatch)
	for _, row := range rows {
		timestamps, ok := byDate[row.TradeDate]
		if !ok {
			timestamps = make(map[string]*eventmodels.DataBatch)
			byDate[row.TradeDate] = timestamps
		}
		batch, ok := timestamps[row.Timestamp]
		if !ok {
			batch = eventmodels.NewDataBatch(row.TradeDate, row.Timestamp)
			timestamps[row.Timestamp] = batch
		}
		batch.Add(row)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, date := range dates {
		p.OpenMarket(date)

		timestamps := make([]string, 0, len(byDate[date]))
		for ts := range byDate[date] {
			timestamps = append(timestamps, ts)
		}
		sort.Strings(timestamps)

		for _, ts := range timestamps {
			p.NotifyAll(byDate[date][ts])
		}
	}

	return nil
}
