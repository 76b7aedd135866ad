package strats

import (
	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

// NullStrategy subscribes to a topic set, consumes data and emits nothing.
// Useful as a sink when measuring replay throughput.
type NullStrategy struct {
	BaseStrategy

	topics []eventmodels.Instrument
}

func NewNullStrategy(topics ...eventmodels.Instrument) *NullStrategy {
	return &NullStrategy{BaseStrategy: NewBaseStrategy(), topics: topics}
}

func (s *NullStrategy) GetSubscribedTopics() []eventmodels.Instrument {
	return s.topics
}

// EchoStrategy logs every batch it receives. It is the smallest strategy
// that makes the replay visible.
type EchoStrategy struct {
	BaseStrategy

	topics []eventmodels.Instrument
}

func NewEchoStrategy(topics ...eventmodels.Instrument) *EchoStrategy {
	return &EchoStrategy{BaseStrategy: NewBaseStrategy(), topics: topics}
}

func (s *EchoStrategy) GetSubscribedTopics() []eventmodels.Instrument {
	return s.topics
}

func (s *EchoStrategy) OnData(batch *eventmodels.DataBatch) []*eventmodels.Order {
	for _, id := range batch.Instruments() {
		record, _ := batch.Get(id)
		log.Infof("%s %s close=%.4f volume=%.0f",
			batch.Timestamp, id, record.Close, record.Volume)
	}
	return nil
}
