package datafeed

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

// SimplePublisher keeps a flat id -> subscriber registry and notifies every
// subscriber on NotifyAll. Iteration is in ascending id order so a replay
// delivers an identical call sequence across runs.
type SimplePublisher struct {
	subscribers map[int]Subscriber
	nextID      int
}

func NewSimplePublisher() *SimplePublisher {
	return &SimplePublisher{
		subscribers: make(map[int]Subscriber),
		nextID:      1,
	}
}

func (p *SimplePublisher) AddSubscriber(sub Subscriber) (int, error) {
	if sub == nil {
		return 0, fmt.Errorf("cannot add a nil subscriber")
	}

	id := p.nextID
	p.nextID++
	p.subscribers[id] = sub
	return id, nil
}

func (p *SimplePublisher) RemoveSubscriber(id int) (Subscriber, error) {
	sub, ok := p.subscribers[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrSubscriberNotFound, id)
	}
	delete(p.subscribers, id)
	return sub, nil
}

func (p *SimplePublisher) Notify(id int, batch *eventmodels.DataBatch) error {
	sub, ok := p.subscribers[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrSubscriberNotFound, id)
	}
	sub.OnData(batch)
	return nil
}

func (p *SimplePublisher) NotifyAll(batch *eventmodels.DataBatch) {
	for _, id := range p.subscriberIDs() {
		p.subscribers[id].OnData(batch)
	}
}

// OpenMarket delivers the market-open hook to every subscriber.
func (p *SimplePublisher) OpenMarket(asOfDate string) {
	for _, id := range p.subscriberIDs() {
		p.subscribers[id].OnMarketOpen(asOfDate)
	}
}

// SubscribedTopics returns the union of topics over all subscribers, sorted.
func (p *SimplePublisher) SubscribedTopics() []eventmodels.Instrument {
	topicSet := make(map[eventmodels.Instrument]struct{})
	for _, sub := range p.subscribers {
		for _, t := range sub.GetSubscribedTopics() {
			topicSet[t] = struct{}{}
		}
	}

	topics := make([]eventmodels.Instrument, 0, len(topicSet))
	for t := range topicSet {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics
}

// SubscribedFields returns the union of field subscriptions; one all-fields
// subscriber makes the union unbounded.
func (p *SimplePublisher) SubscribedFields() *eventmodels.FieldSet {
	fields := eventmodels.NewFieldSet()
	for _, sub := range p.subscribers {
		fields = fields.Union(sub.GetSubscribedDataFields())
		if fields.IsAll() {
			break
		}
	}
	return fields
}

func (p *SimplePublisher) subscriberIDs() []int {
	ids := make([]int, 0, len(p.subscribers))
	for id := range p.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TopicPublisher adds a topic -> subscribers index on top of the flat
// registry. NotifyAll fans out only to subscribers whose topic set intersects
// the batch's instruments, each at most once per batch.
type TopicPublisher struct {
	*SimplePublisher

	topics map[eventmodels.Instrument]map[int]Subscriber
}

func NewTopicPublisher() *TopicPublisher {
	return &TopicPublisher{
		SimplePublisher: NewSimplePublisher(),
		topics:          make(map[eventmodels.Instrument]map[int]Subscriber),
	}
}

func (p *TopicPublisher) AddSubscriber(sub Subscriber) (int, error) {
	id, err := p.SimplePublisher.AddSubscriber(sub)
	if err != nil {
		return 0, err
	}

	for _, topic := range sub.GetSubscribedTopics() {
		if _, ok := p.topics[topic]; !ok {
			p.topics[topic] = make(map[int]Subscriber)
		}
		log.Debugf("add subscriber %d to topic %s", id, topic)
		p.topics[topic][id] = sub
	}
	return id, nil
}

func (p *TopicPublisher) RemoveSubscriber(id int) (Subscriber, error) {
	sub, err := p.SimplePublisher.RemoveSubscriber(id)
	if err != nil {
		return nil, err
	}

	for _, topic := range sub.GetSubscribedTopics() {
		log.Debugf("remove subscriber %d from topic %s", id, topic)
		delete(p.topics[topic], id)
		if len(p.topics[topic]) == 0 {
			delete(p.topics, topic)
		}
	}
	return sub, nil
}

func (p *TopicPublisher) NotifyAll(batch *eventmodels.DataBatch) {
	matched := make(map[int]Subscriber)
	for _, id := range batch.Instruments() {
		for subID, sub := range p.topics[id] {
			matched[subID] = sub
		}
	}

	ids := make([]int, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		matched[id].OnData(batch)
	}
}
