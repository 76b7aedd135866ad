package datafeed

import (
	"errors"

	"github.com/wqtech/bullet/src/eventmodels"
)

// ErrSubscriberNotFound reports an operation on an unknown subscriber id.
var ErrSubscriberNotFound = errors.New("subscriber not found")

// Subscriber consumes data batches from a publisher. OnData may return
// orders; plain publishers ignore them, while routing subscribers (the
// portfolio) forward them to an execution engine. Subscribers receive full
// batches regardless of their field subscription and ignore fields they did
// not ask for; the field subscription only shapes what the publisher fetches.
type Subscriber interface {
	OnData(batch *eventmodels.DataBatch) []*eventmodels.Order
	OnMarketOpen(asOfDate string)
	GetSubscribedTopics() []eventmodels.Instrument
	GetSubscribedDataFields() *eventmodels.FieldSet
}

// Publisher distributes data batches to registered subscribers. Subscriber
// ids are strictly increasing and never reused. Delivery is synchronous:
// Notify and NotifyAll return only after every OnData call has completed.
type Publisher interface {
	AddSubscriber(sub Subscriber) (int, error)
	RemoveSubscriber(id int) (Subscriber, error)
	Notify(id int, batch *eventmodels.DataBatch) error
	NotifyAll(batch *eventmodels.DataBatch)
}
