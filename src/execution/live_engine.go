package execution

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

// Gateway is the broker-side collaborator of the live engine. Concrete
// implementations speak the venue protocol; the engine only needs order
// routing keyed by a client reference it controls.
type Gateway interface {
	PlaceOrder(clientRef string, order *eventmodels.Order) error
	CancelOrder(clientRef string) error
	UpdateOrder(clientRef string, newOrder *eventmodels.Order) error
}

// Bus topics the gateway publishes venue events on.
const (
	TopicOrderReturn = "execution:order_return"
	TopicTradeReturn = "execution:trade_return"
)

// OrderReturnEvent is the venue's report for a client order reference.
type OrderReturnEvent struct {
	ClientRef string
	Status    eventmodels.OrderStatus
}

type liveOrder struct {
	order     *eventmodels.Order
	clientRef string
	onFilled  OrderCallback
	status    eventmodels.OrderStatus
}

// LiveEngine forwards orders to a Gateway and reports fills when venue
// events arrive on the bus. Handlers are subscribed synchronously so the
// gateway's per-instrument event ordering is preserved on delivery; the fill
// callback is the only point at which callers mutate position state.
type LiveEngine struct {
	gateway Gateway
	bus     EventBus.Bus

	orders    map[int64]*liveOrder
	byRef     map[string]int64
	nextID    int64
	callbacks Callbacks
}

func NewLiveEngine(gateway Gateway, bus EventBus.Bus) (*LiveEngine, error) {
	e := &LiveEngine{
		gateway: gateway,
		bus:     bus,
		orders:  make(map[int64]*liveOrder),
		byRef:   make(map[string]int64),
		nextID:  1,
	}

	if err := bus.Subscribe(TopicOrderReturn, e.onOrderReturn); err != nil {
		return nil, fmt.Errorf("failed to subscribe order returns: %w", err)
	}
	if err := bus.Subscribe(TopicTradeReturn, e.onTradeReturn); err != nil {
		return nil, fmt.Errorf("failed to subscribe trade returns: %w", err)
	}

	return e, nil
}

func (e *LiveEngine) PlaceOrder(order *eventmodels.Order, onFilled OrderCallback) (int64, error) {
	if order == nil {
		return 0, fmt.Errorf("cannot place a nil order")
	}

	clientRef := uuid.NewString()
	orderID := e.nextID
	e.nextID++

	e.orders[orderID] = &liveOrder{
		order:     order,
		clientRef: clientRef,
		onFilled:  onFilled,
		status: eventmodels.NewOrderStatus(
			eventmodels.OrderStateSubmitted,
			order.Instrument, 0, 0, order.Side.Direction(), order.Volume),
	}
	e.byRef[clientRef] = orderID

	if err := e.gateway.PlaceOrder(clientRef, order); err != nil {
		delete(e.orders, orderID)
		delete(e.byRef, clientRef)
		return 0, fmt.Errorf("gateway rejected order %s: %w", order, err)
	}

	if e.callbacks.OnOrderSubmitted != nil {
		e.callbacks.OnOrderSubmitted(orderID)
	}

	return orderID, nil
}

// CancelOrder is advisory: the venue decides whether the order is still
// cancellable. The last known status is returned either way.
func (e *LiveEngine) CancelOrder(orderID int64) (eventmodels.OrderStatus, error) {
	lo, ok := e.orders[orderID]
	if !ok {
		return eventmodels.OrderStatus{}, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
	}

	if err := e.gateway.CancelOrder(lo.clientRef); err != nil {
		return lo.status, fmt.Errorf("gateway rejected cancel for order %d: %w", orderID, err)
	}
	return lo.status, nil
}

func (e *LiveEngine) QueryOrder(orderID int64) (eventmodels.OrderStatus, error) {
	lo, ok := e.orders[orderID]
	if !ok {
		return eventmodels.OrderStatus{}, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
	}
	return lo.status, nil
}

func (e *LiveEngine) UpdateOrder(orderID int64, newOrder *eventmodels.Order) (int64, error) {
	lo, ok := e.orders[orderID]
	if !ok {
		return -1, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
	}

	if err := e.gateway.UpdateOrder(lo.clientRef, newOrder); err != nil {
		return -1, fmt.Errorf("gateway rejected update for order %d: %w", orderID, err)
	}

	lo.order = newOrder
	lo.status = eventmodels.NewOrderStatus(
		eventmodels.OrderStateSubmitted,
		newOrder.Instrument, 0, 0, newOrder.Side.Direction(), newOrder.Volume)
	return orderID, nil
}

func (e *LiveEngine) SetCallbacks(cb Callbacks) {
	e.callbacks = cb
}

func (e *LiveEngine) onOrderReturn(ev OrderReturnEvent) {
	orderID, ok := e.byRef[ev.ClientRef]
	if !ok {
		log.Warnf("order return for unknown client ref %s", ev.ClientRef)
		return
	}

	e.orders[orderID].status = ev.Status

	if e.callbacks.OnOrderReturn != nil {
		e.callbacks.OnOrderReturn(orderID, ev.Status)
	}
}

func (e *LiveEngine) onTradeReturn(ev OrderReturnEvent) {
	orderID, ok := e.byRef[ev.ClientRef]
	if !ok {
		log.Warnf("trade return for unknown client ref %s", ev.ClientRef)
		return
	}

	lo := e.orders[orderID]
	lo.status = ev.Status

	if lo.onFilled != nil {
		lo.onFilled(ev.Status)
	}
	if e.callbacks.OnTradeReturn != nil {
		e.callbacks.OnTradeReturn(orderID)
	}
}
