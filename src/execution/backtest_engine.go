package execution

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
	"github.com/wqtech/bullet/src/refdata"
)

// BacktestEngine is the deterministic simulation engine for instruments with
// reference data: tick size and contract multiplier come from the injected
// RefData. Every placed order executes synchronously inside PlaceOrder at
// the limit price adjusted by a tick-based market impact.
type BacktestEngine struct {
	commissionRate float64
	marketImpact   float64
	refData        refdata.RefData

	orders    map[int64]*eventmodels.Order
	nextID    int64
	callbacks Callbacks
}

func NewBacktestEngine(commissionRate, marketImpact float64, refData refdata.RefData) *BacktestEngine {
	return &BacktestEngine{
		commissionRate: commissionRate,
		marketImpact:   marketImpact,
		refData:        refData,
		orders:         make(map[int64]*eventmodels.Order),
		nextID:         1,
	}
}

func (e *BacktestEngine) PlaceOrder(order *eventmodels.Order, onFilled OrderCallback) (int64, error) {
	if order == nil {
		return 0, fmt.Errorf("cannot place a nil order")
	}

	orderID := e.nextID
	e.nextID++
	e.orders[orderID] = order

	status, err := e.QueryOrder(orderID)
	if err != nil {
		delete(e.orders, orderID)
		e.nextID--
		return 0, fmt.Errorf("failed to execute order %s: %w", order, err)
	}

	// the fill completes before PlaceOrder returns
	if onFilled != nil {
		onFilled(status)
	}
	if e.callbacks.OnTradeReturn != nil {
		e.callbacks.OnTradeReturn(orderID)
	}

	return orderID, nil
}

// CancelOrder always reports EXECUTED: a backtest order fills atomically on
// placement, so there is never anything left to cancel.
func (e *BacktestEngine) CancelOrder(orderID int64) (eventmodels.OrderStatus, error) {
	log.Warnf("cancel rejected for order %d: backtest orders execute on placement", orderID)
	return eventmodels.OrderStatus{State: eventmodels.OrderStateExecuted}, nil
}

func (e *BacktestEngine) QueryOrder(orderID int64) (eventmodels.OrderStatus, error) {
	order, ok := e.orders[orderID]
	if !ok {
		return eventmodels.OrderStatus{}, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
	}

	tickSize, err := e.refData.GetTickSize(order.Instrument)
	if err != nil {
		return eventmodels.OrderStatus{}, fmt.Errorf("failed to get tick size for %s: %w", order.Instrument, err)
	}
	lotSize, err := e.refData.GetLotSize(order.Instrument)
	if err != nil {
		return eventmodels.OrderStatus{}, fmt.Errorf("failed to get lot size for %s: %w", order.Instrument, err)
	}

	direction := order.Side.Direction()
	effectivePrice := order.Price + float64(direction)*tickSize*e.marketImpact
	commission := effectivePrice * float64(order.Volume) * float64(lotSize) * e.commissionRate

	return eventmodels.NewOrderStatus(
		eventmodels.OrderStateExecuted,
		order.Instrument,
		effectivePrice,
		commission,
		direction,
		order.Volume,
	), nil
}

func (e *BacktestEngine) UpdateOrder(orderID int64, newOrder *eventmodels.Order) (int64, error) {
	return -1, fmt.Errorf("%w: order %d already executed", ErrUpdateUnsupported, orderID)
}

func (e *BacktestEngine) SetCallbacks(cb Callbacks) {
	e.callbacks = cb
}
