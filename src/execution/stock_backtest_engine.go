package execution

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

// stockTickSize is the cash-equity price increment.
const stockTickSize = 0.01

// StockBacktestEngine is the cash-equity simulation engine: tick size fixed
// at one cent, contract multiplier 1, no reference-data dependency.
type StockBacktestEngine struct {
	commissionRate float64
	marketImpact   float64

	orders    map[int64]*eventmodels.Order
	nextID    int64
	callbacks Callbacks
}

func NewStockBacktestEngine(commissionRate, marketImpact float64) *StockBacktestEngine {
	return &StockBacktestEngine{
		commissionRate: commissionRate,
		marketImpact:   marketImpact,
		orders:         make(map[int64]*eventmodels.Order),
		nextID:         1,
	}
}

func (e *StockBacktestEngine) PlaceOrder(order *eventmodels.Order, onFilled OrderCallback) (int64, error) {
	if order == nil {
		return 0, fmt.Errorf("cannot place a nil order")
	}

	orderID := e.nextID
	e.nextID++
	e.orders[orderID] = order

	status, err := e.QueryOrder(orderID)
	if err != nil {
		return 0, err
	}

	if onFilled != nil {
		onFilled(status)
	}
	if e.callbacks.OnTradeReturn != nil {
		e.callbacks.OnTradeReturn(orderID)
	}

	return orderID, nil
}

func (e *StockBacktestEngine) CancelOrder(orderID int64) (eventmodels.OrderStatus, error) {
	log.Warnf("cancel rejected for order %d: backtest orders execute on placement", orderID)
	return eventmodels.OrderStatus{State: eventmodels.OrderStateExecuted}, nil
}

func (e *StockBacktestEngine) QueryOrder(orderID int64) (eventmodels.OrderStatus, error) {
	order, ok := e.orders[orderID]
	if !ok {
		return eventmodels.OrderStatus{}, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
	}

	direction := order.Side.Direction()
	effectivePrice := order.Price + float64(direction)*stockTickSize*e.marketImpact
	commission := effectivePrice * float64(order.Volume) * e.commissionRate

	return eventmodels.NewOrderStatus(
		eventmodels.OrderStateExecuted,
		order.Instrument,
		effectivePrice,
		commission,
		direction,
		order.Volume,
	), nil
}

func (e *StockBacktestEngine) UpdateOrder(orderID int64, newOrder *eventmodels.Order) (int64, error) {
	return -1, fmt.Errorf("%w: order %d already executed", ErrUpdateUnsupported, orderID)
}

func (e *StockBacktestEngine) SetCallbacks(cb Callbacks) {
	e.callbacks = cb
}
