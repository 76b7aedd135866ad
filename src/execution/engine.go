package execution

import (
	"errors"

	"github.com/wqtech/bullet/src/eventmodels"
)

// ErrOrderNotFound reports a query for an order id that was never placed.
var ErrOrderNotFound = errors.New("order not found")

// ErrUpdateUnsupported reports an UpdateOrder call on an engine that cannot
// amend orders.
var ErrUpdateUnsupported = errors.New("update order is not supported")

// OrderCallback receives the fill report of a placed order. Backtest engines
// invoke it synchronously before PlaceOrder returns; the live engine invokes
// it whenever the venue reports, so callers must tolerate both schedules.
type OrderCallback func(status eventmodels.OrderStatus)

// Callbacks are the asynchronous venue-event hooks a live engine dispatches.
// Backtest engines accept them but only use OnTradeReturn.
type Callbacks struct {
	OnUserLogin      func()
	OnOrderSubmitted func(orderID int64)
	OnOrderReturn    func(orderID int64, status eventmodels.OrderStatus)
	OnTradeReturn    func(orderID int64)
}

// ExecutionEngine accepts orders and reports fills. The two variants share
// this contract so strategy code never knows whether it is simulated.
type ExecutionEngine interface {
	// PlaceOrder submits the order and returns its engine-assigned id.
	// Order ids start at 1 and strictly increase.
	PlaceOrder(order *eventmodels.Order, onFilled OrderCallback) (int64, error)

	// CancelOrder attempts to cancel and returns the resulting status.
	CancelOrder(orderID int64) (eventmodels.OrderStatus, error)

	// QueryOrder returns the status of a placed order, or ErrOrderNotFound.
	QueryOrder(orderID int64) (eventmodels.OrderStatus, error)

	// UpdateOrder replaces a resting order, returning the new id. Engines
	// that cannot amend return -1 and ErrUpdateUnsupported.
	UpdateOrder(orderID int64, newOrder *eventmodels.Order) (int64, error)

	// SetCallbacks installs the venue-event hooks.
	SetCallbacks(cb Callbacks)
}
