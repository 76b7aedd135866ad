package eventmodels

import "fmt"

// OrderSide is the numeric order direction. Sell sorts before buy, which the
// rebalancer relies on to free cash before spending it.
type OrderSide int

const (
	OrderSideSell    OrderSide = -1
	OrderSideUnknown OrderSide = 0
	OrderSideBuy     OrderSide = 1
)

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Direction returns +1 for buy and -1 for sell, the sign used by the
// execution price model.
func (s OrderSide) Direction() int {
	return int(s)
}

func NegateSide(s OrderSide) (OrderSide, error) {
	switch s {
	case OrderSideBuy:
		return OrderSideSell, nil
	case OrderSideSell:
		return OrderSideBuy, nil
	case OrderSideUnknown:
		return OrderSideUnknown, nil
	}
	return OrderSideUnknown, fmt.Errorf("malformed order side %d", int(s))
}
