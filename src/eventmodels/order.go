package eventmodels

import "fmt"

// Order is an immutable order value. Strategies create orders, the portfolio
// forwards them to an execution engine, and nothing mutates them after
// submission.
type Order struct {
	Instrument Instrument
	Side       OrderSide
	Volume     int64
	Price      float64
	PriceType  OrderPriceType
	Offset     OrderOffset
}

func NewOrder(id Instrument, side OrderSide, volume int64, price float64, priceType OrderPriceType, offset OrderOffset) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("order requires an instrument")
	}
	if volume <= 0 {
		return nil, fmt.Errorf("order volume must be positive, got %d", volume)
	}

	return &Order{
		Instrument: id,
		Side:       side,
		Volume:     volume,
		Price:      price,
		PriceType:  priceType,
		Offset:     offset,
	}, nil
}

// NewLimitOrder builds a plain limit order with no offset, the shape every
// cash-equity strategy emits.
func NewLimitOrder(id Instrument, side OrderSide, volume int64, price float64) (*Order, error) {
	return NewOrder(id, side, volume, price, OrderPriceTypeLimit, OrderOffsetNone)
}

func (o *Order) String() string {
	return fmt.Sprintf("%s %s %d@%.4f", o.Side, o.Instrument, o.Volume, o.Price)
}
