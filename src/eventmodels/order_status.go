package eventmodels

// OrderStatus reports the outcome of an order: its lifecycle state plus the
// fill terms. The simulation model produces exactly one fill per accepted
// order, so status and fill travel together.
type OrderStatus struct {
	State         OrderState
	Instrument    Instrument
	ExecutedPrice float64
	Commission    float64
	Direction     int
	Volume        int64
}

func NewOrderStatus(state OrderState, id Instrument, executedPrice, commission float64, direction int, volume int64) OrderStatus {
	return OrderStatus{
		State:         state,
		Instrument:    id,
		ExecutedPrice: executedPrice,
		Commission:    commission,
		Direction:     direction,
		Volume:        volume,
	}
}
