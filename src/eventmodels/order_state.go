package eventmodels

// OrderState is the order lifecycle state. Accepted orders move from
// submitted to exactly one of executed or cancelled.
type OrderState string

const (
	OrderStateSubmitted OrderState = "submitted"
	OrderStateCancelled OrderState = "cancelled"
	OrderStateExecuted  OrderState = "executed"
)
