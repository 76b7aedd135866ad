package eventmodels

// OrderOffset tells a derivatives venue whether the order opens or closes a
// position. Cash equity orders use OrderOffsetNone.
type OrderOffset string

const (
	OrderOffsetOpen       OrderOffset = "open"
	OrderOffsetClose      OrderOffset = "close"
	OrderOffsetCloseToday OrderOffset = "close_today"
	OrderOffsetNone       OrderOffset = "none"
)
